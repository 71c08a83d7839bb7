package service

import (
	"github.com/dom/user-directory/internal/config"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/repository"
	"github.com/dom/user-directory/internal/token"
)

type Services struct {
	Auth      *AuthService
	Directory *DirectoryService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier Notifier, log *logger.Logger) *Services {
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)

	return &Services{
		Auth:      NewAuthService(repos.User, tokens, log.With("service", "auth")),
		Directory: NewDirectoryService(repos.User, notifier, log.With("service", "directory")),
	}
}
