package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/repository"
	"github.com/dom/user-directory/internal/token"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
	log      *logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Subject   domain.Subject
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		s.log.Error("failed to look up user", "email", email, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sub := domain.Subject{Email: user.Email, UserID: user.UserID}
	signed, expiresAt, err := s.tokens.Generate(sub)
	if err != nil {
		s.log.Error("failed to issue token", "userId", user.UserID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		Subject:   sub,
	}, nil
}

// VerifySession resolves the subject of a session token.
func (s *AuthService) VerifySession(tokenString string) (*domain.Subject, error) {
	if tokenString == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	sub := claims.Subject()
	return &sub, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
