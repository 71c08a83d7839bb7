package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/repository"
)

// Notifier receives directory changes after they are committed.
type Notifier interface {
	Publish(event domain.DirectoryEvent)
}

type noopNotifier struct{}

func (noopNotifier) Publish(domain.DirectoryEvent) {}

type DirectoryService struct {
	userRepo repository.UserRepository
	notifier Notifier
	log      *logger.Logger
	hashCost int
}

func NewDirectoryService(userRepo repository.UserRepository, notifier Notifier, log *logger.Logger) *DirectoryService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &DirectoryService{
		userRepo: userRepo,
		notifier: notifier,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// List returns one page of users ordered by id. The window and the total are
// read by two separate statements.
func (s *DirectoryService) List(ctx context.Context, page, limit int) (*domain.Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = domain.DefaultPageSize
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}

	users, err := s.userRepo.List(ctx, limit, domain.Offset(page, limit))
	if err != nil {
		s.log.Error("failed to list users", "page", page, "limit", limit, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	total, err := s.userRepo.Count(ctx)
	if err != nil {
		s.log.Error("failed to count users", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return &domain.Page{
		Users:       users,
		TotalPages:  domain.TotalPages(total, limit),
		CurrentPage: page,
		TotalUsers:  total,
	}, nil
}

func (s *DirectoryService) Create(ctx context.Context, input domain.NewUser) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.Normalize()

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.hashCost)
	if err != nil {
		s.log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	user := &domain.User{
		Name:         input.Name,
		Lastname:     input.Lastname,
		Email:        input.Email,
		PasswordHash: string(hash),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		s.log.Error("failed to create user", "email", input.Email, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	s.notifier.Publish(domain.DirectoryEvent{Type: domain.EventUserCreated, UserID: user.UserID})
	return user, nil
}

func (s *DirectoryService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrInvalidUserID
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.log.Error("failed to delete user", "userId", id, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrServiceUnavailable, err)
	}

	s.notifier.Publish(domain.DirectoryEvent{Type: domain.EventUserDeleted, UserID: id})
	return nil
}
