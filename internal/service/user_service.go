package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"questboard/internal/errors"
	"questboard/internal/model"
	"questboard/internal/repository"
)

// Profile is a user plus their progression snapshot.
type Profile struct {
	User  *model.User `json:"user"`
	Stats *UserStats  `json:"stats"`
}

// UpdateUserInput carries optional admin edits.
type UpdateUserInput struct {
	Name    *string
	Email   *string
	IsAdmin *bool
}

// UserService covers profile reads and admin user management.
type UserService interface {
	Profile(ctx context.Context, userID uint) (*Profile, error)
	IsAdmin(ctx context.Context, userID uint) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, userID uint, in UpdateUserInput) (*model.User, error)
	// Delete removes the user; owned tasks go with it via cascade.
	Delete(ctx context.Context, userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
	ledger   ProgressionLedger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, ledger ProgressionLedger) UserService {
	return &userService{
		userRepo: userRepo,
		ledger:   ledger,
	}
}

func (s *userService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	stats, err := s.ledger.StatsFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Stats: stats}, nil
}

func (s *userService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return false, errors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.IsAdmin, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Update(ctx context.Context, userID uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", errors.ErrValidation)
		}
		user.Name = *in.Name
	}
	if in.Email != nil {
		if *in.Email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", errors.ErrValidation)
		}
		user.Email = *in.Email
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
