package service

import (
	"context"

	"climateforum/internal/models"
	"climateforum/internal/repository"
)

// UserService holds account administration used by the CLI.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SetModerator grants or revokes the moderator flag.
func (s *UserService) SetModerator(ctx context.Context, username string, isModerator bool) (*models.User, error) {
	if username == "" {
		return nil, models.NewValidationError("username is required")
	}
	user, err := s.userRepo.SetModerator(ctx, username, isModerator)
	if err != nil {
		return nil, err
	}
	user.IsModerator = isModerator
	return user, nil
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
