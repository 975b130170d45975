// Package service implements the forum's use cases on top of the repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"climateforum/internal/middleware"
	"climateforum/internal/models"
	"climateforum/internal/observability"
	"climateforum/internal/repository"
	"climateforum/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// User-facing authentication messages. Both failure paths share one message.
const (
	MsgAccountExists      = "Username or email already exists."
	MsgInvalidCredentials = "Invalid username or password."
)

// AuthService registers and authenticates members.
type AuthService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewAuthService builds an AuthService hashing with bcrypt.DefaultCost.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return NewAuthServiceWithCost(userRepo, bcrypt.DefaultCost)
}

// NewAuthServiceWithCost builds an AuthService with a specific bcrypt cost.
// It panics when cost is above bcrypt.MaxCost.
func NewAuthServiceWithCost(userRepo repository.UserRepository, cost int) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("climateforum-dummy-password"), cost)
	if err != nil {
		panic(fmt.Sprintf("auth service: bcrypt cost %d: %v", cost, err))
	}
	return &AuthService{userRepo: userRepo, bcryptCost: cost, dummyHash: dummy}
}

// Register validates the form, rejects taken usernames or emails with one generic
// message, and stores the account with a bcrypt hash. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, form validation.SignupForm) (*models.User, error) {
	form = form.Normalize()
	if err := validation.ValidateSignup(form); err != nil {
		observability.SignupsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsernameOrEmail(ctx, form.Username, form.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		observability.SignupsTotal.WithLabelValues("conflict").Inc()
		return nil, models.NewConflictError(MsgAccountExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if models.IsCode(err, models.CodeConflict) {
			observability.SignupsTotal.WithLabelValues("conflict").Inc()
			return nil, models.NewConflictError(MsgAccountExists)
		}
		return nil, err
	}

	observability.SignupsTotal.WithLabelValues("created").Inc()
	middleware.Logger.InfoContext(ctx, "account created", slog.Uint64("account_id", uint64(user.ID)))
	return user, nil
}

// Authenticate returns the user for valid credentials. An unknown username and a wrong
// password yield the same UNAUTHORIZED error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if err := validation.ValidateLogin(username, password); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || user == nil {
		observability.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, models.NewUnauthorizedError(MsgInvalidCredentials)
	}

	observability.LoginsTotal.WithLabelValues("success").Inc()
	return user, nil
}
