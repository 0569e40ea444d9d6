package service

import (
	"context"
	"errors"
	"fmt"

	"internet-banking/internal/logger"
	"internet-banking/internal/repository"
	"internet-banking/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any login failure so a caller
// cannot tell unknown users apart from wrong passwords.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	logger   *logger.Logger
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.NewFromEnv(),
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Enabled:      true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered: %s", user.Username)
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Enabled || user.Locked {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login stamping is diagnostic only, the login itself succeeded.
		s.logger.Warn("Failed to update last login for user %d: %v", user.ID, err)
	}

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
