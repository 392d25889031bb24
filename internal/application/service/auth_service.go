package service

import (
	"context"
	"strings"

	"github.com/ferrigb/sistema-nota/internal/domain/entity"
	"github.com/ferrigb/sistema-nota/internal/domain/repository"
	"github.com/ferrigb/sistema-nota/pkg/apperror"
	"github.com/ferrigb/sistema-nota/pkg/logger"
	"github.com/ferrigb/sistema-nota/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles operator authentication
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, jwtManager *utils.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger.OrNop(log),
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	User        *entity.User
	AccessToken string
}

// Login checks the credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if user == nil || !user.Active || !utils.CheckPasswordHash(input.Password, user.Password) {
		s.logger.Warn("failed login attempt", zap.String("username", username))
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", zap.String("username", user.Username))
	return &LoginOutput{
		User:        user,
		AccessToken: token,
	}, nil
}

// GetCurrentUser returns the active user behind a session
func (s *AuthService) GetCurrentUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if user == nil || !user.Active {
		return nil, apperror.ErrUnauthorized
	}
	return user, nil
}
