package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yigit/rosterhub/internal/app/models"
	"github.com/yigit/rosterhub/internal/app/models/dto"
	"github.com/yigit/rosterhub/internal/pkg/apperrors"
	"github.com/yigit/rosterhub/internal/pkg/auth"
	"github.com/yigit/rosterhub/internal/pkg/logger"
)

// AuthService handles guardian account registration and login. Staff tokens
// are issued by the school SSO; only parent credentials live here.
type AuthService struct {
	parents ParentStore
	jwt     *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(parents ParentStore, jwt *auth.JWTService) *AuthService {
	return &AuthService{
		parents: parents,
		jwt:     jwt,
	}
}

// RegisterParent creates a guardian account with a hashed password
func (s *AuthService) RegisterParent(ctx context.Context, req *dto.ParentRegisterRequest) (*models.Parent, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	parent := &models.Parent{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		PasswordHash: hash,
	}

	if err := s.parents.Create(ctx, parent); err != nil {
		return nil, err
	}

	logger.Info().Int64("parentID", parent.ID).Msg("Parent account registered")
	return parent, nil
}

// LoginParent verifies credentials and issues an access token
func (s *AuthService) LoginParent(ctx context.Context, req *dto.ParentLoginRequest) (*dto.TokenResponse, *models.Parent, error) {
	parent, err := s.parents.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrParentNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !auth.CheckPassword(parent.PasswordHash, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwt.GenerateToken(parent.ID, parent.Email, string(models.RoleParent))
	if err != nil {
		return nil, nil, err
	}

	return &dto.TokenResponse{AccessToken: token, ExpiresIn: expiresIn}, parent, nil
}
