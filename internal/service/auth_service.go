package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/config"
	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/repository"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

// AuthService coordinates collaborator login and credentials.
type AuthService struct {
	collaborators repository.CollaboratorRepository
	tokenMgr      *auth.TokenManager
	bcryptCost    int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, collaborators repository.CollaboratorRepository) *AuthService {
	return &AuthService{
		collaborators: collaborators,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:    cfg.Auth.BcryptCost,
	}
}

// Login authenticates a collaborator and returns a role-bearing token.
// Draft accounts have not accepted their invitation yet and cannot log
// in; the enabled flag is checked separately from review status.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Collaborator, string, time.Time, error) {
	collaborator, err := s.collaborators.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if collaborator.Status == domain.StatusDraft {
		return nil, "", time.Time{}, apperrors.NewForbidden("invitation not accepted")
	}
	if !collaborator.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("collaborator disabled")
	}
	if err := auth.ComparePassword(collaborator.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(collaborator.ID, collaborator.RoleName)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return collaborator, token, exp, nil
}

// ChangePassword verifies the current password before updating.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.Collaborator, currentPassword, newPassword string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := auth.ComparePassword(actor.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.MapError(err)
	}
	actor.PasswordHash = hash
	return apperrors.MapError(s.collaborators.Update(ctx, actor))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
