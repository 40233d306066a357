package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/logistics-console/internal/domain"
	"github.com/spec-kit/logistics-console/internal/repository"
	apperrors "github.com/spec-kit/logistics-console/pkg/util"
)

const principalKey = "auth_principal"

// Principal is the authenticated collaborator acting on a request.
// Handlers pass it down explicitly; nothing reads ambient state.
type Principal struct {
	Collaborator *domain.Collaborator
	Role         domain.RoleName
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens        *TokenManager
	collaborators repository.CollaboratorRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, collaborators repository.CollaboratorRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, collaborators: collaborators}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	collaborator, err := m.collaborators.GetByID(c.Context(), claims.CollaboratorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("collaborator not found")
		}
		return apperrors.MapError(err)
	}
	if !collaborator.Active {
		return apperrors.NewForbidden("collaborator disabled")
	}

	c.Locals(principalKey, &Principal{Collaborator: collaborator, Role: collaborator.RoleName})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated collaborator.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
