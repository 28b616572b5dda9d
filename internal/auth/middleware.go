package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-api/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-api/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller: the identity resolved from
// the bearer token plus the application account backing it.
type Principal struct {
	Identity *Identity
	Account  *domain.User
}

// AccountResolver performs the lazy get-or-create upsert for an identity.
type AccountResolver interface {
	GetOrCreate(ctx context.Context, identity *Identity) (*domain.User, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	verifier *TokenVerifier
	accounts AccountResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier *TokenVerifier, accounts AccountResolver) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, accounts: accounts}
}

// Handle enforces authentication for protected routes. The account row is
// created on the first authenticated request for a new identity.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.verifier.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	account, err := m.accounts.GetOrCreate(c.UserContext(), identity)
	if err != nil {
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Identity: identity, Account: account})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
