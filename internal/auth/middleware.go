package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/partner-portal/internal/domain"
	"github.com/spec-kit/partner-portal/internal/tokenstore"
	apperrors "github.com/spec-kit/partner-portal/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the signed-in partner.
type Principal struct {
	SessionID string
	Token     string
	Info      *TokenInfo
}

// AuthMiddleware admits sessions that hold a partner token.
type AuthMiddleware struct {
	tokens    tokenstore.Store
	inspector *TokenInspector
	logger    *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens tokenstore.Store, inspector *TokenInspector, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, inspector: inspector, logger: logger}
}

// Handle redirects to the signup page unless the session has a non-empty token.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	sid, ok := SessionIDFromContext(c)
	if !ok {
		return c.Redirect(domain.RouteSignup, fiber.StatusSeeOther)
	}

	token, err := tokenstore.Scoped(m.tokens, sid).Get(c.UserContext(), domain.TokenStorageKey)
	if errors.Is(err, tokenstore.ErrNotFound) || (err == nil && token == "") {
		return c.Redirect(domain.RouteSignup, fiber.StatusSeeOther)
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	principal := &Principal{SessionID: sid, Token: token}
	info, err := m.inspector.Inspect(token)
	if err != nil {
		// Tokens are opaque to the portal; an unparseable one still signs the partner in.
		m.logger.Debug("partner token is not an inspectable JWT", zap.Error(err))
	} else {
		principal.Info = info
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the signed-in partner.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
