package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/partner-portal/internal/config"
)

const sessionKey = "portal_session_id"

// SessionMiddleware gives every browser a stable random session ID cookie.
type SessionMiddleware struct {
	cookieName string
	secure     bool
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(cfg config.SessionConfig) *SessionMiddleware {
	return &SessionMiddleware{cookieName: cfg.CookieName, secure: cfg.CookieSecure}
}

// Handle reuses a well-formed session cookie or issues a new one.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	sid := c.Cookies(m.cookieName)
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     m.cookieName,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			Secure:   m.secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(sessionKey, sid)
	return c.Next()
}

// SessionIDFromContext returns the caller's session ID.
func SessionIDFromContext(c *fiber.Ctx) (string, bool) {
	sid, ok := c.Locals(sessionKey).(string)
	return sid, ok && sid != ""
}
