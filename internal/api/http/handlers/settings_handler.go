package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/partner-portal/internal/auth"
	"github.com/spec-kit/partner-portal/internal/web"
	apperrors "github.com/spec-kit/partner-portal/pkg/util/errorutil"
)

// SettingsHandler serves the signed-in partner area.
type SettingsHandler struct{}

// NewSettingsHandler constructs handler.
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// Page handles GET /settings. AuthMiddleware must run first.
func (h *SettingsHandler) Page(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	body, err := web.RenderSettings(principal, time.Now())
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.Send(body)
}
