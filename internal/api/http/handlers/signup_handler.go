package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/partner-portal/internal/auth"
	"github.com/spec-kit/partner-portal/internal/service"
	"github.com/spec-kit/partner-portal/internal/signup"
	"github.com/spec-kit/partner-portal/internal/web"
	apperrors "github.com/spec-kit/partner-portal/pkg/util/errorutil"
)

// PendingMessage is shown when a second submit arrives mid-flight.
const PendingMessage = "A signup is already in progress"

// SignupHandler serves the partner signup page.
type SignupHandler struct {
	signups *service.SignupService
}

// NewSignupHandler constructs handler.
func NewSignupHandler(signups *service.SignupService) *SignupHandler {
	return &SignupHandler{signups: signups}
}

// Page handles GET /partner/register.
func (h *SignupHandler) Page(c *fiber.Ctx) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	return renderSignup(c, http.StatusOK, h.signups.Form(sid))
}

// UpdateFields handles POST /partner/register/fields with any subset of the form fields.
func (h *SignupHandler) UpdateFields(c *fiber.Ctx) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}

	var fields []service.Field
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields = append(fields, service.Field{Name: string(key), Value: string(value)})
	})
	if err := h.signups.UpdateFields(sid, fields); err != nil {
		if errors.Is(err, signup.ErrUnknownField) {
			return apperrors.NewValidationError(err.Error(), nil)
		}
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Submit handles POST /partner/register.
func (h *SignupHandler) Submit(c *fiber.Ctx) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}

	fields := make([]service.Field, 0, len(signup.Fields()))
	for _, name := range signup.Fields() {
		fields = append(fields, service.Field{Name: name, Value: c.FormValue(name)})
	}

	effect, err := h.signups.Submit(c.UserContext(), sid, fields)
	if errors.Is(err, signup.ErrSubmissionPending) {
		snap := h.signups.Form(sid)
		snap.Error = PendingMessage
		return renderSignup(c, http.StatusConflict, snap)
	}
	if err != nil {
		return err
	}

	switch e := effect.(type) {
	case signup.NavigateTo:
		return c.Redirect(e.Route, http.StatusSeeOther)
	case signup.ShowError:
		return renderSignup(c, http.StatusOK, h.signups.Form(sid))
	default:
		return apperrors.NewInternalError(nil)
	}
}

func sessionID(c *fiber.Ctx) (string, error) {
	sid, ok := auth.SessionIDFromContext(c)
	if !ok {
		return "", apperrors.NewInternalError(errors.New("session middleware not installed"))
	}
	return sid, nil
}

func renderSignup(c *fiber.Ctx, status int, snap signup.Snapshot) error {
	body, err := web.RenderSignup(snap)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.Status(status).Send(body)
}
