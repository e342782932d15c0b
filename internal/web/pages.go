// Package web renders the portal's HTML pages.
package web

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/spec-kit/partner-portal/internal/auth"
	"github.com/spec-kit/partner-portal/internal/domain"
	"github.com/spec-kit/partner-portal/internal/signup"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// Button labels for the signup form.
const (
	SubmitLabel  = "Sign Up"
	PendingLabel = "Signing up..."
)

type signupView struct {
	Action      string
	Form        domain.SignupRequest
	Loading     bool
	Error       string
	ButtonLabel string
}

// RenderSignup renders the signup form for the given state.
func RenderSignup(s signup.Snapshot) ([]byte, error) {
	view := signupView{
		Action:      domain.RouteSignup,
		Form:        s.Request,
		Loading:     s.Loading(),
		Error:       s.Error,
		ButtonLabel: SubmitLabel,
	}
	if view.Loading {
		view.ButtonLabel = PendingLabel
	}
	return execute("signup.html", view)
}

type settingsView struct {
	Info      *auth.TokenInfo
	ExpiresAt string
	Expired   bool
}

// RenderSettings renders the signed-in area.
func RenderSettings(p *auth.Principal, now time.Time) ([]byte, error) {
	view := settingsView{Info: p.Info}
	if p.Info != nil && p.Info.ExpiresAt != nil {
		view.ExpiresAt = p.Info.ExpiresAt.UTC().Format(time.RFC1123)
		view.Expired = p.Info.Expired(now)
	}
	return execute("settings.html", view)
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
