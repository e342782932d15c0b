package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/partner-portal/internal/auth"
	"github.com/spec-kit/partner-portal/internal/domain"
	"github.com/spec-kit/partner-portal/internal/signup"
)

func TestRenderSignup(t *testing.T) {
	t.Run("Idle", func(t *testing.T) {
		out, err := RenderSignup(signup.Snapshot{})
		require.NoError(t, err)

		html := string(out)
		assert.Contains(t, html, `action="/partner/register"`)
		assert.Contains(t, html, `name="name"`)
		assert.Contains(t, html, `type="email" name="email"`)
		assert.Contains(t, html, `type="password" name="password" autocomplete="new-password"`)
		assert.Contains(t, html, ">Sign Up</button>")
		assert.NotContains(t, html, "disabled")
		assert.NotContains(t, html, `class="error"`)
	})

	t.Run("Pending", func(t *testing.T) {
		out, err := RenderSignup(signup.Snapshot{State: signup.StatePending})
		require.NoError(t, err)

		html := string(out)
		assert.Contains(t, html, " disabled>Signing up...</button>")
	})

	t.Run("ErrorKeepsInput", func(t *testing.T) {
		out, err := RenderSignup(signup.Snapshot{
			Request: domain.SignupRequest{Name: "Acme", Email: "ops@acme.test", Password: "hunter22"},
			Error:   "Email already in use",
		})
		require.NoError(t, err)

		html := string(out)
		assert.Contains(t, html, `value="Acme"`)
		assert.Contains(t, html, `value="ops@acme.test"`)
		assert.Contains(t, html, `value="hunter22"`)
		assert.Contains(t, html, "Email already in use")
	})

	t.Run("EscapesServerMessages", func(t *testing.T) {
		out, err := RenderSignup(signup.Snapshot{Error: "<script>alert(1)</script>"})
		require.NoError(t, err)
		assert.NotContains(t, string(out), "<script>")
	})
}

func TestRenderSettings(t *testing.T) {
	exp := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	out, err := RenderSettings(&auth.Principal{
		Token: "abc",
		Info:  &auth.TokenInfo{Name: "Acme", Email: "ops@acme.test", ExpiresAt: &exp},
	}, exp.Add(time.Hour))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "signed in")
	assert.Contains(t, html, "ops@acme.test")
	assert.Contains(t, html, "not verified")
	assert.Contains(t, html, "(expired)")

	out, err = RenderSettings(&auth.Principal{Token: "opaque"}, exp)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<dl>")
}
