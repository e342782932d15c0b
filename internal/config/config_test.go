package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "partner-portal", cfg.App.Name)
		assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
		assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
		assert.Equal(t, "http://127.0.0.1:8081/partner/signup", cfg.Upstream.SignupURL())
		assert.Zero(t, cfg.Upstream.Timeout())
		assert.False(t, cfg.Signup.RequireToken)
		assert.Equal(t, TokenBackendRedis, cfg.Tokens.Backend)
		assert.Zero(t, cfg.Tokens.TTL())
		assert.Equal(t, "portal_sid", cfg.Session.CookieName)
		assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL())
		assert.Equal(t, time.Minute, cfg.Session.SweepInterval())
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("UPSTREAM_BASE_URL", "https://signup.example.com/")
		t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "5")
		t.Setenv("SIGNUP_REQUIRE_TOKEN", "true")
		t.Setenv("TOKEN_STORE", "Memory")
		t.Setenv("TOKEN_TTL_MINUTES", "90")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "https://signup.example.com/partner/signup", cfg.Upstream.SignupURL())
		assert.Equal(t, 5*time.Second, cfg.Upstream.Timeout())
		assert.True(t, cfg.Signup.RequireToken)
		assert.Equal(t, TokenBackendMemory, cfg.Tokens.Backend)
		assert.Equal(t, 90*time.Minute, cfg.Tokens.TTL())
	})

	t.Run("InvalidTokenStore", func(t *testing.T) {
		t.Setenv("TOKEN_STORE", "localstorage")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("InvalidRedisDB", func(t *testing.T) {
		t.Setenv("REDIS_DB", "zero")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("MalformedNumbersFallBack", func(t *testing.T) {
		t.Setenv("SESSION_IDLE_TTL_MINUTES", "soon")
		t.Setenv("SESSION_COOKIE_SECURE", "maybe")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL())
		assert.False(t, cfg.Session.CookieSecure)
	})
}
