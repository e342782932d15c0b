package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/partner-portal/internal/domain"
	"github.com/spec-kit/partner-portal/internal/events"
	"github.com/spec-kit/partner-portal/internal/observability"
	"github.com/spec-kit/partner-portal/internal/signup"
	"github.com/spec-kit/partner-portal/internal/tokenstore"
)

type stubGateway struct {
	resp    domain.SignupResponse
	err     error
	entered chan struct{}
	release chan struct{}
}

func (g *stubGateway) Signup(context.Context, domain.SignupRequest) (domain.SignupResponse, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.resp, g.err
}

type memoryAttempts struct {
	mu       sync.Mutex
	attempts []domain.SignupAttempt
	err      error
}

func (r *memoryAttempts) Create(_ context.Context, attempt *domain.SignupAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.attempts = append(r.attempts, *attempt)
	return nil
}

type harness struct {
	signups  *SignupService
	store    *tokenstore.MemoryStore
	attempts *memoryAttempts
	metrics  *observability.Metrics
	registry *signup.Registry
}

func newHarness(gw signup.Gateway) *harness {
	store := tokenstore.NewMemoryStore()
	registry := signup.NewRegistry(func(sessionID string) *signup.Machine {
		return signup.NewMachine(gw, tokenstore.Scoped(store, sessionID))
	})
	dispatcher := events.NewInMemoryDispatcher()
	attempts := &memoryAttempts{}
	metrics := observability.NewMetrics()
	NewAuditService(dispatcher, attempts, metrics, zap.NewNop()).RegisterHandlers()

	return &harness{
		signups:  NewSignupService(registry, dispatcher, zap.NewNop()),
		store:    store,
		attempts: attempts,
		metrics:  metrics,
		registry: registry,
	}
}

func formFields(name, email, password string) []Field {
	return []Field{
		{Name: signup.FieldName, Value: name},
		{Name: signup.FieldEmail, Value: email},
		{Name: signup.FieldPassword, Value: password},
	}
}

func TestSignupServiceSubmit(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHarness(&stubGateway{resp: domain.SignupResponse{Status: 200, Body: []byte(`{"token":"abc123"}`)}})

		effect, err := h.signups.Submit(context.Background(), "sid-1", formFields("Acme", "ops@acme.test", "hunter22"))
		require.NoError(t, err)
		assert.Equal(t, signup.NavigateTo{Route: "/settings"}, effect)

		token, err := h.store.Get(context.Background(), "session:sid-1:partner_jwt")
		require.NoError(t, err)
		assert.Equal(t, "abc123", token)

		_, live := h.registry.Lookup("sid-1")
		assert.False(t, live, "machine is released after navigating away")

		require.Len(t, h.attempts.attempts, 1)
		got := h.attempts.attempts[0]
		assert.Equal(t, domain.SignupOutcomeSucceeded, got.Outcome)
		assert.Equal(t, "ops@acme.test", got.Email)
		assert.Equal(t, "sid-1", got.SessionID)
		assert.Equal(t, 200, got.UpstreamStatus)
		assert.NotEmpty(t, got.ID)
		assert.Equal(t, int64(1), h.metrics.Snapshot().Signups["SUCCEEDED"])
	})

	t.Run("Failure", func(t *testing.T) {
		h := newHarness(&stubGateway{resp: domain.SignupResponse{Status: 400, Body: []byte(`{"error":"Email already in use"}`)}})

		effect, err := h.signups.Submit(context.Background(), "sid-1", formFields("Acme", "ops@acme.test", "hunter22"))
		require.NoError(t, err)
		assert.Equal(t, signup.ShowError{Message: "Email already in use"}, effect)

		form := h.signups.Form("sid-1")
		assert.Equal(t, "Email already in use", form.Error)
		assert.Equal(t, "ops@acme.test", form.Request.Email)
		assert.False(t, form.Loading())

		_, err = h.store.Get(context.Background(), "session:sid-1:partner_jwt")
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)

		require.Len(t, h.attempts.attempts, 1)
		assert.Equal(t, domain.SignupOutcomeFailed, h.attempts.attempts[0].Outcome)
		assert.Equal(t, "Email already in use", h.attempts.attempts[0].Message)
		assert.Equal(t, 400, h.attempts.attempts[0].UpstreamStatus)
	})

	t.Run("UnknownField", func(t *testing.T) {
		h := newHarness(&stubGateway{})

		_, err := h.signups.Submit(context.Background(), "sid-1", []Field{{Name: "company", Value: "Acme"}})
		assert.ErrorIs(t, err, signup.ErrUnknownField)
		assert.Empty(t, h.attempts.attempts)
	})

	t.Run("RejectedWhilePending", func(t *testing.T) {
		gw := &stubGateway{
			resp:    domain.SignupResponse{Status: 400},
			entered: make(chan struct{}),
			release: make(chan struct{}),
		}
		h := newHarness(gw)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = h.signups.Submit(context.Background(), "sid-1", formFields("Acme", "ops@acme.test", "hunter22"))
		}()
		<-gw.entered

		assert.True(t, h.signups.Form("sid-1").Loading())
		_, err := h.signups.Submit(context.Background(), "sid-1", formFields("Acme", "ops@acme.test", "hunter22"))
		assert.ErrorIs(t, err, signup.ErrSubmissionPending)

		gw.release <- struct{}{}
		<-done

		outcomes := []domain.SignupOutcome{}
		for _, a := range h.attempts.attempts {
			outcomes = append(outcomes, a.Outcome)
		}
		assert.Equal(t, []domain.SignupOutcome{domain.SignupOutcomeRejected, domain.SignupOutcomeFailed}, outcomes)
	})

	t.Run("AuditFailureDoesNotChangeOutcome", func(t *testing.T) {
		h := newHarness(&stubGateway{resp: domain.SignupResponse{Status: 200, Body: []byte(`{"token":"abc123"}`)}})
		h.attempts.err = errors.New("insert failed")

		effect, err := h.signups.Submit(context.Background(), "sid-1", formFields("Acme", "ops@acme.test", "hunter22"))
		require.NoError(t, err)
		assert.Equal(t, signup.NavigateTo{Route: "/settings"}, effect)
	})
}

func TestSignupServiceFields(t *testing.T) {
	h := newHarness(&stubGateway{})

	assert.Equal(t, signup.Snapshot{}, h.signups.Form("sid-1"))

	require.NoError(t, h.signups.UpdateFields("sid-1", []Field{{Name: signup.FieldName, Value: "Ac"}}))
	require.NoError(t, h.signups.UpdateFields("sid-1", []Field{{Name: signup.FieldEmail, Value: "ops@acme.test"}}))
	require.NoError(t, h.signups.UpdateFields("sid-1", []Field{{Name: signup.FieldName, Value: "Acme"}}))

	assert.Equal(t, domain.SignupRequest{Name: "Acme", Email: "ops@acme.test"}, h.signups.Form("sid-1").Request)
	assert.ErrorIs(t, h.signups.UpdateFields("sid-1", []Field{{Name: "phone", Value: "1"}}), signup.ErrUnknownField)
}

func TestAuditServiceWithoutRepository(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	NewAuditService(dispatcher, nil, metrics, zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventSignupFailed,
		Payload: events.SignupAttemptPayload{Email: "ops@acme.test"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), metrics.Snapshot().Signups["FAILED"])

	err = dispatcher.Publish(context.Background(), events.Event{Type: events.EventSignupFailed, Payload: "oops"})
	assert.Error(t, err)
}
