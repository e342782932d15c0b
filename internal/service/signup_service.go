package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/partner-portal/internal/events"
	"github.com/spec-kit/partner-portal/internal/signup"
)

// SignupService drives the per-session signup machines and announces outcomes.
type SignupService struct {
	registry   *signup.Registry
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewSignupService builds the service.
func NewSignupService(registry *signup.Registry, dispatcher events.Dispatcher, logger *zap.Logger) *SignupService {
	return &SignupService{
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Form returns the session's current form and flags.
func (s *SignupService) Form(sessionID string) signup.Snapshot {
	if m, ok := s.registry.Lookup(sessionID); ok {
		return m.Snapshot()
	}
	return signup.Snapshot{}
}

// UpdateFields applies field edits in the given order.
func (s *SignupService) UpdateFields(sessionID string, fields []Field) error {
	m := s.registry.Get(sessionID)
	for _, f := range fields {
		if err := m.SetField(f.Name, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// Submit applies the submitted fields and runs one submission. The error is
// non-nil only for signup.ErrSubmissionPending or an unknown field.
func (s *SignupService) Submit(ctx context.Context, sessionID string, fields []Field) (signup.Effect, error) {
	m := s.registry.Get(sessionID)
	for _, f := range fields {
		if err := m.SetField(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	email := m.Request().Email

	effect, err := m.Submit(ctx)
	if errors.Is(err, signup.ErrSubmissionPending) {
		s.publish(ctx, events.EventSignupRejected, sessionID, events.SignupAttemptPayload{
			Email:   email,
			Message: err.Error(),
		})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	status := m.Snapshot().UpstreamStatus
	switch e := effect.(type) {
	case signup.NavigateTo:
		s.registry.Release(sessionID)
		s.publish(ctx, events.EventSignupSucceeded, sessionID, events.SignupAttemptPayload{
			Email:          email,
			UpstreamStatus: status,
		})
	case signup.ShowError:
		s.publish(ctx, events.EventSignupFailed, sessionID, events.SignupAttemptPayload{
			Email:          email,
			Message:        e.Message,
			UpstreamStatus: status,
		})
	}
	return effect, nil
}

func (s *SignupService) publish(ctx context.Context, eventType events.EventType, sessionID string, payload events.SignupAttemptPayload) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("signup event handlers failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// Field is one named form value.
type Field struct {
	Name  string
	Value string
}
