package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/partner-portal/internal/domain"
	"github.com/spec-kit/partner-portal/internal/events"
	"github.com/spec-kit/partner-portal/internal/observability"
	"github.com/spec-kit/partner-portal/internal/repository"
)

// AuditService records signup events in logs, metrics and, when configured, Postgres.
type AuditService struct {
	dispatcher events.Dispatcher
	attempts   repository.SignupAttemptRepository
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewAuditService creates the service. attempts may be nil.
func NewAuditService(dispatcher events.Dispatcher, attempts repository.SignupAttemptRepository, metrics *observability.Metrics, logger *zap.Logger) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		attempts:   attempts,
		metrics:    metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to signup events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSignupSucceeded, a.handle(domain.SignupOutcomeSucceeded))
	a.dispatcher.Subscribe(events.EventSignupFailed, a.handle(domain.SignupOutcomeFailed))
	a.dispatcher.Subscribe(events.EventSignupRejected, a.handle(domain.SignupOutcomeRejected))
}

func (a *AuditService) handle(outcome domain.SignupOutcome) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.SignupAttemptPayload)
		if !ok {
			return fmt.Errorf("audit: unexpected payload %T for %s", event.Payload, event.Type)
		}

		a.metrics.RecordSignup(string(outcome))
		a.logger.Info("signup attempt",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.SessionID),
			zap.String("outcome", string(outcome)),
			zap.String("email", payload.Email),
			zap.Int("upstream_status", payload.UpstreamStatus),
			zap.String("message", payload.Message),
		)

		if a.attempts == nil {
			return nil
		}
		attempt := &domain.SignupAttempt{
			ID:             event.ID,
			SessionID:      event.SessionID,
			Email:          payload.Email,
			Outcome:        outcome,
			Message:        payload.Message,
			UpstreamStatus: payload.UpstreamStatus,
		}
		if err := a.attempts.Create(ctx, attempt); err != nil {
			return fmt.Errorf("audit: record signup attempt: %w", err)
		}
		return nil
	}
}
