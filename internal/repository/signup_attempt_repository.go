package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/partner-portal/internal/domain"
)

// SignupAttemptRepository records signup submissions for auditing.
type SignupAttemptRepository interface {
	Create(ctx context.Context, attempt *domain.SignupAttempt) error
}

type signupAttemptRepository struct {
	pool *pgxpool.Pool
}

// NewSignupAttemptRepository returns a Postgres-backed implementation.
func NewSignupAttemptRepository(pool *pgxpool.Pool) SignupAttemptRepository {
	return &signupAttemptRepository{pool: pool}
}

func (r *signupAttemptRepository) Create(ctx context.Context, attempt *domain.SignupAttempt) error {
	const query = `
        INSERT INTO signup_attempts (id, session_id, email, outcome, message, upstream_status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		attempt.ID,
		attempt.SessionID,
		attempt.Email,
		attempt.Outcome,
		attempt.Message,
		attempt.UpstreamStatus,
	).Scan(&attempt.CreatedAt)
}
