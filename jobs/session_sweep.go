package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionSweepJob deletes expired session rows so the sessions table does
// not grow without bound. The Redis copies expire on their own TTL.
type SessionSweepJob struct {
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// NewSessionSweepJob wires dependencies for the sweep handler.
func NewSessionSweepJob(pool *pgxpool.Pool, logger *slog.Logger) *SessionSweepJob {
	return &SessionSweepJob{Pool: pool, Logger: logger}
}

// Handle processes TaskSessionSweep tasks.
func (j *SessionSweepJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Pool == nil {
		return errors.New("session sweep: handler not configured")
	}
	payload := SessionSweepPayload{Limit: 1000}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Limit <= 0 {
		payload.Limit = 1000
	}

	tag, err := j.Pool.Exec(ctx, `DELETE FROM sessions WHERE id IN (
		SELECT id FROM sessions WHERE expires_at < NOW() LIMIT $1)`, payload.Limit)
	if err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("session sweep completed", slog.Int64("deleted", tag.RowsAffected()))
	}
	return nil
}
