package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionSweep purges expired session rows from postgres.
	TaskSessionSweep = "sessions:sweep"
	// TaskCatalogSync upserts the permission catalog into postgres.
	TaskCatalogSync = "authz:catalog_sync"
	// TaskAccessInvalidate drops every cached access profile.
	TaskAccessInvalidate = "authz:access_invalidate"
)

// SessionSweepPayload bounds one sweep run.
type SessionSweepPayload struct {
	Limit int `json:"limit"`
}

// NewSessionSweepTask constructs an Asynq task.
func NewSessionSweepTask(payload SessionSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionSweep, data), nil
}

// NewCatalogSyncTask constructs an Asynq task.
func NewCatalogSyncTask() *asynq.Task {
	return asynq.NewTask(TaskCatalogSync, nil)
}

// NewAccessInvalidateTask constructs an Asynq task.
func NewAccessInvalidateTask() *asynq.Task {
	return asynq.NewTask(TaskAccessInvalidate, nil)
}
