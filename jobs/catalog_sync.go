package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/brisa-erp/brisa-erp/internal/rbac"
)

// CatalogSyncJob keeps the permissions table aligned with the closed
// catalog, so new identifiers show up in administration without a manual
// migration.
type CatalogSyncJob struct {
	RBAC   *rbac.Service
	Logger *slog.Logger
}

// NewCatalogSyncJob wires dependencies for the catalog sync handler.
func NewCatalogSyncJob(rbacService *rbac.Service, logger *slog.Logger) *CatalogSyncJob {
	return &CatalogSyncJob{RBAC: rbacService, Logger: logger}
}

// Handle processes TaskCatalogSync tasks.
func (j *CatalogSyncJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.RBAC == nil {
		return errors.New("catalog sync: handler not configured")
	}
	if err := j.RBAC.SyncCatalog(ctx); err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("permission catalog synced")
	}
	return nil
}

// AccessInvalidateJob drops cached access profiles after bulk role changes.
type AccessInvalidateJob struct {
	RBAC   *rbac.Service
	Logger *slog.Logger
}

// NewAccessInvalidateJob wires dependencies for the invalidation handler.
func NewAccessInvalidateJob(rbacService *rbac.Service, logger *slog.Logger) *AccessInvalidateJob {
	return &AccessInvalidateJob{RBAC: rbacService, Logger: logger}
}

// Handle processes TaskAccessInvalidate tasks.
func (j *AccessInvalidateJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.RBAC == nil {
		return errors.New("access invalidate: handler not configured")
	}
	if err := j.RBAC.InvalidateAccess(ctx); err != nil {
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("access cache invalidated")
	}
	return nil
}
