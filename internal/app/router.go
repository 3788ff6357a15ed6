package app

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/brisa-erp/brisa-erp/internal/auth"
	"github.com/brisa-erp/brisa-erp/internal/authz"
	"github.com/brisa-erp/brisa-erp/internal/health"
	"github.com/brisa-erp/brisa-erp/internal/observability"
	"github.com/brisa-erp/brisa-erp/internal/rbac"
	"github.com/brisa-erp/brisa-erp/internal/shared"
	"github.com/brisa-erp/brisa-erp/internal/users"
	"github.com/brisa-erp/brisa-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Guard          authz.Middleware
	AuthHandler    *auth.Handler
	AuthzHandler   *authz.Handler
	RolesHandler   *rbac.Handler
	UsersHandler   *users.Handler
	HealthHandler  *health.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Brisa defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	if params.HealthHandler != nil {
		r.Route("/healthz", params.HealthHandler.MountRoutes)
	}

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/api", func(r chi.Router) {
		params.AuthzHandler.MountRoutes(r)
		r.Route("/admin/roles", params.RolesHandler.MountRoutes)
		r.Route("/admin/permissions", params.RolesHandler.MountPermissionRoutes)
		r.Route("/admin/users", params.UsersHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(params.Guard.RequirePermission(authz.PermUsers))
			params.JobHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
