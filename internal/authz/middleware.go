package authz

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/brisa-erp/brisa-erp/internal/platform/httpx"
	"github.com/brisa-erp/brisa-erp/internal/shared"
)

// LoginPath is where unauthenticated actors are sent.
const LoginPath = "/auth/login"

// ReturnToParam carries the originally requested location through the login
// redirect.
const ReturnToParam = "return_to"

// PrincipalSource resolves the session's user reference into a Principal
// with effective permissions attached.
type PrincipalSource interface {
	PrincipalBySession(ctx context.Context, userRef string) (*Principal, error)
}

// StatusSource reports backend reachability.
type StatusSource interface {
	Status() ConnStatus
}

// DecisionRecorder receives guard outcomes for metrics.
type DecisionRecorder interface {
	ObserveGuardDecision(guard, decision string)
}

// AuditSink persists access denials for later review.
type AuditSink interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Middleware turns guard decisions into HTTP behaviour.
type Middleware struct {
	Evaluator  *Evaluator
	Principals PrincipalSource
	Health     StatusSource
	Logger     *slog.Logger
	Recorder   DecisionRecorder
	Audit      AuditSink
}

// State assembles the per-request session snapshot. Resolution failures are
// treated as a loading state still in flight rather than a denial.
func (m Middleware) State(r *http.Request) SessionState {
	state := SessionState{Status: StatusConnected}
	if m.Health != nil {
		state.Status = m.Health.Status()
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return state
	}
	if m.Principals == nil {
		return state
	}
	principal, err := m.Principals.PrincipalBySession(r.Context(), sess.User())
	if err != nil {
		if m.Logger != nil {
			m.Logger.Warn("resolve principal", slog.String("user", sess.User()), slog.Any("error", err))
		}
		state.Loading = true
		return state
	}
	if principal != nil {
		state.Authenticated = true
		state.Principal = principal
	}
	return state
}

// RequireAuth protects a private subtree.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := m.State(r)
		decision := RequireAuth(state)
		m.record("require_auth", decision)
		switch decision {
		case DecisionChildren:
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), state.Principal)))
		case DecisionLoading:
			w.Header().Set("Retry-After", "1")
			httpx.Problem(w, http.StatusServiceUnavailable, "Session Check In Progress", "retry shortly")
		case DecisionFallback:
			w.Header().Set("Retry-After", "5")
			httpx.Problem(w, http.StatusServiceUnavailable, "Backend Unreachable", "retry when the connection recovers")
		default:
			redirectToLogin(w, r)
		}
	})
}

// RedirectIfAuthenticated protects public-only routes such as the login
// form.
func (m Middleware) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := m.State(r)
		decision := RedirectIfAuthenticated(state)
		m.record("redirect_if_authenticated", decision)
		switch decision {
		case DecisionRedirectHome:
			http.Redirect(w, r, "/", http.StatusSeeOther)
		case DecisionLoading:
			w.Header().Set("Retry-After", "1")
			httpx.Problem(w, http.StatusServiceUnavailable, "Session Check In Progress", "retry shortly")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequirePermission gates a subtree on a single permission. It composes with
// RequireAuth: an unauthenticated actor is redirected, an authenticated one
// without the permission gets 403.
func (m Middleware) RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := m.State(r)
			if d := RequireAuth(state); d != DecisionChildren {
				m.RequireAuth(next).ServeHTTP(w, r)
				return
			}
			decision := m.Evaluator.Gate(state, perm)
			m.record("permission_gate", decision)
			if decision != DecisionChildren {
				m.auditDenied(r, state.Principal, perm)
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), state.Principal)))
		})
	}
}

// RequireRoute gates a subtree using the route-permission table keyed by the
// request path. Unmapped paths only require authentication.
func (m Middleware) RequireRoute(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		perm, ok := RequiredPermission(r.URL.Path)
		if !ok {
			m.RequireAuth(next).ServeHTTP(w, r)
			return
		}
		m.RequirePermission(perm)(next).ServeHTTP(w, r)
	})
}

func (m Middleware) auditDenied(r *http.Request, principal *Principal, perm string) {
	if m.Audit == nil || principal == nil {
		return
	}
	err := m.Audit.Record(r.Context(), shared.AuditLog{
		ActorID:  principal.ID,
		Action:   shared.AuditActionDenied,
		Entity:   "route",
		EntityID: r.URL.Path,
		Meta:     map[string]any{"permission": perm},
	})
	if err != nil && m.Logger != nil {
		m.Logger.Warn("audit denial", slog.Any("error", err))
	}
}

func (m Middleware) record(guard string, decision Decision) {
	if m.Recorder != nil {
		m.Recorder.ObserveGuardDecision(guard, decision.String())
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	dest := LoginPath + "?" + ReturnToParam + "=" + url.QueryEscape(target)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
