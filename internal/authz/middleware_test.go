package authz_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisa-erp/brisa-erp/internal/authz"
	"github.com/brisa-erp/brisa-erp/internal/shared"
)

type stubPrincipals struct {
	principal *authz.Principal
	err       error
}

func (s stubPrincipals) PrincipalBySession(ctx context.Context, userRef string) (*authz.Principal, error) {
	return s.principal, s.err
}

type stubHealth struct {
	status authz.ConnStatus
}

func (s stubHealth) Status() authz.ConnStatus {
	return s.status
}

func newGuard(principal *authz.Principal, status authz.ConnStatus) authz.Middleware {
	return authz.Middleware{
		Evaluator:  authz.NewEvaluator(false),
		Principals: stubPrincipals{principal: principal},
		Health:     stubHealth{status: status},
	}
}

func authenticatedRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	sess := &shared.Session{ID: "sess-1"}
	sess.SetUser("7")
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRedirectsWithReturnTo(t *testing.T) {
	guard := newGuard(nil, authz.StatusConnected)

	req := httptest.NewRequest(http.MethodGet, "/ventas", nil)
	res := httptest.NewRecorder()
	guard.RequireAuth(okHandler()).ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/auth/login?return_to=%2Fventas", res.Header().Get("Location"))
}

func TestRequireAuthAllowsAuthenticated(t *testing.T) {
	principal := &authz.Principal{ID: 7, Role: "user"}
	guard := newGuard(principal, authz.StatusConnected)

	var seen *authz.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authz.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	res := httptest.NewRecorder()
	guard.RequireAuth(next).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/ventas"))

	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, seen)
	assert.Equal(t, int64(7), seen.ID)
}

func TestRequireAuthDisconnectedReturnsRetryableError(t *testing.T) {
	guard := newGuard(&authz.Principal{ID: 7}, authz.StatusDisconnected)

	res := httptest.NewRecorder()
	guard.RequireAuth(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/ventas"))

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.NotEmpty(t, res.Header().Get("Retry-After"))
}

func TestRequirePermission(t *testing.T) {
	principal := &authz.Principal{ID: 7, Role: "user", Permissions: []string{authz.PermSales}}
	guard := newGuard(principal, authz.StatusConnected)

	res := httptest.NewRecorder()
	guard.RequirePermission(authz.PermSales)(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/ventas"))
	assert.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	guard.RequirePermission(authz.PermUsers)(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/usuarios"))
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequirePermissionUnauthenticatedRedirects(t *testing.T) {
	guard := newGuard(nil, authz.StatusConnected)

	req := httptest.NewRequest(http.MethodGet, "/usuarios", nil)
	res := httptest.NewRecorder()
	guard.RequirePermission(authz.PermUsers)(okHandler()).ServeHTTP(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/auth/login?return_to=%2Fusuarios", res.Header().Get("Location"))
}

func TestRequireRouteUsesRouteMap(t *testing.T) {
	principal := &authz.Principal{ID: 7, Role: "user", Permissions: []string{authz.PermSales}}
	guard := newGuard(principal, authz.StatusConnected)

	res := httptest.NewRecorder()
	guard.RequireRoute(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/ventas"))
	assert.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	guard.RequireRoute(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/tesoreria"))
	assert.Equal(t, http.StatusForbidden, res.Code)

	// Unmapped paths only require authentication.
	res = httptest.NewRecorder()
	guard.RequireRoute(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/acerca"))
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	principal := &authz.Principal{ID: 7, Role: "user"}
	guard := newGuard(principal, authz.StatusConnected)

	res := httptest.NewRecorder()
	guard.RedirectIfAuthenticated(okHandler()).ServeHTTP(res, authenticatedRequest(t, http.MethodGet, "/auth/login"))
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))
}

func TestRedirectIfAuthenticatedDisconnectedRendersChildren(t *testing.T) {
	guard := newGuard(nil, authz.StatusDisconnected)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	res := httptest.NewRecorder()
	guard.RedirectIfAuthenticated(okHandler()).ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
}
