package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/brisa-erp/brisa-erp/internal/authz"
	"github.com/brisa-erp/brisa-erp/internal/shared"
)

type fakeRepo struct {
	user     *User
	sessions map[string]int64
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if f.sessions == nil {
		f.sessions = make(map[string]int64)
	}
	f.sessions[id] = userID
	return nil
}

func (f *fakeRepo) DeleteSession(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakePrincipals struct {
	principal *authz.Principal
}

func (f fakePrincipals) PrincipalBySession(ctx context.Context, userRef string) (*authz.Principal, error) {
	return f.principal, nil
}

type fakeHealth struct{}

func (fakeHealth) Status() authz.ConnStatus { return authz.StatusConnected }

func testUser(t *testing.T) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &User{
		ID:           7,
		Email:        "marta@brisa.mx",
		Name:         "Marta",
		Role:         "ventas",
		PasswordHash: string(hash),
		IsActive:     true,
	}
}

func newTestHandler(t *testing.T, repo *fakeRepo, principal *authz.Principal) *Handler {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := shared.NewSessionManager(client, "brisa_session", "session-secret", time.Hour, false)
	csrf := shared.NewCSRFManager("csrf-secret")
	guard := authz.Middleware{
		Evaluator:  authz.NewEvaluator(false),
		Principals: fakePrincipals{principal: principal},
		Health:     fakeHealth{},
		Logger:     logger,
	}
	return NewHandler(logger, NewService(repo), sessions, csrf, guard, nil)
}

func requestWithSession(method, target, body string, sess *shared.Session) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestHandleLoginSuccess(t *testing.T) {
	repo := &fakeRepo{user: testUser(t)}
	principal := &authz.Principal{ID: 7, Name: "Marta", Email: "marta@brisa.mx", Role: "ventas", Permissions: []string{authz.PermSales}}
	h := newTestHandler(t, repo, principal)

	sess := &shared.Session{ID: "sess-1"}
	req := requestWithSession(http.MethodPost, "/auth/login", `{"email":"marta@brisa.mx","password":"correcthorse"}`, sess)
	res := httptest.NewRecorder()
	h.handleLogin(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "7", sess.User())
	assert.Equal(t, int64(7), repo.sessions["sess-1"])

	var got struct {
		ID          int64    `json:"id"`
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "ventas", got.Role)
	assert.Contains(t, got.Permissions, authz.PermSales)
}

func TestHandleLoginInvalidCredentials(t *testing.T) {
	repo := &fakeRepo{user: testUser(t)}
	h := newTestHandler(t, repo, nil)

	sess := &shared.Session{ID: "sess-1"}
	req := requestWithSession(http.MethodPost, "/auth/login", `{"email":"marta@brisa.mx","password":"wrongpassword"}`, sess)
	res := httptest.NewRecorder()
	h.handleLogin(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Empty(t, sess.User())
}

func TestHandleLoginInactiveUser(t *testing.T) {
	user := testUser(t)
	user.IsActive = false
	h := newTestHandler(t, &fakeRepo{user: user}, nil)

	sess := &shared.Session{ID: "sess-1"}
	req := requestWithSession(http.MethodPost, "/auth/login", `{"email":"marta@brisa.mx","password":"correcthorse"}`, sess)
	res := httptest.NewRecorder()
	h.handleLogin(res, req)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestHandleLoginValidation(t *testing.T) {
	h := newTestHandler(t, &fakeRepo{}, nil)

	sess := &shared.Session{ID: "sess-1"}
	req := requestWithSession(http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"short"}`, sess)
	res := httptest.NewRecorder()
	h.handleLogin(res, req)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestHandleLogout(t *testing.T) {
	repo := &fakeRepo{sessions: map[string]int64{"sess-1": 7}}
	h := newTestHandler(t, repo, nil)

	sess := &shared.Session{ID: "sess-1"}
	sess.SetUser("7")
	req := requestWithSession(http.MethodPost, "/auth/logout", "", sess)
	res := httptest.NewRecorder()
	h.handleLogout(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, repo.sessions, "sess-1")
}

func TestSessionCheckAuthenticated(t *testing.T) {
	principal := &authz.Principal{ID: 7, Name: "Marta", Role: "ventas", Permissions: []string{authz.PermSales}}
	h := newTestHandler(t, &fakeRepo{}, principal)

	sess := &shared.Session{ID: "sess-1"}
	sess.SetUser("7")
	req := requestWithSession(http.MethodGet, "/auth/session", "", sess)
	res := httptest.NewRecorder()
	h.sessionCheck(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var got sessionResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	assert.Equal(t, string(authz.StatusConnected), got.Status)
	assert.True(t, got.Authenticated)
	require.NotNil(t, got.Principal)
	assert.Equal(t, int64(7), got.Principal.ID)
	assert.NotEmpty(t, got.CSRFToken)
}

func TestSessionCheckAnonymous(t *testing.T) {
	h := newTestHandler(t, &fakeRepo{}, nil)

	sess := &shared.Session{ID: "sess-1"}
	req := requestWithSession(http.MethodGet, "/auth/session", "", sess)
	res := httptest.NewRecorder()
	h.sessionCheck(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var got sessionResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &got))
	assert.False(t, got.Authenticated)
	assert.Nil(t, got.Principal)
}
