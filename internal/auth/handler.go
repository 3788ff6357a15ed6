package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/brisa-erp/brisa-erp/internal/authz"
	"github.com/brisa-erp/brisa-erp/internal/platform/httpx"
	"github.com/brisa-erp/brisa-erp/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	guard          authz.Middleware
	audit          *shared.AuditLogger
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager, guard authz.Middleware, audit *shared.AuditLogger) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		csrfManager:    csrf,
		guard:          guard,
		audit:          audit,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.RedirectIfAuthenticated).Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/session", h.sessionCheck)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type principalResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions"`
}

type sessionResponse struct {
	Status        string             `json:"status"`
	Authenticated bool               `json:"authenticated"`
	Principal     *principalResponse `json:"principal,omitempty"`
	CSRFToken     string             `json:"csrf_token,omitempty"`
}

// showLogin exists for the public-only guard: an authenticated caller is
// redirected home before this handler runs.
func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"csrf_token": csrfToken,
		"return_to":  r.URL.Query().Get(authz.ReturnToParam),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	sess.SetUser(strconv.FormatInt(user.ID, 10))

	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  user.ID,
			Action:   shared.AuditActionLogin,
			Entity:   "session",
			EntityID: sess.ID,
			Meta:     map[string]any{"ip": r.RemoteAddr},
		}); err != nil {
			h.logger.Warn("audit login", slog.Any("error", err))
		}
	}

	principal, err := h.guard.Principals.PrincipalBySession(r.Context(), sess.User())
	if err != nil {
		h.logger.Warn("resolve principal after login", slog.Any("error", err))
		principal = &authz.Principal{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	}
	httpx.JSON(w, http.StatusOK, toPrincipalResponse(principal))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
		h.logger.Warn("remove session", slog.Any("error", err))
	}
	if h.audit != nil {
		actorID, _ := strconv.ParseInt(sess.User(), 10, 64)
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  actorID,
			Action:   shared.AuditActionLogout,
			Entity:   "session",
			EntityID: sess.ID,
		}); err != nil {
			h.logger.Warn("audit logout", slog.Any("error", err))
		}
	}
	h.sessionManager.Destroy(sess)
	httpx.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
}

// sessionCheck is the front-end bootstrap call: it reports connection
// status, authentication, the principal with effective permissions, and the
// CSRF token for subsequent writes.
func (h *Handler) sessionCheck(w http.ResponseWriter, r *http.Request) {
	state := h.guard.State(r)
	sess := shared.SessionFromContext(r.Context())
	csrfToken := ""
	if sess != nil {
		csrfToken, _ = h.csrfManager.EnsureToken(r.Context(), sess)
	}
	resp := sessionResponse{
		Status:        string(state.Status),
		Authenticated: state.Authenticated,
		CSRFToken:     csrfToken,
	}
	if state.Principal != nil {
		pr := toPrincipalResponse(state.Principal)
		resp.Principal = &pr
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func toPrincipalResponse(p *authz.Principal) principalResponse {
	if p == nil {
		return principalResponse{}
	}
	perms := p.Permissions
	if perms == nil {
		perms = []string{}
	}
	return principalResponse{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Role:        p.Role,
		Roles:       p.Roles,
		Permissions: perms,
	}
}
