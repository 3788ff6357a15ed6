package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brisa-erp/brisa-erp/internal/authz"
	"github.com/brisa-erp/brisa-erp/internal/platform/httpx"
)

// Handler exposes the probe status and the manual retry action.
type Handler struct {
	prober *Prober
}

// NewHandler builds Handler instance.
func NewHandler(prober *Prober) *Handler {
	return &Handler{prober: prober}
}

// MountRoutes registers health routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.status)
	r.Post("/retry", h.retry)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	status := authz.StatusConnected
	if h.prober != nil {
		status = h.prober.Status()
	}
	code := http.StatusOK
	if status == authz.StatusDisconnected {
		code = http.StatusServiceUnavailable
	}
	httpx.JSON(w, code, map[string]string{"status": string(status)})
}

func (h *Handler) retry(w http.ResponseWriter, r *http.Request) {
	status := authz.StatusConnected
	if h.prober != nil {
		h.prober.Retry()
		status = h.prober.Status()
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": string(status)})
}
