package authz

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/brisa-erp/brisa-erp/internal/platform/httpx"
)

// Handler exposes the navigation tree and the permission catalog.
type Handler struct {
	logger    *slog.Logger
	evaluator *Evaluator
	guard     Middleware
	tree      []Group
	collator  *collate.Collator
}

// NewHandler builds a Handler serving the given navigation tree.
func NewHandler(logger *slog.Logger, evaluator *Evaluator, guard Middleware, tree []Group) *Handler {
	return &Handler{
		logger:    logger,
		evaluator: evaluator,
		guard:     guard,
		tree:      tree,
		collator:  collate.New(language.Spanish),
	}
}

// MountRoutes registers navigation and catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuth)
		r.Get("/navigation", h.getNavigation)
		r.Get("/permissions", h.listPermissions)
		r.Get("/route-access", h.routeAccess)
	})
}

type navigationEntry struct {
	Title      string `json:"title"`
	Path       string `json:"path"`
	Icon       string `json:"icon"`
	IconClass  string `json:"icon_class"`
	Permission string `json:"permission,omitempty"`
}

type navigationSubgroup struct {
	Label     string            `json:"label"`
	Icon      string            `json:"icon"`
	IconClass string            `json:"icon_class"`
	Entries   []navigationEntry `json:"entries"`
}

type navigationGroup struct {
	Label     string               `json:"label"`
	Entries   []navigationEntry    `json:"entries,omitempty"`
	Subgroups []navigationSubgroup `json:"subgroups,omitempty"`
}

func (h *Handler) getNavigation(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	filtered := h.evaluator.FilterTree(h.tree, principal)
	groups := make([]navigationGroup, 0, len(filtered))
	for _, g := range filtered {
		out := navigationGroup{Label: g.Label}
		for _, entry := range g.Entries {
			out.Entries = append(out.Entries, toNavigationEntry(entry))
		}
		for _, sub := range g.Subgroups {
			outSub := navigationSubgroup{Label: sub.Label, Icon: string(sub.Icon), IconClass: sub.Icon.Class()}
			for _, entry := range sub.Entries {
				outSub.Entries = append(outSub.Entries, toNavigationEntry(entry))
			}
			out.Subgroups = append(out.Subgroups, outSub)
		}
		groups = append(groups, out)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"groups": groups})
}

type permissionInfo struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Default bool   `json:"default"`
	Granted bool   `json:"granted"`
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	perms := make([]permissionInfo, 0, len(AllPermissions()))
	for _, id := range AllPermissions() {
		label, _ := Label(id)
		perms = append(perms, permissionInfo{
			ID:      id,
			Label:   label,
			Default: isDefaultPermission(id),
			Granted: h.evaluator.HasPermission(principal, id),
		})
	}
	sort.SliceStable(perms, func(i, j int) bool {
		return h.collator.CompareString(perms[i].Label, perms[j].Label) < 0
	})
	httpx.JSON(w, http.StatusOK, map[string]any{"permissions": perms})
}

func (h *Handler) routeAccess(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "path query parameter required")
		return
	}
	principal := PrincipalFromContext(r.Context())
	perm, guarded := RequiredPermission(path)
	granted := true
	if guarded {
		granted = h.evaluator.HasPermission(principal, perm)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"path":       path,
		"permission": perm,
		"granted":    granted,
	})
}

func toNavigationEntry(entry Entry) navigationEntry {
	return navigationEntry{
		Title:      entry.Title,
		Path:       entry.Path,
		Icon:       string(entry.Icon),
		IconClass:  entry.Icon.Class(),
		Permission: entry.Permission,
	}
}
