package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openfence/fence-quote-api/internal/apperr"
	"github.com/openfence/fence-quote-api/internal/tenant"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

// TenantConfigHandler serves the per-tenant widget document.
type TenantConfigHandler struct {
	store  tenant.Store
	logger *logging.Logger
}

// NewTenantConfigHandler creates a tenant config handler.
func NewTenantConfigHandler(store tenant.Store, logger *logging.Logger) *TenantConfigHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &TenantConfigHandler{store: store, logger: logger}
}

// GetConfig handles GET /config/{client}. The webhook URL never leaves
// the server.
func (h *TenantConfigHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	client := chi.URLParam(r, "client")
	if !tenant.ValidClientName(client) {
		writeError(w, apperr.BadRequest("Config not found"))
		return
	}

	cfg, err := h.store.Get(r.Context(), client)
	if errors.Is(err, tenant.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Config not found"})
		return
	}
	if err != nil {
		h.logger.Error("tenant config lookup failed", "error", err, "client", client)
		writeError(w, apperr.Internal("Internal server error", err.Error()))
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, cfg.Public())
}
