package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openfence/fence-quote-api/internal/apperr"
	"github.com/openfence/fence-quote-api/internal/pricing"
	"github.com/openfence/fence-quote-api/internal/tenant"
	"github.com/openfence/fence-quote-api/pkg/logging"
)

// EstimateHandler computes estimate ranges server side so the widget
// never ships pricing math.
type EstimateHandler struct {
	store  tenant.Store
	logger *logging.Logger
}

// NewEstimateHandler creates an estimate handler.
func NewEstimateHandler(store tenant.Store, logger *logging.Logger) *EstimateHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &EstimateHandler{store: store, logger: logger}
}

type estimateRequest struct {
	Client         string  `json:"client"`
	FenceType      string  `json:"fenceType"`
	LinearFeet     float64 `json:"linearFeet"`
	WalkGatesQty   int     `json:"walkGatesQty"`
	DoubleGatesQty int     `json:"doubleGatesQty"`
	RemoveOldFence bool    `json:"removeOldFence"`
}

// Estimate handles POST /api/estimate.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.BadRequest("Invalid JSON body"))
		return
	}

	cfg, err := h.store.Get(r.Context(), req.Client)
	if errors.Is(err, tenant.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "Config not found"})
		return
	}
	if err != nil {
		h.logger.Error("tenant config lookup failed", "error", err, "client", req.Client)
		writeError(w, apperr.Internal("Internal server error", err.Error()))
		return
	}

	est, err := pricing.EstimateRange(cfg, pricing.Input{
		FenceType:      req.FenceType,
		LinearFeet:     req.LinearFeet,
		WalkGatesQty:   req.WalkGatesQty,
		DoubleGatesQty: req.DoubleGatesQty,
		RemoveOldFence: req.RemoveOldFence,
	})
	if err != nil {
		writeError(w, apperr.BadRequest("Estimate is not available for that fence type and footage."))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"estimatedMin": est.Min,
		"estimatedMax": est.Max,
	})
}
