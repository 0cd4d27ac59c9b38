package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openfence/fence-quote-api/internal/tenant"
)

func newEstimateHandler() *EstimateHandler {
	return NewEstimateHandler(&staticTenants{configs: map[string]*tenant.Config{
		"greenlawn": tenant.DefaultConfig("greenlawn"),
	}}, nil)
}

func postEstimate(h *EstimateHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Estimate(w, req)
	return w
}

func TestEstimateComputesRange(t *testing.T) {
	w := postEstimate(newEstimateHandler(), `{
		"client": "greenlawn",
		"fenceType": "wood",
		"linearFeet": 100,
		"walkGatesQty": 0,
		"doubleGatesQty": 0
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	payload := decodeEnvelope(t, w)
	if payload["estimatedMin"] != float64(3700) || payload["estimatedMax"] != float64(4400) {
		t.Errorf("estimate = %v - %v, want 3700 - 4400", payload["estimatedMin"], payload["estimatedMax"])
	}
}

func TestEstimateIncludesAddOns(t *testing.T) {
	w := postEstimate(newEstimateHandler(), `{
		"client": "greenlawn",
		"fenceType": "wood",
		"linearFeet": 100,
		"walkGatesQty": 1,
		"removeOldFence": true
	}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	// 100ft wood (37/44) + $250 walk gate + 100ft removal at $5.
	payload := decodeEnvelope(t, w)
	if payload["estimatedMin"] != float64(4450) || payload["estimatedMax"] != float64(5150) {
		t.Errorf("estimate = %v - %v, want 4450 - 5150", payload["estimatedMin"], payload["estimatedMax"])
	}
}

func TestEstimateUnknownTenant(t *testing.T) {
	w := postEstimate(newEstimateHandler(), `{"client":"nobody","fenceType":"wood","linearFeet":100}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestEstimateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", "{", http.StatusBadRequest},
		{"zero footage", `{"client":"greenlawn","fenceType":"wood","linearFeet":0}`, http.StatusBadRequest},
		{"unknown fence type", `{"client":"greenlawn","fenceType":"bamboo","linearFeet":100}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := postEstimate(newEstimateHandler(), tt.body); w.Code != tt.code {
				t.Fatalf("status = %d, want %d", w.Code, tt.code)
			}
		})
	}
}
