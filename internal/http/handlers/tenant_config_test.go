package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/openfence/fence-quote-api/internal/tenant"
)

type staticTenants struct {
	configs map[string]*tenant.Config
}

func (s *staticTenants) Get(_ context.Context, client string) (*tenant.Config, error) {
	cfg, ok := s.configs[client]
	if !ok {
		return nil, tenant.ErrNotFound
	}
	return cfg, nil
}

func newConfigRouter(store tenant.Store) http.Handler {
	r := chi.NewRouter()
	r.Get("/config/{client}", NewTenantConfigHandler(store, nil).GetConfig)
	return r
}

func TestGetConfigServesPublicDocument(t *testing.T) {
	r := newConfigRouter(&staticTenants{configs: map[string]*tenant.Config{
		"greenlawn": {
			Client:      "greenlawn",
			CompanyName: "GreenLawn Fencing",
			WebhookURL:  "https://hooks.example.com/leads",
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/config/greenlawn", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if strings.Contains(w.Body.String(), "webhook_url") {
		t.Error("response leaks webhook_url")
	}

	var cfg tenant.Config
	if err := json.NewDecoder(w.Body).Decode(&cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.CompanyName != "GreenLawn Fencing" {
		t.Errorf("CompanyName = %q", cfg.CompanyName)
	}
}

func TestGetConfigUnknownTenant(t *testing.T) {
	r := newConfigRouter(&staticTenants{})

	req := httptest.NewRequest(http.MethodGet, "/config/nobody", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if payload := decodeEnvelope(t, w); payload["error"] != "Config not found" {
		t.Errorf("error = %q", payload["error"])
	}
}

func TestGetConfigRejectsUnsafeClientName(t *testing.T) {
	r := newConfigRouter(&staticTenants{})

	req := httptest.NewRequest(http.MethodGet, "/config/Not%20Valid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
