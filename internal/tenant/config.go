// Package tenant provides per-tenant widget configuration: branding,
// map defaults, and the pricing tables the estimate math runs on.
package tenant

import (
	"errors"
	"regexp"
)

// ErrNotFound is returned when no configuration exists for a client.
var ErrNotFound = errors.New("tenant: config not found")

var clientNameRx = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

// ValidClientName reports whether name is a safe tenant identifier.
// Names feed file paths and Redis keys, so the charset is strict.
func ValidClientName(name string) bool {
	return clientNameRx.MatchString(name)
}

// LatLng is a map coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MapsConfig holds the widget's satellite map defaults.
type MapsConfig struct {
	Enabled          bool   `json:"enabled"`
	GoogleMapsAPIKey string `json:"google_maps_api_key"`
	DefaultCenter    LatLng `json:"default_center"`
	DefaultZoom      int    `json:"default_zoom"`
}

// PriceBand is a per-linear-foot price range for one fence type.
type PriceBand struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// AddOns holds flat and per-foot add-on costs.
type AddOns struct {
	WalkGate     float64 `json:"walk_gate"`
	DoubleGate   float64 `json:"double_gate"`
	RemovalPerFt float64 `json:"removal_per_ft"`
}

// Config is one tenant's widget document.
type Config struct {
	Client       string               `json:"client"`
	CompanyName  string               `json:"company_name"`
	PrimaryColor string               `json:"primary_color"`
	LogoURL      string               `json:"logo_url"`
	Disclaimer   string               `json:"disclaimer"`
	WebhookURL   string               `json:"webhook_url,omitempty"`
	Maps         MapsConfig           `json:"maps"`
	PricingPerFt map[string]PriceBand `json:"pricing_per_ft"`
	AddOns       AddOns               `json:"add_ons"`
}

// Public returns a copy safe to serve to browsers: the webhook URL is
// a deployment secret and is stripped.
func (c *Config) Public() *Config {
	out := *c
	out.WebhookURL = ""
	return &out
}

// DefaultConfig returns a representative tenant document with the
// standard price book. The handlers serve stored configs only and 404
// when none exists; this is for seeding and tests.
func DefaultConfig(client string) *Config {
	return &Config{
		Client:       client,
		CompanyName:  "Fence Quote",
		PrimaryColor: "#16a34a",
		Disclaimer:   "Estimate generated automatically. Subject to site inspection.",
		Maps: MapsConfig{
			Enabled:     true,
			DefaultZoom: 18,
		},
		PricingPerFt: map[string]PriceBand{
			"wood":      {Low: 37, High: 44},
			"vinyl":     {Low: 44, High: 53},
			"chainlink": {Low: 26, High: 31},
		},
		AddOns: AddOns{
			WalkGate:     250,
			DoubleGate:   550,
			RemovalPerFt: 5,
		},
	}
}
