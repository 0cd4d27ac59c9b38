package tenant

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTenantFile(t *testing.T, dir, client string, cfg *Config) {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, client+".json"), data, 0o644))
}

func TestFileStoreGet(t *testing.T) {
	dir := t.TempDir()
	writeTenantFile(t, dir, "greenlawn", &Config{
		Client:      "greenlawn",
		CompanyName: "GreenLawn Fencing",
		WebhookURL:  "https://hooks.example.com/leads",
		PricingPerFt: map[string]PriceBand{
			"vinyl": {Low: 44, High: 53},
		},
	})

	store := NewFileStore(dir)
	cfg, err := store.Get(context.Background(), "greenlawn")
	require.NoError(t, err)
	assert.Equal(t, "GreenLawn Fencing", cfg.CompanyName)
	assert.Equal(t, PriceBand{Low: 44, High: 53}, cfg.PricingPerFt["vinyl"])
}

func TestFileStoreFillsClientSlug(t *testing.T) {
	dir := t.TempDir()
	writeTenantFile(t, dir, "acme", &Config{CompanyName: "Acme"})

	cfg, err := NewFileStore(dir).Get(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Client, "slug should be filled from the lookup key")
}

func TestFileStoreMissingTenant(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreRejectsUnsafeNames(t *testing.T) {
	store := NewFileStore(t.TempDir())
	for _, name := range []string{"../etc/passwd", "UPPER", "a b", "", "dot.dot"} {
		_, err := store.Get(context.Background(), name)
		assert.ErrorIs(t, err, ErrNotFound, "name %q", name)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "greenlawn")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, &Config{Client: "greenlawn", CompanyName: "GreenLawn Fencing"}))

	cfg, err := store.Get(ctx, "greenlawn")
	require.NoError(t, err)
	assert.Equal(t, "GreenLawn Fencing", cfg.CompanyName)
}

func TestPublicStripsWebhookURL(t *testing.T) {
	cfg := &Config{Client: "greenlawn", WebhookURL: "https://hooks.example.com/leads"}
	pub := cfg.Public()
	assert.Empty(t, pub.WebhookURL, "webhook URL must not be served to browsers")
	assert.NotEmpty(t, cfg.WebhookURL, "Public must not mutate the original")

	data, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "webhook_url")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("acme")
	assert.Equal(t, "acme", cfg.Client)
	assert.Equal(t, PriceBand{Low: 37, High: 44}, cfg.PricingPerFt["wood"])
	assert.Equal(t, 250.0, cfg.AddOns.WalkGate)
}
