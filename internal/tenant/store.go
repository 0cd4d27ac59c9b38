package tenant

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
)

// Store retrieves tenant configuration documents.
type Store interface {
	Get(ctx context.Context, client string) (*Config, error)
}

// FileStore reads tenant documents from a directory of <client>.json
// files, the layout the static widget deployment uses.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed tenant store.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, client string) (*Config, error) {
	if !ValidClientName(client) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, client+".json"))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tenant: unmarshal config: %w", err)
	}
	if cfg.Client == "" {
		cfg.Client = client
	}
	return &cfg, nil
}

// RedisStore keeps tenant documents in Redis, for deployments where
// configs are edited without a redeploy.
type RedisStore struct {
	redis *redis.Client
}

// NewRedisStore creates a Redis-backed tenant store.
func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{redis: redisClient}
}

func (s *RedisStore) key(client string) string {
	return fmt.Sprintf("tenant:config:%s", client)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, client string) (*Config, error) {
	if !ValidClientName(client) {
		return nil, ErrNotFound
	}

	data, err := s.redis.Get(ctx, s.key(client)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: get config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tenant: unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Set saves a tenant document.
func (s *RedisStore) Set(ctx context.Context, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("tenant: marshal config: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(cfg.Client), data, 0).Err(); err != nil {
		return fmt.Errorf("tenant: set config: %w", err)
	}
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*RedisStore)(nil)
)
