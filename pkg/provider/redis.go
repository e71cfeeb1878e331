package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection settings. All fields are populated from
// environment variables for deployment convenience.
type RedisConfig struct {
	// Connection URL (redis:// or rediss:// for TLS).
	URL string `env:"DATRA_REDIS_URL"`

	// KeyPrefix namespaces every stored path, letting several data sets
	// share one Redis database.
	KeyPrefix string `env:"DATRA_REDIS_KEY_PREFIX" envDefault:"datra"`

	// Retry configuration for handling transient network issues during
	// startup.
	RetryAttempts int           `env:"DATRA_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"DATRA_REDIS_RETRY_INTERVAL" envDefault:"5s"`
}

func (c RedisConfig) validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: redis URL is required", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.URL, "redis://") && !strings.HasPrefix(c.URL, "rediss://") {
		return fmt.Errorf("%w: redis URL must use redis:// or rediss:// scheme", ErrInvalidConfig)
	}
	return nil
}

// Redis stores data as string values in a Redis database, one key per path.
type Redis struct {
	client    redis.UniversalClient
	keyPrefix string
	ownClient bool
}

// NewRedis connects to Redis and creates a provider. The connection is
// verified with a ping and retried with linear backoff.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	attempts := max(cfg.RetryAttempts, 1)
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	for i := range attempts {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err == nil {
			return &Redis{client: client, keyPrefix: cfg.KeyPrefix, ownClient: true}, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * interval):
		}
	}
	return nil, ErrConnectionFailed
}

// NewRedisFromClient creates a provider over an existing client. Close
// leaves the client open; its owner remains responsible for it.
func NewRedisFromClient(client redis.UniversalClient, keyPrefix string) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: nil redis client", ErrInvalidConfig)
	}
	return &Redis{client: client, keyPrefix: keyPrefix}, nil
}

// Driver returns DriverRedis.
func (r *Redis) Driver() Driver { return DriverRedis }

// LoadText returns the value stored at path.
func (r *Redis) LoadText(ctx context.Context, path string) (string, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}

	content, err := r.client.Get(ctx, r.key(rel)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", ErrIOFailure, path, err)
	}
	return content, nil
}

// SaveText stores content at path with no expiration.
func (r *Redis) SaveText(ctx context.Context, path string, content string) error {
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(rel), content, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrIOFailure, path, err)
	}
	return nil
}

// Exists reports whether path has a stored value.
func (r *Redis) Exists(ctx context.Context, path string) bool {
	rel, err := cleanPath(path)
	if err != nil {
		return false
	}
	n, err := r.client.Exists(ctx, r.key(rel)).Result()
	return err == nil && n > 0
}

// ResolvePath returns the redis key for path.
func (r *Redis) ResolvePath(path string) string {
	return "redis:" + r.key(path)
}

// LoadMultiple scans the keys directly under folder and fetches those whose
// names match pattern in one MGET.
func (r *Redis) LoadMultiple(ctx context.Context, folder string, pattern string) (map[string]string, error) {
	rel, err := cleanFolder(folder)
	if err != nil {
		return nil, err
	}
	pattern, err = cleanPattern(pattern)
	if err != nil {
		return nil, err
	}

	match := escapeRedisMatch(r.key("")) + "*"
	if rel != "." {
		match = escapeRedisMatch(r.key(rel)+"/") + "*"
	}

	var keys []string
	var names []string
	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, match, 256).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrIOFailure, folder, err)
		}
		for _, key := range batch {
			p := strings.TrimPrefix(key, r.key(""))
			name, ok := childName(rel, p)
			if !ok || !matchName(pattern, name) {
				continue
			}
			keys = append(keys, key)
			names = append(names, name)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	result := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return result, nil
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: mget %s: %v", ErrIOFailure, folder, err)
	}
	for i, v := range values {
		// A nil slot means the key expired between SCAN and MGET.
		if content, ok := v.(string); ok {
			result[names[i]] = content
		}
	}
	return result, nil
}

// Ping verifies the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrHealthcheckFailed, err)
	}
	return nil
}

// Close closes the client when this provider opened it.
func (r *Redis) Close() error {
	if !r.ownClient {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) key(rel string) string {
	if r.keyPrefix == "" {
		return rel
	}
	return r.keyPrefix + ":" + rel
}

// escapeRedisMatch escapes glob metacharacters so stored paths are matched
// literally by SCAN.
func escapeRedisMatch(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '^', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

var _ Provider = (*Redis)(nil)
var _ Pinger = (*Redis)(nil)
