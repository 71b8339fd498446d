// Package redis wraps the go-redis client so repositories depend on an
// interface rather than a concrete connection.
package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/kingdom-api/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
}

// NewClient creates a Redis client for a single instance
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return redis.NewClient(redisOpts), nil
}

// NewFromURL creates a client from a redis:// or rediss:// URL. Pool
// settings in opts override the ones parsed from the URL when set.
func NewFromURL(rawURL string, opts *Options) (Client, error) {
	if rawURL == "" {
		return nil, errors.InvalidArgument("redis: url is required")
	}

	redisOpts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "redis: invalid url")
	}

	if opts != nil {
		if opts.PoolSize > 0 {
			redisOpts.PoolSize = opts.PoolSize
		}
		if opts.MinIdleConns > 0 {
			redisOpts.MinIdleConns = opts.MinIdleConns
		}
		if opts.ConnMaxIdleTime > 0 {
			redisOpts.ConnMaxIdleTime = opts.ConnMaxIdleTime
		}
		if opts.MaxRetries != 0 {
			redisOpts.MaxRetries = opts.MaxRetries
		}
	}

	return redis.NewClient(redisOpts), nil
}

// Ping checks that the server is reachable
func Ping(ctx context.Context, client Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "redis: ping failed")
	}
	return nil
}
