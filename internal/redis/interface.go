package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so a miniredis backed client and a
// production client are interchangeable
type Client interface {
	redis.UniversalClient
}
