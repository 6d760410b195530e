package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories depend on one
// interface whatever the deployment mode.
type Client interface {
	redis.UniversalClient
}
