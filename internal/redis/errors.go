package redis

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// IsDriverError reports whether err came out of the Redis driver: a
// server reply error, a network failure or a closed client. redis.Nil and
// context errors are not driver errors.
func IsDriverError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, redis.ErrClosed) {
		return true
	}

	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsNil reports whether err is the "key does not exist" reply
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
