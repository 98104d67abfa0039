package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis classifies a failure of the optional session store.
func WrapRedis(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return &AppError{Err: err, Status: http.StatusNotFound, Kind: KindRedis, Message: RedisNotFoundMessage}
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Err: err, Status: http.StatusGatewayTimeout, Kind: KindRedis, Message: RedisTimeoutMessage}
	}
	return &AppError{Err: err, Status: http.StatusBadGateway, Kind: KindRedis, Message: RedisErrorMessage}
}
