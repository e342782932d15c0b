package tokenstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

func redisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}
