package redis

import (
	// Go Internal Packages
	"context"
	"fmt"
	"time"

	// External Packages
	"github.com/redis/go-redis/v9"
)

// Connect connects to the redis server holding the incident queue and the
// dead letter queue, and pings it.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          0,
		DialTimeout: 5 * time.Second,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
