package storage

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the client backing the lobby's open-room directory and
// verifies the connection before handing it out.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
