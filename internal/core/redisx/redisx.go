package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// New builds a redis client and verifies the connection. Callers treat
// redis as optional infrastructure; a nil client means in-process
// fallbacks are used instead.
func New(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
