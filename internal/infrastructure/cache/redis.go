package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"clinic-operations/config"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// redisOpTimeout bounds every individual Redis call.
const redisOpTimeout = 3 * time.Second

// NewRedisClient dials Redis and pings it once. The token registry and the
// code sequences share the returned client.
func NewRedisClient(cfg config.RedisConfig, log *logrus.Logger) (*redis.Client, error) {
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisOpTimeout,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	log.WithFields(logrus.Fields{"addr": addr, "db": cfg.DB}).Info("Connected to Redis")

	return client, nil
}
