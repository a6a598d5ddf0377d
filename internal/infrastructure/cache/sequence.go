package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sequenceKeyPrefix = "code:seq:"

// incrWithExpiryScript increments a day counter and sets its expiry on first
// use, in one round trip.
var incrWithExpiryScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('EXPIRE', KEYS[1], ARGV[1])
	end
	return n
`)

// sequenceTTL keeps a day's counter a little past midnight.
const sequenceTTL = 48 * time.Hour

// Sequence hands out monotonically increasing numbers per key.
type Sequence interface {
	Next(ctx context.Context, key string) (int64, error)
}

type redisSequence struct {
	client *redis.Client
}

func NewSequence(client *redis.Client) Sequence {
	return &redisSequence{client: client}
}

func (s *redisSequence) Next(ctx context.Context, key string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()
	return incrWithExpiryScript.Run(ctx, s.client, []string{sequenceKeyPrefix + key}, int(sequenceTTL.Seconds())).Int64()
}
