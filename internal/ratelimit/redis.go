package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"practice-automation/pkg/utils"
)

// Redis spaces calls at least Every apart across every process sharing Key.
// Use it when more than one API replica runs batches against the same
// task and chat services.
type Redis struct {
	Client *redis.Client
	Key    string
	Every  time.Duration

	Now   func() time.Time
	Sleep SleepFunc
}

func NewRedis(rdb *redis.Client, key string, every time.Duration) *Redis {
	if every <= 0 {
		every = DefaultInterval
	}
	return &Redis{Client: rdb, Key: key, Every: every, Now: time.Now, Sleep: Sleep}
}

func (r *Redis) Wait(ctx context.Context) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	d, err := utils.ReserveInterval(ctx, r.Client, r.Key, now(), r.Every)
	if err != nil {
		return fmt.Errorf("ratelimit: reserve slot: %w", err)
	}
	return sleep(ctx, d)
}
