package crm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"practice-automation/pkg/utils"
)

// ErrLocked means another request is already processing the same lead.
var ErrLocked = errors.New("crm: lead is already being processed")

// Locker serializes processing per lead. Release must be safe to call once.
type Locker interface {
	Lock(ctx context.Context, leadID string) (release func(), err error)
}

// RedisLocker holds an expiring key per lead so duplicate CRM deliveries
// across API replicas do not create duplicate tasks.
type RedisLocker struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLocker{Client: rdb, Prefix: "automation:lead-lock:", TTL: ttl}
}

func (l *RedisLocker) Lock(ctx context.Context, leadID string) (func(), error) {
	key := l.Prefix + leadID
	owner := uuid.NewString()
	ok, err := utils.AcquireLock(ctx, l.Client, key, owner, l.TTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// Use a fresh context; the request context may already be done.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = utils.ReleaseLock(ctx, l.Client, key, owner)
	}, nil
}

// MemoryLocker is the single-process Locker used when Redis is not configured.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: map[string]struct{}{}}
}

func (l *MemoryLocker) Lock(ctx context.Context, leadID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[leadID]; ok {
		return nil, ErrLocked
	}
	l.held[leadID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, leadID)
			l.mu.Unlock()
		})
	}, nil
}
