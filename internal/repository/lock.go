package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"bizledger/internal/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultLockTimeout = 5 * time.Second

// Locker serializes writers per collection. Lock acquires every name (in a
// stable order) or none, waiting at most the locker's timeout.
type Locker interface {
	Lock(ctx context.Context, names ...string) (unlock func(), err error)
}

// MutexLocker is an in-process Locker with one semaphore per collection.
type MutexLocker struct {
	mu      sync.Mutex
	sems    map[string]chan struct{}
	timeout time.Duration
}

func NewMutexLocker(timeout time.Duration) *MutexLocker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &MutexLocker{sems: make(map[string]chan struct{}), timeout: timeout}
}

func (l *MutexLocker) sem(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[name]
	if !ok {
		s = make(chan struct{}, 1)
		l.sems[name] = s
	}
	return s
}

func (l *MutexLocker) Lock(ctx context.Context, names ...string) (func(), error) {
	names = normalize(names)
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	held := make([]chan struct{}, 0, len(names))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, name := range names {
		s := l.sem(name)
		select {
		case s <- struct{}{}:
			held = append(held, s)
		case <-ctx.Done():
			release()
			return nil, apperr.Persistence("lock "+name, ctx.Err())
		case <-timer.C:
			release()
			return nil, apperr.Persistence("lock "+name, errLockTimeout)
		}
	}
	return release, nil
}

var errLockTimeout = errors.New("timed out waiting for collection lock")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript refreshes the expiry only while the key still holds our token.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// RedisLocker serializes writers across processes sharing one Redis. Held
// keys are re-extended every ttl/3 until unlock, so a unit of work that
// outlives ttl keeps its exclusion; ttl only bounds a crashed holder.
type RedisLocker struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	timeout   time.Duration
	retry     time.Duration
}

// NewRedisLocker creates a Locker backed by SET NX PX.
func NewRedisLocker(client redis.UniversalClient, timeout, ttl time.Duration) *RedisLocker {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client:    client,
		keyPrefix: "bizledger:lock:",
		ttl:       ttl,
		timeout:   timeout,
		retry:     25 * time.Millisecond,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, names ...string) (func(), error) {
	names = normalize(names)
	token := uuid.NewString()
	deadline := time.Now().Add(l.timeout)

	var held []string
	release := func() {
		// released on a fresh context so a cancelled request still unlocks
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			_ = releaseScript.Run(rctx, l.client, []string{held[i]}, token).Err()
		}
	}

	for _, name := range names {
		key := l.keyPrefix + name
		for {
			ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
			if err != nil {
				release()
				return nil, apperr.Persistence("lock "+name, err)
			}
			if ok {
				held = append(held, key)
				break
			}
			if time.Now().After(deadline) {
				release()
				return nil, apperr.Persistence("lock "+name, errLockTimeout)
			}
			select {
			case <-ctx.Done():
				release()
				return nil, apperr.Persistence("lock "+name, ctx.Err())
			case <-time.After(l.retry):
			}
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(held, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			release()
		})
	}, nil
}

func (l *RedisLocker) keepAlive(keys []string, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	interval := l.ttl / 3
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			for _, key := range keys {
				_ = extendScript.Run(ctx, l.client, []string{key}, token, l.ttl.Milliseconds()).Err()
			}
			cancel()
		}
	}
}

// NewRedisClient connects and pings, mirroring how the idempotency store is wired.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// normalize sorts and deduplicates names so concurrent callers lock in the same order.
func normalize(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
