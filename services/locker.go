package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Locker сериализует операции над одной сущностью
type Locker interface {
	// Lock блокирует ключ и возвращает функцию освобождения
	Lock(ctx context.Context, key string) (func(), error)
}

// SubscriptionLockKey ключ блокировки подписки
func SubscriptionLockKey(subscriptionID uint) string {
	return fmt.Sprintf("subscription:%d", subscriptionID)
}

// TasksLockKey ключ блокировки набора задач клиента
func TasksLockKey(trainerID, clientID uint) string {
	return fmt.Sprintf("tasks:%d:%d", trainerID, clientID)
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

// MemoryLocker блокировки в пределах одного процесса
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

// NewMemoryLocker создает новый экземпляр MemoryLocker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*lockEntry)}
}

// Lock ждет освобождения ключа или отмены контекста
func (l *MemoryLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{ch: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, entry, true) })
	}, nil
}

func (l *MemoryLocker) release(key string, entry *lockEntry, held bool) {
	if held {
		<-entry.ch
	}
	l.mu.Lock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// unlockScript удаляет ключ, только если он принадлежит владельцу
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker распределенные блокировки через SET NX PX
type RedisLocker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	prefix     string
}

// NewRedisLocker создает новый экземпляр RedisLocker
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{
		client:     client,
		ttl:        ttl,
		retryDelay: 50 * time.Millisecond,
		prefix:     "lock:",
	}
}

// Lock повторяет попытки захвата до успеха или отмены контекста.
// Ключ истекает через ttl, если владелец не освободил его.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: не удалось захватить блокировку %s: %v", ErrInternal, key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Освобождаем даже при отмененном контексте запроса
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			unlockScript.Run(releaseCtx, l.client, []string{redisKey}, token)
		})
	}, nil
}
