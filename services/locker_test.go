package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockKeys(t *testing.T) {
	assert.Equal(t, "subscription:5", SubscriptionLockKey(5))
	assert.Equal(t, "tasks:7:11", TasksLockKey(7, 11))
}

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	locker := NewMemoryLocker()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "subscription:1")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, locker.locks, "entries should be released")
}

func TestMemoryLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewMemoryLocker()

	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestMemoryLocker_ContextCancel(t *testing.T) {
	locker := NewMemoryLocker()

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // повторный вызов безопасен

	unlock2, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock2()
	assert.Empty(t, locker.locks)
}
