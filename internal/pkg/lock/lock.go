// Package lock provides keyed locking: one mutex per save slot, per
// Telegram user, or any other comparable key.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLockTimeout is returned when a key cannot be locked before the
// deadline.
var ErrLockTimeout = errors.New("lock acquisition timeout")

// Keyed hands out one mutex per key. The zero value is ready to use.
type Keyed[K comparable] struct {
	locks sync.Map // map[K]*sync.Mutex
}

// New creates a new keyed lock.
func New[K comparable]() *Keyed[K] {
	return &Keyed[K]{}
}

// getLock retrieves or creates the mutex for key.
func (k *Keyed[K]) getLock(key K) *sync.Mutex {
	if v, ok := k.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	// Store or load existing (handles race condition)
	actual, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// Lock acquires the lock for key.
func (k *Keyed[K]) Lock(key K) {
	k.getLock(key).Lock()
}

// Unlock releases the lock for key.
func (k *Keyed[K]) Unlock(key K) {
	if v, ok := k.locks.Load(key); ok {
		v.(*sync.Mutex).Unlock()
	}
}

// LockWithTimeout attempts to acquire the lock until the timeout expires or
// ctx is done. Returns true if the lock was acquired.
func (k *Keyed[K]) LockWithTimeout(ctx context.Context, key K, timeout time.Duration) bool {
	mu := k.getLock(key)

	done := make(chan struct{})
	go func() {
		mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		return true
	case <-timeoutCtx.Done():
		// The waiter still gets the lock eventually; hand it straight back.
		go func() {
			<-done
			mu.Unlock()
		}()
		return false
	}
}

// WithLock executes fn while holding the lock for key.
func (k *Keyed[K]) WithLock(key K, fn func() error) error {
	k.Lock(key)
	defer k.Unlock(key)
	return fn()
}

// WithLockContext executes fn while holding the lock for key, giving up
// with ErrLockTimeout if it cannot be acquired in time.
func (k *Keyed[K]) WithLockContext(ctx context.Context, key K, timeout time.Duration, fn func() error) error {
	if !k.LockWithTimeout(ctx, key, timeout) {
		return ErrLockTimeout
	}
	defer k.Unlock(key)

	// Check if context was cancelled while waiting for lock
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}
