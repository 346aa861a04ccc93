package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// RoomLocker serializes booking writers per room.  Lock blocks until the
// room is free or ctx ends and returns the function that releases it.
type RoomLocker interface {
	Lock(ctx context.Context, roomID uint64) (unlock func(), err error)
}

// LocalLocker is an in-process keyed mutex.  Entries are reference counted
// and removed once no goroutine holds or waits for them.
type LocalLocker struct {
	mu    sync.Mutex
	rooms map[uint64]*roomSlot
}

type roomSlot struct {
	ch   chan struct{} // capacity 1; a token in the channel means locked
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{rooms: make(map[uint64]*roomSlot)}
}

func (l *LocalLocker) Lock(ctx context.Context, roomID uint64) (func(), error) {
	l.mu.Lock()
	s, ok := l.rooms[roomID]
	if !ok {
		s = &roomSlot{ch: make(chan struct{}, 1)}
		l.rooms[roomID] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, s, false)
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { l.release(roomID, s, true) }) }, nil
}

func (l *LocalLocker) release(roomID uint64, s *roomSlot, held bool) {
	if held {
		<-s.ch
	}
	l.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(l.rooms, roomID)
	}
	l.mu.Unlock()
}

// RedisLocker coordinates booking writers across server instances with a
// redsync mutex named lock:room:<id>.
type RedisLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
	tries  int
}

// NewRedisLocker builds a RedisLocker.  expiry bounds how long a crashed
// holder can block a room; tries bounds the acquisition attempts.
func NewRedisLocker(rdb *redis.Client, expiry time.Duration, tries int) *RedisLocker {
	if expiry <= 0 {
		expiry = 10 * time.Second
	}
	if tries <= 0 {
		tries = 32
	}
	return &RedisLocker{rs: redsync.New(goredis.NewPool(rdb)), expiry: expiry, tries: tries}
}

func (l *RedisLocker) Lock(ctx context.Context, roomID uint64) (func(), error) {
	m := l.rs.NewMutex("lock:room:"+strconv.FormatUint(roomID, 10),
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(l.tries),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := m.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("lock room %d: %w", roomID, err)
	}
	return func() {
		// a fresh context: the request context may already be done
		uctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = m.UnlockContext(uctx)
	}, nil
}

// ChainLocker acquires each locker in order and releases in reverse.  The
// server chains a LocalLocker in front of a RedisLocker so goroutines of one
// instance queue locally instead of polling Redis.
type ChainLocker []RoomLocker

func (c ChainLocker) Lock(ctx context.Context, roomID uint64) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	undo := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, l := range c {
		u, err := l.Lock(ctx, roomID)
		if err != nil {
			undo()
			return nil, err
		}
		unlocks = append(unlocks, u)
	}
	return undo, nil
}
