package bot

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()

	_, ok := store.Get("U1")
	assert.False(t, ok)

	store.Put("U1", Session{Puzzle: "p1", Answer: "a1"})
	got, ok := store.Get("U1")
	require.True(t, ok)
	assert.Equal(t, Session{Puzzle: "p1", Answer: "a1"}, got)
	assert.Equal(t, 1, store.Len())

	store.Put("U1", Session{Puzzle: "p2", Answer: "a2"})
	got, _ = store.Get("U1")
	assert.Equal(t, "p2", got.Puzzle)
	assert.Equal(t, 1, store.Len())

	assert.True(t, store.Delete("U1"))
	assert.False(t, store.Delete("U1"))
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_UsersAreIndependent(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			id := fmt.Sprintf("U%d", i)
			unlock := store.Lock(id)
			defer unlock()
			store.Put(id, Session{Puzzle: "puzzle-" + id, Answer: "answer-" + id})
		})
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
	for i := range 50 {
		id := fmt.Sprintf("U%d", i)
		sess, ok := store.Get(id)
		require.True(t, ok)
		assert.Equal(t, "puzzle-"+id, sess.Puzzle)
		assert.Equal(t, "answer-"+id, sess.Answer)
	}
}

func TestSessionStore_LockSerializesSameUser(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup

	for range 20 {
		wg.Go(func() {
			unlock := store.Lock("U1")
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
}

func TestSessionStore_LockEntriesReleased(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	unlockA := store.Lock("A")
	unlockB := store.Lock("B")

	store.mu.Lock()
	assert.Len(t, store.locks, 2)
	store.mu.Unlock()

	unlockA()
	unlockB()

	store.mu.Lock()
	assert.Empty(t, store.locks)
	store.mu.Unlock()
}

func TestSessionStore_DifferentUsersDoNotBlock(t *testing.T) {
	t.Parallel()

	store := NewSessionStore()
	unlockA := store.Lock("A")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := store.Lock("B")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for B blocked while A was held")
	}
}
