package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesAndDrainsOnStop(t *testing.T) {
	var mu sync.Mutex
	seen := []string{}
	q := NewQueue("files", func(_ context.Context, name string) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, name)
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 8})

	q.Start(context.Background())
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, q.Enqueue(name))
	}
	q.Stop()

	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf", "c.pdf"}, seen)
	assert.ErrorIs(t, q.Enqueue("d.pdf"), ErrQueueStopped)
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan struct{})
	q := NewQueue("files", func(_ context.Context, _ string) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("busy")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()
	require.NoError(t, q.Enqueue("a.pdf"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestQueueRejectsWhenFull(t *testing.T) {
	q := NewQueue("files", func(context.Context, int) error { return nil }, QueueConfig{BufferSize: 1})
	assert.ErrorIs(t, q.Enqueue(1), ErrQueueStopped)

	// Running without workers keeps the buffer full.
	q.running = true
	require.NoError(t, q.Enqueue(1))
	assert.ErrorIs(t, q.Enqueue(2), ErrQueueFull)
}
