package queue

import (
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopFIFO(t *testing.T) {
	q := New()
	assert.True(t, q.IsEmpty())

	q.Push("a")
	q.Push("b")
	q.Push("c")
	assert.Equal(t, 3, q.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := q.Pop()
	assert.False(t, ok, "pop on an empty queue must report no message")
	assert.True(t, q.IsEmpty())
}

func TestPopReusesBufferAfterDrain(t *testing.T) {
	q := New()
	q.Push("x")
	_, _ = q.Pop()
	q.Push("y")

	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "y", got)
	assert.Equal(t, 0, q.Len())
}

func TestPopCompactsBufferUnderSteadyLoad(t *testing.T) {
	q := New()
	q.Push("0")

	mismatches := 0
	for i := 1; i <= 100_000; i++ {
		q.Push(strconv.Itoa(i))
		got, ok := q.Pop()
		if !ok || got != strconv.Itoa(i-1) {
			mismatches++
		}
	}

	assert.Zero(t, mismatches, "FIFO order must survive compaction")
	assert.Equal(t, 1, q.Len())
	assert.LessOrEqual(t, cap(q.items), 4*compactFloor,
		"buffer must stay bounded by the backlog, not by total throughput")

	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "100000", got)
}

func TestPopCompactionKeepsLargeBacklogInOrder(t *testing.T) {
	q := New()
	for i := 0; i < 1000; i++ {
		q.Push(strconv.Itoa(i))
	}
	for i := 0; i < 1000; i++ {
		got, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, strconv.Itoa(i), got)
		if i%3 == 0 {
			q.Push(strconv.Itoa(1000 + i/3))
		}
	}
	for i := 0; q.Len() > 0; i++ {
		got, _ := q.Pop()
		require.Equal(t, strconv.Itoa(1000+i), got)
	}
}

func TestRequestShutdownIdempotent(t *testing.T) {
	q := New()
	assert.False(t, q.ShutdownRequested())

	q.RequestShutdown()
	q.RequestShutdown()

	assert.True(t, q.ShutdownRequested())
	assert.True(t, q.ShouldStop())
}

func TestShouldStopRequiresEmptyQueue(t *testing.T) {
	q := New()
	q.Push("pending")
	q.RequestShutdown()
	assert.False(t, q.ShouldStop())

	_, _ = q.Pop()
	assert.True(t, q.ShouldStop())
}

func TestWaitForWorkReturnsImmediately(t *testing.T) {
	t.Run("non-empty", func(t *testing.T) {
		q := New()
		q.Push("m")
		q.WaitForWork()
	})
	t.Run("shutdown", func(t *testing.T) {
		q := New()
		q.RequestShutdown()
		q.WaitForWork()
	})
}

func TestWaitForWorkWakesOnPush(t *testing.T) {
	q := New()
	woke := make(chan struct{})
	go func() {
		q.WaitForWork()
		close(woke)
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push("wake")

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not woken by push")
	}
}

func TestWaitForWorkWakesOnShutdown(t *testing.T) {
	q := New()
	woke := make(chan struct{})
	go func() {
		q.WaitForWork()
		close(woke)
	}()

	time.Sleep(20 * time.Millisecond)
	q.RequestShutdown()

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was not woken by shutdown")
	}
}

// A push issued right after the emptiness check, before the waiter is
// parked, must still wake it.
func TestWaitForWorkNoLostWakeup(t *testing.T) {
	q := New()
	pushed := make(chan struct{})
	var once sync.Once
	q.afterCheck = func() {
		once.Do(func() {
			go func() {
				q.Push("late")
				close(pushed)
			}()
		})
	}

	woke := make(chan struct{})
	go func() {
		q.WaitForWork()
		close(woke)
	}()

	select {
	case <-woke:
	case <-time.After(2 * time.Second):
		t.Fatal("waiter stalled with work pending")
	}
	<-pushed

	msg, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "late", msg)
}

func TestConcurrentPushPreservesPerProducerOrder(t *testing.T) {
	const producers, perProducer = 4, 500
	q := New()

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(fmt.Sprintf("%d:%d", p, i))
			}
		}(p)
	}
	wg.Wait()

	require.Equal(t, producers*perProducer, q.Len())

	next := make([]int, producers)
	for {
		msg, ok := q.Pop()
		if !ok {
			break
		}
		var p, i int
		_, err := fmt.Sscanf(msg, "%d:%d", &p, &i)
		require.NoError(t, err)
		assert.Equal(t, next[p], i, "producer %d out of order", p)
		next[p] = i + 1
	}
	for p := range next {
		assert.Equal(t, perProducer, next[p])
	}
}
