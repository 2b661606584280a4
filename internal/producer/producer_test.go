package producer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu    sync.Mutex
	lines []string
}

func (c *collector) emit(runID string, p, seq int) {
	c.mu.Lock()
	c.lines = append(c.lines, Format(runID, p, seq))
	c.mu.Unlock()
}

func TestRunEmitsEverySequence(t *testing.T) {
	var c collector
	res, err := Run(context.Background(), Plan{Producers: 3, Messages: 50}, c.emit)
	require.NoError(t, err)

	assert.Equal(t, 150, res.Pushed)
	assert.Len(t, res.RunID, 36)

	rep := VerifyOrder(c.lines)
	assert.True(t, rep.OK(), rep.OutOfOrder)
	assert.Equal(t, 150, rep.Matched)
	assert.Equal(t, 3, rep.Streams)
}

func TestRunRejectsNoProducers(t *testing.T) {
	_, err := Run(context.Background(), Plan{Producers: 0}, func(string, int, int) {})
	assert.Error(t, err)
}

func TestRunHonoursRate(t *testing.T) {
	var c collector
	start := time.Now()
	res, err := Run(context.Background(), Plan{Producers: 2, Messages: 5, RatePerSecond: 100, Burst: 1}, c.emit)
	require.NoError(t, err)

	assert.Equal(t, 10, res.Pushed)
	// 10 tokens at 100/s with a burst of one need at least ~90ms.
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var c collector
	emitted := 0
	res, err := Run(ctx, Plan{Producers: 1, Messages: 100}, func(run string, p, seq int) {
		c.emit(run, p, seq)
		emitted++
		if emitted == 10 {
			cancel()
		}
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 10, res.Pushed)
}

func TestParse(t *testing.T) {
	line := "2026-10-18T10:00:00.000Z\tINFO\t" + Format("0b6c1f2e-3a4d-4e5f-8a9b-0c1d2e3f4a5b", 3, 42)

	run, p, seq, ok := Parse(line)
	require.True(t, ok)
	assert.Equal(t, "0b6c1f2e-3a4d-4e5f-8a9b-0c1d2e3f4a5b", run)
	assert.Equal(t, 3, p)
	assert.Equal(t, 42, seq)

	_, _, _, ok = Parse("plain diagnostic line")
	assert.False(t, ok)
}

func TestVerifyOrderDetectsProblems(t *testing.T) {
	const run = "0b6c1f2e-3a4d-4e5f-8a9b-0c1d2e3f4a5b"
	lines := []string{
		Format(run, 0, 0),
		"unrelated",
		Format(run, 1, 0),
		Format(run, 0, 2), // gap
		Format(run, 1, 1),
		Format(run, 1, 1), // duplicate
	}

	rep := VerifyOrder(lines)
	assert.False(t, rep.OK())
	assert.Equal(t, 6, rep.Lines)
	assert.Equal(t, 5, rep.Matched)
	assert.Equal(t, 2, rep.Streams)
	require.Len(t, rep.OutOfOrder, 2)
	assert.Contains(t, rep.OutOfOrder[0], "line 4")
	assert.Contains(t, rep.OutOfOrder[1], "got seq 1, want 2")
}

func TestShortStreams(t *testing.T) {
	const run = "0b6c1f2e-3a4d-4e5f-8a9b-0c1d2e3f4a5b"
	lines := []string{
		Format(run, 0, 0),
		Format(run, 1, 0),
		Format(run, 0, 1),
		Format(run, 0, 2),
	}

	rep := VerifyOrder(lines)
	require.True(t, rep.OK(), "a truncated stream is still in order")
	assert.Equal(t, 3, rep.Delivered[Stream{run, 0}])

	short := rep.ShortStreams(3)
	require.Len(t, short, 1)
	assert.Contains(t, short[0], "producer 1: 1 of 3 messages")
	assert.Len(t, rep.ShortStreams(4), 2)
	assert.Empty(t, rep.ShortStreams(0))
}
