package producer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Plan describes a synthetic load run.
type Plan struct {
	Producers     int
	Messages      int     // per producer
	RatePerSecond float64 // shared across producers; 0 means unthrottled
	Burst         int
}

// Emit delivers one message for producer p with sequence number seq.
type Emit func(runID string, p, seq int)

// Result summarises a finished run.
type Result struct {
	RunID    string
	Pushed   int
	Duration time.Duration
}

// Run spawns plan.Producers goroutines, each emitting plan.Messages
// sequenced messages, and waits for all of them. A cancelled ctx stops
// producers between messages.
func Run(ctx context.Context, plan Plan, emit Emit) (Result, error) {
	if plan.Producers < 1 {
		return Result{}, fmt.Errorf("at least one producer is required, got %d", plan.Producers)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if plan.RatePerSecond > 0 {
		burst := plan.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(plan.RatePerSecond), burst)
	}

	runID := uuid.New().String()
	start := time.Now()
	counts := make([]int, plan.Producers)

	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < plan.Producers; p++ {
		g.Go(func() error {
			for seq := 0; seq < plan.Messages; seq++ {
				if err := limiter.Wait(gctx); err != nil {
					return fmt.Errorf("producer %d stopped at seq %d: %w", p, seq, err)
				}
				emit(runID, p, seq)
				counts[p]++
			}
			return nil
		})
	}
	err := g.Wait()

	res := Result{RunID: runID, Duration: time.Since(start)}
	for _, c := range counts {
		res.Pushed += c
	}
	return res, err
}

// Format renders the canonical message text, without a trailing newline.
func Format(runID string, p, seq int) string {
	return fmt.Sprintf("%s producer=%d seq=%d", runID, p, seq)
}

var linePattern = regexp.MustCompile(`([0-9a-f-]{36}) producer=(\d+) seq=(\d+)`)

// Parse extracts the run ID, producer and sequence number from a line that
// contains a Format'ed message, possibly wrapped by an encoder.
func Parse(line string) (runID string, p, seq int, ok bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return "", 0, 0, false
	}
	p, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, 0, false
	}
	seq, err = strconv.Atoi(m[3])
	if err != nil {
		return "", 0, 0, false
	}
	return m[1], p, seq, true
}
