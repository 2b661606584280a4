package producer

import (
	"fmt"
	"sort"
)

// Stream identifies the messages of one producer in one run.
type Stream struct {
	Run      string
	Producer int
}

// Report is the outcome of checking a delivered log for ordering.
type Report struct {
	Lines      int
	Matched    int
	Streams    int // distinct (run, producer) pairs
	OutOfOrder []string

	// Delivered is the next expected sequence number of every stream, i.e.
	// its length when the stream is in order.
	Delivered map[Stream]int
}

// OK reports whether every stream was delivered gap-free and in order.
func (r Report) OK() bool {
	return len(r.OutOfOrder) == 0
}

// ShortStreams lists the streams that end before want messages. The log
// alone cannot tell a truncated stream from a complete one, so the caller
// supplies the per-producer count it pushed.
func (r Report) ShortStreams(want int) []string {
	var short []string
	for s, got := range r.Delivered {
		if got < want {
			short = append(short, fmt.Sprintf("run %s producer %d: %d of %d messages", s.Run, s.Producer, got, want))
		}
	}
	sort.Strings(short)
	return short
}

// VerifyOrder checks that, for every run and producer, sequence numbers
// appear as 0, 1, 2, ... with no gap, duplicate or reordering. Lines that
// carry no sequenced message are ignored. Missing messages at the end of a
// stream are only found by ShortStreams.
func VerifyOrder(lines []string) Report {
	next := make(map[Stream]int)
	rep := Report{Lines: len(lines)}

	for i, line := range lines {
		run, p, seq, ok := Parse(line)
		if !ok {
			continue
		}
		rep.Matched++
		k := Stream{run, p}
		want := next[k]
		if seq != want {
			rep.OutOfOrder = append(rep.OutOfOrder,
				fmt.Sprintf("line %d: run %s producer %d: got seq %d, want %d", i+1, run, p, seq, want))
		}
		next[k] = seq + 1
	}
	rep.Streams = len(next)
	rep.Delivered = next
	return rep
}
