package queue

import "sync"

// compactFloor is the consumed prefix length below which Pop never moves
// pending messages down to the front of the buffer.
const compactFloor = 64

// Queue is an unbounded FIFO of pending messages shared by any number of
// producers and a single consumer. The message slice and the shutdown flag
// live behind one mutex so that the consumer's wake predicate is evaluated
// atomically with respect to Push and RequestShutdown.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []string
	head     int
	shutdown bool

	// afterCheck runs inside WaitForWork after the predicate was found false,
	// with mu still held. Only set by tests.
	afterCheck func()
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends msg to the tail and wakes the consumer if it is waiting.
func (q *Queue) Push(msg string) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()
	q.cond.Signal()
}

// Pop removes and returns the head message. It reports false when the queue
// is empty.
func (q *Queue) Pop() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.empty() {
		return "", false
	}
	msg := q.items[q.head]
	q.items[q.head] = ""
	q.head++
	switch {
	case q.head == len(q.items):
		// Reuse the backing array once fully drained.
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactFloor && q.head*2 >= len(q.items):
		// Move the backlog to the front once the consumed prefix outgrows it.
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return msg, true
}

// IsEmpty reports whether no message is pending.
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.empty()
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// RequestShutdown sets the shutdown flag and wakes every waiter. Calling it
// more than once only re-notifies.
func (q *Queue) RequestShutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// ShutdownRequested reports whether RequestShutdown has been called.
func (q *Queue) ShutdownRequested() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown
}

// WaitForWork blocks until the queue is non-empty or shutdown was requested.
// It returns immediately when either already holds.
func (q *Queue) WaitForWork() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.empty() && !q.shutdown {
		if q.afterCheck != nil {
			q.afterCheck()
		}
		q.cond.Wait()
	}
}

// ShouldStop reports whether the consumer may exit: shutdown was requested
// and nothing is left to drain.
func (q *Queue) ShouldStop() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown && q.empty()
}

func (q *Queue) empty() bool {
	return q.head == len(q.items)
}
