package logger

import (
	"io"
	"sync/atomic"
)

type workerState int

const (
	stateDraining workerState = iota
	stateIdleWaiting
	stateStopped
)

// Worker is the handle of a running drain loop returned by Start.
type Worker struct {
	done chan struct{}
}

// Done is closed once the worker has drained the queue and exited.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Start launches the background worker. It must be called at most once per
// Logger; two workers would race on the same queue.
func (l *Logger) Start() *Worker {
	w := &Worker{done: make(chan struct{})}
	go func() {
		defer close(w.done)
		l.run()
	}()
	return w
}

// Stop requests shutdown and blocks until the worker has written every
// message pushed before the call and exited. It has no timeout: a sink that
// hangs on write hangs Stop.
func (l *Logger) Stop(w *Worker) {
	l.queue.RequestShutdown()
	<-w.done
}

func (l *Logger) run() {
	var consoleReported, fileReported bool
	state := stateDraining

	for state != stateStopped {
		switch state {
		case stateDraining:
			msg, ok := l.queue.Pop()
			if !ok {
				state = stateIdleWaiting
				continue
			}
			if msg == "" {
				l.skippedEmpty.Add(1)
				continue
			}
			l.write(SinkConsole, l.sinks.Console, msg, &l.consoleWritten, &l.consoleFailed, &consoleReported)
			l.write(SinkFile, l.sinks.File, msg, &l.fileWritten, &l.fileFailed, &fileReported)

		case stateIdleWaiting:
			if l.queue.ShouldStop() {
				state = stateStopped
				continue
			}
			l.queue.WaitForWork()
			state = stateDraining
		}
	}

	if l.obs != nil {
		l.obs.WorkerStopped()
	}
}

// write delivers msg to one sink. Failures are counted and reported once per
// sink; the message is then given up for that sink and draining continues.
func (l *Logger) write(name string, w io.Writer, msg string, written, failed *atomic.Uint64, reported *bool) {
	if _, err := io.WriteString(w, msg); err != nil {
		failed.Add(1)
		if l.obs != nil {
			l.obs.WriteFailed(name)
		}
		if !*reported {
			*reported = true
			l.diag.Printf("⚠️  %s sink write failed, further failures are counted only: %v", name, err)
		}
		return
	}
	written.Add(1)
	if l.obs != nil {
		l.obs.MessageWritten(name)
	}
}
