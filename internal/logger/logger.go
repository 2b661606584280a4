package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"asynclog/internal/queue"
)

// Sink names used in stats, metrics and diagnostics.
const (
	SinkConsole = "console"
	SinkFile    = "file"
)

// Sinks are the two outputs every message is delivered to, console first.
// Both are owned by the caller; only File is closed, by CloseOutputs.
type Sinks struct {
	Console io.Writer
	File    io.WriteCloser
}

// Observer receives delivery events. Implementations must be safe for
// concurrent use: MessagePushed is called from producer goroutines.
type Observer interface {
	MessagePushed()
	MessageWritten(sink string)
	WriteFailed(sink string)
	WorkerStopped()
}

// Stats is a point-in-time view of the logger counters.
type Stats struct {
	Pushed         uint64
	ConsoleWritten uint64
	FileWritten    uint64
	ConsoleFailed  uint64
	FileFailed     uint64
	SkippedEmpty   uint64
	Pending        int
}

// Logger moves messages from any number of producers to the sinks through a
// single background worker, so producers never block on I/O.
type Logger struct {
	queue *queue.Queue
	sinks Sinks
	diag  *log.Logger
	obs   Observer

	closeOnce sync.Once
	closeErr  error

	pushed         atomic.Uint64
	consoleWritten atomic.Uint64
	fileWritten    atomic.Uint64
	consoleFailed  atomic.Uint64
	fileFailed     atomic.Uint64
	skippedEmpty   atomic.Uint64
}

// Option configures a Logger.
type Option func(*Logger)

// WithDiagnostics sets where the logger reports its own problems, such as
// sink write failures. Defaults to a discarding logger.
func WithDiagnostics(diag *log.Logger) Option {
	return func(l *Logger) {
		if diag != nil {
			l.diag = diag
		}
	}
}

// WithObserver attaches an Observer, e.g. a metrics collector.
func WithObserver(obs Observer) Option {
	return func(l *Logger) {
		l.obs = obs
	}
}

// New creates a logger delivering to sinks. A nil sink is replaced by a
// discarding one.
func New(sinks Sinks, opts ...Option) *Logger {
	if sinks.Console == nil {
		sinks.Console = io.Discard
	}
	if sinks.File == nil {
		sinks.File = nopCloser{io.Discard}
	}
	l := &Logger{
		queue: queue.New(),
		sinks: sinks,
		diag:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewSilent creates a logger that discards all output.
func NewSilent() *Logger {
	return New(Sinks{})
}

// Open opens logPath for appending, creating it and its directory if needed.
func Open(logPath string) (*os.File, error) {
	if dir := filepath.Dir(logPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Push enqueues msg for delivery. It never blocks on I/O and never fails.
// Messages pushed after Stop returned are accepted but not delivered.
func (l *Logger) Push(msg string) {
	l.queue.Push(msg)
	l.pushed.Add(1)
	if l.obs != nil {
		l.obs.MessagePushed()
	}
}

// Printf formats according to format and pushes the result.
func (l *Logger) Printf(format string, args ...any) {
	l.Push(fmt.Sprintf(format, args...))
}

// Pending returns the number of queued messages not yet taken by the worker.
func (l *Logger) Pending() int {
	return l.queue.Len()
}

// Stats returns the current counters.
func (l *Logger) Stats() Stats {
	return Stats{
		Pushed:         l.pushed.Load(),
		ConsoleWritten: l.consoleWritten.Load(),
		FileWritten:    l.fileWritten.Load(),
		ConsoleFailed:  l.consoleFailed.Load(),
		FileFailed:     l.fileFailed.Load(),
		SkippedEmpty:   l.skippedEmpty.Load(),
		Pending:        l.queue.Len(),
	}
}

// CloseOutputs syncs and closes the file sink. Call it only after Stop has
// returned. Subsequent calls return the first result.
func (l *Logger) CloseOutputs() error {
	l.closeOnce.Do(func() {
		if s, ok := l.sinks.File.(interface{ Sync() error }); ok {
			if err := s.Sync(); err != nil {
				l.diag.Printf("⚠️  Failed to sync log file: %v", err)
			}
		}
		if err := l.sinks.File.Close(); err != nil {
			l.closeErr = fmt.Errorf("failed to close log file: %w", err)
		}
	})
	return l.closeErr
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
