package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapWriter adapts a Logger to zapcore.WriteSyncer so zap can format entries
// while delivery stays asynchronous.
type ZapWriter struct {
	l *Logger
}

var _ zapcore.WriteSyncer = (*ZapWriter)(nil)

// NewZapWriter returns a WriteSyncer pushing every encoded entry into l.
func NewZapWriter(l *Logger) *ZapWriter {
	return &ZapWriter{l: l}
}

// Write pushes a copy of p; zap reuses its buffers after Write returns.
func (z *ZapWriter) Write(p []byte) (int, error) {
	z.l.Push(string(p))
	return len(p), nil
}

// Sync is a no-op. Durability is reached through Stop and CloseOutputs.
func (z *ZapWriter) Sync() error {
	return nil
}

// NewZap builds a zap logger writing plain console-encoded lines into l.
func NewZap(l *Logger, level string) (*zap.Logger, error) {
	lvl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		NewZapWriter(l),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}

// parseLevel converts string level to zapcore.Level.
func parseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}
