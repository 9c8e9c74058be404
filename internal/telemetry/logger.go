package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// JSONLogger writes one JSON object per event. Event names are dotted
// ("game.flow") and go in the msg field.
type JSONLogger struct {
	mu  sync.Mutex
	zl  zerolog.Logger
	out io.Closer
}

// NewJSONLogger logs to path at level ("debug", "info", "warn", "error").
// An empty path discards everything.
func NewJSONLogger(path, level string) (*JSONLogger, error) {
	if path == "" {
		return New(io.Discard, level), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	l := New(f, level)
	l.out = f
	return l, nil
}

// New logs to w. Close does not close w.
func New(w io.Writer, level string) *JSONLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &JSONLogger{zl: zl}
}

func (l *JSONLogger) Debug(msg string, fields map[string]any) {
	l.log(zerolog.DebugLevel, msg, fields)
}

func (l *JSONLogger) Info(msg string, fields map[string]any) {
	l.log(zerolog.InfoLevel, msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]any) {
	l.log(zerolog.WarnLevel, msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]any) {
	l.log(zerolog.ErrorLevel, msg, fields)
}

func (l *JSONLogger) log(level zerolog.Level, msg string, fields map[string]any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := l.zl.WithLevel(level)
	if ev == nil {
		return
	}
	ev.Fields(fields).Msg(msg)
}

func (l *JSONLogger) Close() error {
	if l == nil || l.out == nil {
		return nil
	}
	return l.out.Close()
}
