// Package audit writes the security audit trail. Every event becomes one
// WARN-level "SECURITY - ..." line; the write is synchronous, so a caller that
// got a nil error knows the event is on the sink.
package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Observer is told about every event that was written.
type Observer interface {
	AuditRecorded(kind string)
}

type Logger struct {
	handler  slog.Handler
	observer Observer
	now      func() time.Time
}

type Option func(*Logger)

func WithObserver(o Observer) Option {
	return func(l *Logger) { l.observer = o }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New returns a Logger writing audit lines to w.
func New(w io.Writer, opts ...Option) *Logger {
	return NewWithHandler(NewSecurityFilter(newLineHandler(w)), opts...)
}

// NewWithHandler lets the audit stream share any slog handler. The handler
// should drop records without the security marker; New uses SecurityFilter.
func NewWithHandler(h slog.Handler, opts ...Option) *Logger {
	l := &Logger{handler: h, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record writes e and returns once it is on the sink. The remote address is
// taken from ctx when e does not carry one. Timestamps are written in UTC
// whatever clock or zone they came from.
func (l *Logger) Record(ctx context.Context, e Event) error {
	if e.Time.IsZero() {
		e.Time = l.now()
	}
	e.Time = e.Time.UTC()
	if e.RemoteAddr == "" {
		e.RemoteAddr = RemoteAddrFromContext(ctx)
	}

	r := slog.NewRecord(e.Time, slog.LevelWarn, e.Message(), 0)
	r.AddAttrs(slog.String("kind", string(e.Kind)))

	if err := l.handler.Handle(ctx, r); err != nil {
		return fmt.Errorf("write audit event %s: %w", e.Kind, err)
	}

	if l.observer != nil {
		l.observer.AuditRecorded(string(e.Kind))
	}
	return nil
}

// Discard returns a Logger that drops everything. Tests only.
func Discard() *Logger {
	return New(io.Discard)
}
