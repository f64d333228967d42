package audit

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// TimeLayout is the timestamp format of audit lines, e.g. 03/14/2025 09:26:53 PM.
// The time is always UTC.
const TimeLayout = "01/02/2006 03:04:05 PM"

// lineHandler writes "<timestamp> : <message>" lines. Attributes are ignored;
// everything an auditor needs is already in the message.
type lineHandler struct {
	mu *sync.Mutex
	w  io.Writer
}

func newLineHandler(w io.Writer) *lineHandler {
	return &lineHandler{mu: &sync.Mutex{}, w: w}
}

func (h *lineHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	line := r.Time.Format(TimeLayout) + " : " + r.Message + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *lineHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *lineHandler) WithGroup(string) slog.Handler      { return h }

// SecurityFilter passes on only records at WARN or above whose message
// carries the security marker.
type SecurityFilter struct {
	next slog.Handler
}

func NewSecurityFilter(next slog.Handler) *SecurityFilter {
	return &SecurityFilter{next: next}
}

func (f *SecurityFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn && f.next.Enabled(ctx, level)
}

func (f *SecurityFilter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelWarn || !strings.Contains(r.Message, Marker) {
		return nil
	}
	return f.next.Handle(ctx, r)
}

func (f *SecurityFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecurityFilter{next: f.next.WithAttrs(attrs)}
}

func (f *SecurityFilter) WithGroup(name string) slog.Handler {
	return &SecurityFilter{next: f.next.WithGroup(name)}
}
