package audit_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/lotto/internal/lotto/audit"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) AuditRecorded(kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[kind]++
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecordFormat(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2025, 3, 14, 21, 26, 53, 0, time.UTC)
	l := audit.New(&buf, audit.WithClock(func() time.Time { return at }))

	ctx := audit.WithRemoteAddr(context.Background(), "203.0.113.9")
	err := l.Record(ctx, audit.Event{Kind: audit.KindLoginFailure, Email: "a@x.com"})
	require.NoError(t, err)

	require.Equal(t, "03/14/2025 09:26:53 PM : SECURITY - LOGIN_FAILURE [a@x.com, 203.0.113.9]\n", buf.String())
}

func TestRecordWritesUTC(t *testing.T) {
	local := time.Local
	time.Local = time.FixedZone("AEST", 10*60*60)
	t.Cleanup(func() { time.Local = local })

	var buf bytes.Buffer
	l := audit.New(&buf)

	// One event from the logger's own clock, one stamped by a caller in
	// another zone; both describe the same instant.
	at := time.Now()
	require.NoError(t, l.Record(context.Background(), audit.Event{Kind: audit.KindUserRegistration, Email: "a@x.com"}))
	require.NoError(t, l.Record(context.Background(), audit.Event{Time: at.In(time.FixedZone("PST", -8*60*60)), Kind: audit.KindLoginSuccess, UserID: "u1", Email: "a@x.com"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	stamps := make([]time.Time, 0, len(lines))
	for _, line := range lines {
		stamp, _, ok := strings.Cut(line, " : ")
		require.True(t, ok)
		ts, err := time.Parse(audit.TimeLayout, stamp)
		require.NoError(t, err)
		stamps = append(stamps, ts)
	}
	require.WithinDuration(t, at.UTC(), stamps[0], 2*time.Second)
	require.WithinDuration(t, stamps[0], stamps[1], 2*time.Second)
}

func TestEventMessageFieldOrder(t *testing.T) {
	e := audit.Event{
		Kind:       audit.KindUnauthorizedAccess,
		UserID:     "01HQ",
		Email:      "u@x.com",
		Role:       "user",
		RemoteAddr: "127.0.0.1",
	}
	require.Equal(t, "SECURITY - UNAUTHORIZED_ACCESS [01HQ, u@x.com, user, 127.0.0.1]", e.Message())

	e = audit.Event{Kind: audit.KindDecryptionFailure, UserID: "u1", DrawID: "d1"}
	require.Equal(t, "SECURITY - DECRYPTION_FAILURE [u1, d1]", e.Message())
}

func TestRecordExplicitRemoteAddrWins(t *testing.T) {
	var buf bytes.Buffer
	l := audit.New(&buf)

	ctx := audit.WithRemoteAddr(context.Background(), "10.0.0.1")
	require.NoError(t, l.Record(ctx, audit.Event{Kind: audit.KindLogout, UserID: "u1", RemoteAddr: "10.0.0.2"}))
	require.Contains(t, buf.String(), "10.0.0.2]")
	require.NotContains(t, buf.String(), "10.0.0.1")
}

func TestRecordReportsWriteFailure(t *testing.T) {
	obs := &countingObserver{}
	l := audit.New(failingWriter{}, audit.WithObserver(obs))

	err := l.Record(context.Background(), audit.Event{Kind: audit.KindLoginSuccess, UserID: "u1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "LOGIN_SUCCESS")
	require.Zero(t, obs.counts["LOGIN_SUCCESS"], "failed writes are not counted")
}

func TestRecordObserver(t *testing.T) {
	obs := &countingObserver{}
	l := audit.New(&bytes.Buffer{}, audit.WithObserver(obs))

	for range 2 {
		require.NoError(t, l.Record(context.Background(), audit.Event{Kind: audit.KindLoginFailure}))
	}
	require.NoError(t, l.Record(context.Background(), audit.Event{Kind: audit.KindLogout}))

	require.Equal(t, 2, obs.counts["LOGIN_FAILURE"])
	require.Equal(t, 1, obs.counts["LOGOUT"])
}

func TestSecurityFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(audit.NewSecurityFilter(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	logger.Info("SECURITY - LOGIN_SUCCESS [u1]")
	logger.Warn("disk almost full")
	logger.Error("SECURITY - LOGIN_FAILURE [a@x.com]")
	logger.Warn("SECURITY - LOGOUT [u1]")

	out := buf.String()
	require.NotContains(t, out, "LOGIN_SUCCESS", "below WARN is dropped")
	require.NotContains(t, out, "disk almost full", "no marker is dropped")
	require.Contains(t, out, "LOGIN_FAILURE")
	require.Contains(t, out, "LOGOUT")
	require.Equal(t, 2, strings.Count(out, "\n"))
}

func TestConcurrentRecordsDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	l := audit.New(&buf)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Record(context.Background(), audit.Event{Kind: audit.KindLoginFailure, Email: "someone@example.com"})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 50)
	for _, line := range lines {
		require.True(t, strings.HasSuffix(line, "SECURITY - LOGIN_FAILURE [someone@example.com]"), line)
	}
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "lotto.log")
	sink := audit.NewFileSink(audit.FileConfig{Path: path, MaxSizeMB: 1, MaxBackups: 2})
	t.Cleanup(func() { _ = sink.Close() })

	l := audit.New(sink)
	require.NoError(t, l.Record(context.Background(), audit.Event{Kind: audit.KindUserRegistration, Email: "a@x.com"}))
	require.FileExists(t, path)
}
