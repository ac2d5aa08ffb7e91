package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_KeyValueFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	logger := FromZap(zap.New(core)).With("service", "challenge-league-api")

	logger.Warn("submit result failed", "challenge_id", "c1", "error", errors.New("boom"), 42, "odd", "dangling")

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	require.Equal(t, "challenge-league-api", ctx["service"])
	require.Equal(t, "c1", ctx["challenge_id"])
	require.Equal(t, "boom", ctx["error"])
	require.Equal(t, "odd", ctx[badKey])
	require.Contains(t, ctx, "dangling")
	require.Nil(t, ctx["dangling"])
}

func TestLogger_ContextAddsTraceIDs(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	logger := FromZap(zap.New(core))

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x0b},
		SpanID:     trace.SpanID{0x01},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "challenge created", "league_id", "spring-singles-2026")
	logger.InfoContext(context.Background(), "no span")
	logger.DebugContext(ctx, "below level")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, sc.TraceID().String(), entries[0].ContextMap()["trace_id"])
	require.Equal(t, sc.SpanID().String(), entries[0].ContextMap()["span_id"])
	require.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestNew_Formats(t *testing.T) {
	t.Parallel()

	var jsonOut bytes.Buffer
	New(Options{Level: LevelInfo, Format: FormatJSON, Output: &jsonOut}).Info("ranking recomputed", "league_id", "l1")

	var line map[string]any
	require.NoError(t, sonic.Unmarshal(jsonOut.Bytes(), &line))
	require.Equal(t, "ranking recomputed", line["msg"])
	require.Equal(t, "INFO", line["level"])
	require.Equal(t, "l1", line["league_id"])
	require.True(t, strings.HasPrefix(line["caller"].(string), "logging/logger_test.go"), line["caller"])

	var consoleOut bytes.Buffer
	New(Options{Level: LevelWarn, Format: FormatConsole, Output: &consoleOut}).Info("filtered")
	require.Zero(t, consoleOut.Len())
	New(Options{Level: LevelWarn, Format: FormatConsole, Output: &consoleOut}).Warn("slow client", "league_id", "l1")
	require.Contains(t, consoleOut.String(), "slow client")
	require.Contains(t, consoleOut.String(), `{"league_id": "l1"}`)
}

func TestNilLoggerUsesDefault(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	SetDefault(FromZap(zap.New(core)))
	t.Cleanup(func() { SetDefault(nil) })

	var logger *Logger
	logger.Info("from nil receiver")
	logger.With("k", "v").Info("derived")
	require.NoError(t, logger.Sync())

	require.Equal(t, 2, logs.Len())
	require.Equal(t, "v", logs.All()[1].ContextMap()["k"])
}
