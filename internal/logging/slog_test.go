package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("warn", &buf)
	require.NoError(t, err)
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn", "wallet", "w1")
	log.Error(ctx, "err", "txid", "abc")

	out := buf.String()
	assert.NotContains(t, out, "msg=dbg")
	assert.NotContains(t, out, "msg=inf")
	assert.Contains(t, out, "level=WARN msg=wrn wallet=w1")
	assert.Contains(t, out, "level=ERROR msg=err txid=abc")
}

func TestNew_DebugWritesEverything(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("DEBUG", &buf)
	require.NoError(t, err)

	log.Debug(context.TODO(), "dbg", "a", 1)
	assert.Contains(t, buf.String(), "level=DEBUG msg=dbg a=1")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" Warn ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
	_, err = New("loud", &bytes.Buffer{})
	require.Error(t, err)
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	require.NoError(t, err)

	child := log.With("component", "scan", "wallet", "w1")
	child.Info(context.Background(), "hello", "k", "v")

	for _, s := range []string{"level=INFO", "msg=hello", "component=scan", "wallet=w1", "k=v"} {
		assert.Contains(t, buf.String(), s)
	}
}

func TestDiscard(t *testing.T) {
	var l Logger = Discard()
	l.Error(context.Background(), "nowhere")
}
