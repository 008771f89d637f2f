package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/infrasim/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.LevelTrace, logging.ParseLevel("TRACE"))
	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, logging.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("bogus"))
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(logging.LevelTrace, &buf)

	log.Error("push failed", "error", errors.New("boom"))
	log.Log(context.Background(), logging.LevelTrace, "transition")

	out := buf.String()
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "level=TRACE")
}

func TestNewWithWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logging.NewWithWriter(slog.LevelWarn, &buf).Info("hidden")
	assert.Empty(t, buf.String())
}
