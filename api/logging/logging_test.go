package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithRequestID_AttachesAndReads(t *testing.T) {
	ctx, id := WithRequestID(context.Background())
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestID(ctx))
}

func TestRequestID_MissingIsEmpty(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}

func TestWithRequestID_DistinctPerCall(t *testing.T) {
	_, a := WithRequestID(context.Background())
	_, b := WithRequestID(context.Background())
	assert.NotEqual(t, a, b)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
