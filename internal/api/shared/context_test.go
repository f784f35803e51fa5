package shared

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	withTrace := SetTraceID(ctx)
	traceID := GetTraceID(withTrace)
	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	// Parent context is unchanged
	assert.Empty(t, GetTraceID(ctx))
}

func TestWithTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "client-supplied-id")
	assert.Equal(t, "client-supplied-id", GetTraceID(ctx))

	ctx = WithTraceID(context.Background(), "")
	assert.Len(t, GetTraceID(ctx), 32)

	ctx = WithTraceID(context.Background(), strings.Repeat("a", MaxTraceIDLength+1))
	assert.Len(t, GetTraceID(ctx), 32)
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	require.True(t, ok)
	assert.Equal(t, id, got)
}

func TestTraceIDUniqueness(t *testing.T) {
	const iterations = 1000
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateTraceID()
		assert.False(t, seen[id], "duplicate trace ID %s", id)
		seen[id] = true
	}
}

func TestFallbackTraceIDUniqueness(t *testing.T) {
	const iterations = 100
	seen := make(map[string]bool, iterations)
	for i := 0; i < iterations; i++ {
		id := generateFallbackTraceID()
		assert.Len(t, id, 32)
		_, err := hex.DecodeString(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate fallback trace ID %s", id)
		seen[id] = true
	}
}
