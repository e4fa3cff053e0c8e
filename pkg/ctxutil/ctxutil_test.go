package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserID_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "alice")

	got, ok := UserIDFromCtx(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice", got)
}

func TestUserIDFromCtx_Missing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"empty context", context.Background()},
		{"blank id", WithUserID(context.Background(), "   ")},
		{"wrong type", context.WithValue(context.Background(), userIDKey, 42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := UserIDFromCtx(tt.ctx)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}

func TestRequestID_RoundTrip(t *testing.T) {
	t.Parallel()

	assert.Empty(t, RequestIDFromCtx(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromCtx(ctx))
}
