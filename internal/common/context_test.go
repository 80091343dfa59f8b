package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWaitWithCancellation(t *testing.T) {
	assert.NoError(t, WaitWithCancellation(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := WaitWithCancellation(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestCheckCancellationWithLog(t *testing.T) {
	assert.NoError(t, CheckCancellationWithLog(context.Background(), zerolog.Nop(), "test"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, CheckCancellationWithLog(ctx, zerolog.Nop(), "test"), context.Canceled)
}

func TestIsContextError(t *testing.T) {
	assert.True(t, IsContextError(context.Canceled))
	assert.True(t, IsContextError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.False(t, IsContextError(errors.New("other")))
	assert.False(t, IsContextError(nil))
}

func TestBufferPool(t *testing.T) {
	pool := NewBufferPool(16)

	buf := pool.Get()
	assert.Equal(t, 0, buf.Len())
	buf.WriteString("rapid cluj")
	pool.Put(buf)

	again := pool.Get()
	assert.Equal(t, 0, again.Len())

	big := pool.Get()
	big.Grow(1024)
	pool.Put(big) // dropped, must not panic
	pool.Put(nil)
}
