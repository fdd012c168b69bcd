package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	require.NoError(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(50), c.MemoryUsage())

	require.NoError(t, c.TryAcquireMemory(50))
	assert.Equal(t, int64(100), c.MemoryUsage())

	assert.ErrorIs(t, c.TryAcquireMemory(1), ErrMemoryLimitExceeded)

	c.ReleaseMemory(60)
	assert.Equal(t, int64(40), c.MemoryUsage())
	require.NoError(t, c.TryAcquireMemory(60))

	assert.Equal(t, int64(100), c.MemoryLimit())
}

func TestControllerMemoryBlocking(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 10})

	require.NoError(t, c.AcquireMemory(context.Background(), 10))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.AcquireMemory(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(10), c.MemoryUsage())
}

func TestControllerMemoryUnlimited(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.TryAcquireMemory(1 << 40))
	assert.Equal(t, int64(1<<40), c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())

	c.ReleaseMemory(1 << 40)
	assert.Zero(t, c.MemoryUsage())
}

func TestControllerJobs(t *testing.T) {
	c := NewController(Config{MaxConcurrentJobs: 2})

	require.True(t, c.TryAcquireJob())
	require.True(t, c.TryAcquireJob())
	assert.False(t, c.TryAcquireJob())

	c.ReleaseJob()
	assert.True(t, c.TryAcquireJob())
}

func TestControllerJobsDefault(t *testing.T) {
	c := NewController(Config{})

	require.NoError(t, c.AcquireJob(context.Background()))
	assert.False(t, c.TryAcquireJob())
	c.ReleaseJob()
}

func TestControllerIO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})

	// The burst equals the per-second limit, so the first 1000 bytes pass.
	assert.True(t, c.TryAcquireIO(1000))
	assert.False(t, c.TryAcquireIO(1000))

	unlimited := NewController(Config{})
	assert.True(t, unlimited.TryAcquireIO(1<<30))
}

func TestControllerNil(t *testing.T) {
	var c *Controller

	assert.NoError(t, c.TryAcquireMemory(10))
	assert.NoError(t, c.AcquireMemory(context.Background(), 10))
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
	assert.Zero(t, c.MemoryLimit())

	assert.NoError(t, c.AcquireJob(context.Background()))
	assert.True(t, c.TryAcquireJob())
	c.ReleaseJob()

	assert.NoError(t, c.AcquireIO(context.Background(), 10))
	assert.True(t, c.TryAcquireIO(10))
}

func TestRateLimitedWriter(t *testing.T) {
	var buf bytes.Buffer

	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	w := NewRateLimitedWriter(context.Background(), &buf, c)

	n, err := w.Write([]byte("archive frame"))
	require.NoError(t, err)
	assert.Equal(t, 13, n)
	assert.Equal(t, "archive frame", buf.String())
}

func TestRateLimitedWriterCanceled(t *testing.T) {
	var buf bytes.Buffer

	c := NewController(Config{IOLimitBytesPerSec: 1})

	ctx, cancel := context.WithCancel(context.Background())
	w := NewRateLimitedWriter(ctx, &buf, c)

	_, err := w.Write([]byte("x"))
	require.NoError(t, err)

	// The burst is exhausted, so the second write must wait and observes
	// the cancellation instead.
	cancel()

	_, err = w.Write([]byte("y"))
	assert.Error(t, err)
	assert.Equal(t, "x", buf.String())
}
