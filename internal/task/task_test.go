package task_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okonkwolabs/kasuwa/internal/task"
	"github.com/stretchr/testify/assert"
)

func TestAfter_Runs(t *testing.T) {
	var ran atomic.Bool
	h := task.After(context.Background(), 10*time.Millisecond, func(ctx context.Context) {
		ran.Store(true)
	})

	h.Wait()
	assert.True(t, ran.Load())
	assert.True(t, h.Done())
}

func TestAfter_CancelBeforeFire(t *testing.T) {
	var ran atomic.Bool
	h := task.After(context.Background(), 500*time.Millisecond, func(ctx context.Context) {
		ran.Store(true)
	})

	h.Cancel()
	h.Wait()
	assert.False(t, ran.Load())
}

func TestAfter_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	h := task.After(ctx, 500*time.Millisecond, func(ctx context.Context) {
		ran.Store(true)
	})

	cancel()
	h.Wait()
	assert.False(t, ran.Load())
}

func TestEvery_RunsUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	h := task.Every(context.Background(), 5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	h.Cancel()
	h.Wait()

	after := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestCancel_Idempotent(t *testing.T) {
	h := task.Every(context.Background(), time.Hour, func(ctx context.Context) {})
	h.Cancel()
	h.Cancel()
	h.Wait()
	assert.True(t, h.Done())
}
