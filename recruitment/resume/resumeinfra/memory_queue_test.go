package resumeinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueueFIFOAndTimeout(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()

	require.NoError(t, q.Enqueue(ctx, &resume.ParseJob{ID: "a"}))
	require.NoError(t, q.Enqueue(ctx, &resume.ParseJob{ID: "b"}))

	job, err := q.Dequeue(ctx, time.Millisecond)
	require.NoError(t, err)
	assert.EqualValues(t, "a", job.ID)
	job, _ = q.Dequeue(ctx, time.Millisecond)
	assert.EqualValues(t, "b", job.ID)

	job, err = q.Dequeue(ctx, 5*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestMemoryQueueDequeueWakesOnEnqueue(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = q.Enqueue(ctx, &resume.ParseJob{ID: "late"})
	}()

	job, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.EqualValues(t, "late", job.ID)
}

func TestMemoryQueueDelayed(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	q := NewMemoryQueue()
	q.now = func() time.Time { return now }

	require.NoError(t, q.EnqueueDelayed(ctx, &resume.ParseJob{ID: "retry"}, 2*time.Minute))
	moved, err := q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Zero(t, moved)

	stats, _ := q.Stats(ctx)
	assert.Equal(t, resume.QueueStats{Ready: 0, Delayed: 1}, stats)

	now = now.Add(3 * time.Minute)
	moved, err = q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	stats, _ = q.Stats(ctx)
	assert.Equal(t, resume.QueueStats{Ready: 1, Delayed: 0}, stats)

	require.NoError(t, q.Clear(ctx))
	stats, _ = q.Stats(ctx)
	assert.Zero(t, stats.Ready)
}
