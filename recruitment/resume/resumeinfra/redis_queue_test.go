package resumeinfra

import (
	"context"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisQueue(t *testing.T) (*RedisQueue, *time.Time) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := NewRedisQueue(client, "test:resume_parse")
	q.now = func() time.Time { return clock }
	require.NoError(t, q.Ping(context.Background()))
	return q, &clock
}

func TestRedisQueueRoundTrip(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestRedisQueue(t)

	job := resume.NewParseJob("app-1", "resumes/app-1/cv.pdf", "cv.pdf", "application/pdf", 3)
	require.NoError(t, q.Enqueue(ctx, job))
	require.NoError(t, q.Enqueue(ctx, &resume.ParseJob{ID: "second", ApplicationID: "app-2"}))

	got, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.FilePath, got.FilePath)
	assert.Equal(t, 3, got.MaxAttempts)

	got, err = q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, "second", got.ID)
}

func TestRedisQueueMovesOnlyDueJobs(t *testing.T) {
	ctx := context.Background()
	q, clock := newTestRedisQueue(t)

	require.NoError(t, q.EnqueueDelayed(ctx, &resume.ParseJob{ID: "soon", AttemptCount: 1}, 2*time.Minute))
	require.NoError(t, q.EnqueueDelayed(ctx, &resume.ParseJob{ID: "later", AttemptCount: 2}, 4*time.Minute))

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, resume.QueueStats{Ready: 0, Delayed: 2}, stats)

	moved, err := q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Zero(t, moved)

	*clock = clock.Add(3 * time.Minute)
	moved, err = q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	stats, err = q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, resume.QueueStats{Ready: 1, Delayed: 1}, stats)

	got, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.EqualValues(t, "soon", got.ID)
	assert.Equal(t, 1, got.AttemptCount)

	// A second mover at the same instant finds nothing left to move.
	moved, err = q.MoveDelayedToReady(ctx)
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestRedisQueueClear(t *testing.T) {
	ctx := context.Background()
	q, _ := newTestRedisQueue(t)

	require.NoError(t, q.Enqueue(ctx, &resume.ParseJob{ID: "a"}))
	require.NoError(t, q.EnqueueDelayed(ctx, &resume.ParseJob{ID: "b"}, time.Minute))
	require.NoError(t, q.Clear(ctx))

	stats, err := q.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, resume.QueueStats{}, stats)
}
