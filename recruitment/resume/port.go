package resume

import (
	"context"
	"time"
)

// Parser turns a resume file into structured data.
type Parser interface {
	Parse(ctx context.Context, doc Document) (*ParsedResume, error)
	// Name identifies the backend in logs and metrics.
	Name() string
}

// JobQueue carries parse jobs to the workers.
type JobQueue interface {
	// Enqueue adds a job to the ready queue.
	Enqueue(ctx context.Context, job *ParseJob) error

	// Dequeue blocks up to timeout for a job. It returns nil, nil on timeout.
	Dequeue(ctx context.Context, timeout time.Duration) (*ParseJob, error)

	// EnqueueDelayed schedules a retry.
	EnqueueDelayed(ctx context.Context, job *ParseJob, delay time.Duration) error

	// MoveDelayedToReady promotes due retries and returns how many moved.
	MoveDelayedToReady(ctx context.Context) (int, error)

	Stats(ctx context.Context) (QueueStats, error)

	// Clear drops every pending job.
	Clear(ctx context.Context) error
}
