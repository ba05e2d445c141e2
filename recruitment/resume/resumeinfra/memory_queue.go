package resumeinfra

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/hrportal/recruitment/resume"
)

// MemoryQueue is an in-process resume.JobQueue for tests and single-binary
// local runs.
type MemoryQueue struct {
	mu      sync.Mutex
	ready   []*resume.ParseJob
	delayed []delayedJob
	signal  chan struct{}
	now     func() time.Time
}

type delayedJob struct {
	job *resume.ParseJob
	due time.Time
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{signal: make(chan struct{}, 1), now: time.Now}
}

func clone(job *resume.ParseJob) *resume.ParseJob {
	c := *job
	return &c
}

func (q *MemoryQueue) Enqueue(_ context.Context, job *resume.ParseJob) error {
	q.mu.Lock()
	q.ready = append(q.ready, clone(job))
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

func (q *MemoryQueue) pop() *resume.ParseJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.ready) == 0 {
		return nil
	}
	job := q.ready[0]
	q.ready = q.ready[1:]
	return job
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (*resume.ParseJob, error) {
	if job := q.pop(); job != nil {
		return job, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			return q.pop(), nil
		case <-q.signal:
			if job := q.pop(); job != nil {
				return job, nil
			}
		}
	}
}

func (q *MemoryQueue) EnqueueDelayed(_ context.Context, job *resume.ParseJob, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.delayed = append(q.delayed, delayedJob{job: clone(job), due: q.now().Add(delay)})
	return nil
}

func (q *MemoryQueue) MoveDelayedToReady(ctx context.Context) (int, error) {
	q.mu.Lock()
	now := q.now()
	var due []*resume.ParseJob
	kept := q.delayed[:0]
	for _, d := range q.delayed {
		if !d.due.After(now) {
			due = append(due, d.job)
		} else {
			kept = append(kept, d)
		}
	}
	q.delayed = kept
	q.mu.Unlock()

	for _, job := range due {
		if err := q.Enqueue(ctx, job); err != nil {
			return 0, err
		}
	}
	return len(due), nil
}

func (q *MemoryQueue) Stats(_ context.Context) (resume.QueueStats, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return resume.QueueStats{Ready: int64(len(q.ready)), Delayed: int64(len(q.delayed))}, nil
}

func (q *MemoryQueue) Clear(_ context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ready = nil
	q.delayed = nil
	return nil
}
