package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/Abraxas-365/hrportal/recruitment/resume/resumeinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	mu   sync.Mutex
	seen []string
}

func (p *countingProcessor) ProcessJob(_ context.Context, job *resume.ParseJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, job.FileName)
	return nil
}

func (p *countingProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func TestPoolProcessesQueuedJobs(t *testing.T) {
	queue := resumeinfra.NewMemoryQueue()
	proc := &countingProcessor{}
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, queue.Enqueue(ctx, resume.NewParseJob("app", "k", name, "application/pdf", 3)))
	}

	pool := NewPool(proc, queue, config.WorkerConfig{Concurrency: 2, DequeueTimeout: 20 * time.Millisecond})
	require.NoError(t, pool.Start(ctx))

	assert.Eventually(t, func() bool { return proc.count() == 3 }, 2*time.Second, 10*time.Millisecond)
	pool.Stop()
	assert.ElementsMatch(t, []string{"a.pdf", "b.pdf", "c.pdf"}, proc.seen)
}

func TestPoolRunsSweeps(t *testing.T) {
	queue := resumeinfra.NewMemoryQueue()
	pool := NewPool(&countingProcessor{}, queue, config.WorkerConfig{DequeueTimeout: 20 * time.Millisecond})

	var runs atomic.Int32
	pool.AddSweep("count", "@every 1s", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, pool.Start(context.Background()))
	defer pool.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestPoolMovesDelayedJobs(t *testing.T) {
	queue := resumeinfra.NewMemoryQueue()
	proc := &countingProcessor{}
	ctx := context.Background()
	require.NoError(t, queue.EnqueueDelayed(ctx, resume.NewParseJob("app", "k", "late.pdf", "application/pdf", 3), 0))

	pool := NewPool(proc, queue, config.WorkerConfig{DequeueTimeout: 20 * time.Millisecond, DelayedSweep: "@every 1s"})
	require.NoError(t, pool.Start(ctx))
	defer pool.Stop()

	assert.Eventually(t, func() bool { return proc.count() == 1 }, 3*time.Second, 50*time.Millisecond)
}

func TestPoolRejectsBadSpec(t *testing.T) {
	pool := NewPool(&countingProcessor{}, resumeinfra.NewMemoryQueue(), config.WorkerConfig{})
	pool.AddSweep("bad", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, pool.Start(context.Background()))
}
