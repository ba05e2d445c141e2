package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/robfig/cron/v3"
)

// Processor handles one dequeued parse job.
type Processor interface {
	ProcessJob(ctx context.Context, job *resume.ParseJob) error
}

// SweepFunc is a periodic maintenance task run by the pool's scheduler.
type SweepFunc func(ctx context.Context) error

type sweep struct {
	name string
	spec string
	fn   SweepFunc
}

// Pool runs parse workers and scheduled sweeps until stopped.
type Pool struct {
	processor      Processor
	queue          resume.JobQueue
	concurrency    int
	dequeueTimeout time.Duration
	sweeps         []sweep

	scheduler *cron.Cron
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

func NewPool(processor Processor, queue resume.JobQueue, cfg config.WorkerConfig) *Pool {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	timeout := cfg.DequeueTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &Pool{
		processor:      processor,
		queue:          queue,
		concurrency:    concurrency,
		dequeueTimeout: timeout,
		scheduler:      cron.New(),
	}
	if cfg.DelayedSweep != "" {
		p.AddSweep("move_delayed_jobs", cfg.DelayedSweep, p.moveDelayedJobs)
	}
	return p
}

// AddSweep schedules fn with a cron spec ("@every 30s", "0 8 * * *"). It must
// be called before Start.
func (p *Pool) AddSweep(name, spec string, fn SweepFunc) {
	p.sweeps = append(p.sweeps, sweep{name: name, spec: spec, fn: fn})
}

// Start launches the workers and the scheduler. It returns an error when a
// sweep spec does not parse.
func (p *Pool) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	for _, s := range p.sweeps {
		s := s
		if _, err := p.scheduler.AddFunc(s.spec, func() { p.runSweep(ctx, s) }); err != nil {
			cancel()
			return err
		}
	}
	p.cancel = cancel

	logx.Info("starting resume workers",
		logx.Int("workers", p.concurrency),
		logx.Int("sweeps", len(p.sweeps)))

	p.scheduler.Start()
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.processJobs(ctx, i)
	}
	return nil
}

// Stop cancels the workers and waits for in-flight jobs and sweeps.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.scheduler.Stop().Done()
	p.wg.Wait()
	logx.Info("resume workers stopped")
}

func (p *Pool) processJobs(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		job, err := p.queue.Dequeue(ctx, p.dequeueTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			logx.Error("dequeue failed", logx.Int("worker", workerID), logx.Err(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}

		if err := p.processor.ProcessJob(ctx, job); err != nil {
			logx.Warn("parse job did not complete",
				logx.Int("worker", workerID),
				logx.String("job_id", string(job.ID)),
				logx.Err(err))
		}
	}
}

func (p *Pool) runSweep(ctx context.Context, s sweep) {
	if ctx.Err() != nil {
		return
	}
	if err := s.fn(ctx); err != nil {
		logx.Error("sweep failed", logx.String("sweep", s.name), logx.Err(err))
	}
}

func (p *Pool) moveDelayedJobs(ctx context.Context) error {
	moved, err := p.queue.MoveDelayedToReady(ctx)
	if err != nil {
		return err
	}
	if moved > 0 {
		logx.Info("moved delayed parse jobs to ready queue", logx.Int("count", moved))
	}
	return nil
}
