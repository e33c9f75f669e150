package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/orgview/internal/config"
	"github.com/dgallion1/orgview/internal/importer"
)

var (
	ErrQueueFull = errors.New("job queue is full")
	ErrStopped   = errors.New("pipeline stopped")
)

// Orchestrator manages the batch render pipeline.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *RenderStats
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex // guards stopped against sends on the closed queue
	stopped bool
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: NewRenderStats(0),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches cfg.WorkerCount workers and the TTL cleanup loop. They
// run until ctx is done or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	importers := importer.Config{PDFFallback: o.cfg.PDFFallbackPdftotext}
	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(importers, o.stats, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop cancels running renders, waits for the workers, fails jobs left
// in the queue and rejects further submissions. It is safe to call more
// than once.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()

	// Jobs still buffered never reached a worker.
	for job := range o.queue {
		job.SetFileData(nil)
		job.Fail("stopped", ErrStopped, 0)
	}
}

// Submit stores job and queues it without blocking. A job that cannot be
// queued is stored as failed so its status stays pollable.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		job.Fail("stopped", ErrStopped, 0)
		return ErrStopped
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full", ErrQueueFull, 0)
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns the stored job or nil once it expired.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth is the number of jobs waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the phase latency tracker shared by all workers.
func (o *Orchestrator) Stats() *RenderStats {
	return o.stats
}

// JobCounts returns the number of stored jobs per status.
func (o *Orchestrator) JobCounts() map[JobStatus]int {
	return o.jobs.Counts()
}
