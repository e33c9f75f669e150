package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/orgview/internal/config"
)

func waitForStatus(t *testing.T, job *Job, want JobStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if job.Snapshot().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not reach %q, last status %q", job.ID, want, job.Snapshot().Status)
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 10, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, testLogger())
	o.Start(context.Background())
	defer o.Stop()

	var jobs []*Job
	for _, name := range []string{"a.org", "b.txt", "c.csv"} {
		job := newTestJob(name, "k,v\n1,2\n", FormatHTML)
		if err := o.Submit(job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		jobs = append(jobs, job)
	}
	for _, job := range jobs {
		waitForStatus(t, job, StatusCompleted)
		if o.GetJob(job.ID) != job {
			t.Errorf("expected job %s to be retrievable", job.ID)
		}
	}
	if got := o.Stats().Snapshot().Renders(); got != 3 {
		t.Errorf("expected 3 latency samples, got %d", got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Not started, so nothing drains the queue.
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, testLogger())

	if err := o.Submit(newTestJob("a.org", "* A", FormatHTML)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}

	overflow := newTestJob("b.org", "* B", FormatHTML)
	err := o.Submit(overflow)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if snap := overflow.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("unexpected overflow state %q/%q", snap.Status, snap.Phase)
	}
	if o.GetJob(overflow.ID) == nil {
		t.Error("expected rejected job to stay visible")
	}
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, testLogger())
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	job := newTestJob("late.org", "* A", FormatHTML)
	if err := o.Submit(job); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "stopped" {
		t.Errorf("expected stopped failure, got %q/%q", snap.Status, snap.Phase)
	}
	if counts := o.JobCounts(); counts[StatusFailed] != 1 {
		t.Errorf("expected 1 failed job, got %v", counts)
	}
}

func TestOrchestrator_StopFailsQueuedJobs(t *testing.T) {
	// Never started, so both jobs are still buffered at Stop.
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, testLogger())

	var jobs []*Job
	for _, name := range []string{"a.org", "b.org"} {
		job := newTestJob(name, "* A", FormatHTML)
		if err := o.Submit(job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		jobs = append(jobs, job)
	}
	o.Stop()

	for _, job := range jobs {
		snap := job.Snapshot()
		if snap.Status != StatusFailed || snap.Phase != "stopped" {
			t.Errorf("expected %s to fail as stopped, got %q/%q", job.Filename, snap.Status, snap.Phase)
		}
		if len(snap.Errors) != 1 || snap.Errors[0] != ErrStopped.Error() {
			t.Errorf("expected ErrStopped message, got %v", snap.Errors)
		}
	}
	if o.QueueDepth() != 0 {
		t.Errorf("expected empty queue, got %d", o.QueueDepth())
	}
	if counts := o.JobCounts(); counts[StatusFailed] != 2 {
		t.Errorf("expected 2 failed jobs, got %v", counts)
	}
}
