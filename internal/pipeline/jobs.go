package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/orgview/internal/org"
	"github.com/dgallion1/orgview/internal/render"
)

// JobStatus represents the state of a render job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusImporting JobStatus = "importing"
	StatusParsing   JobStatus = "parsing"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the state of a single document render.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`
	Format   Format    `json:"format"`
	Title    string    `json:"title"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData  []byte
	options   org.Options
	export    render.ExportOptions
	output    *Output
	errors    []string
	errorLine int
	duration  time.Duration
}

// NewJob creates a queued job for one uploaded file.
func NewJob(filename string, data []byte, format Format, opts org.Options, export render.ExportOptions) *Job {
	now := time.Now()
	return &Job{
		ID:        NewID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Format:    format,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
		options:   opts.Clone(),
		export:    export,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// Counts returns the number of stored jobs per status.
func (s *JobStore) Counts() map[JobStatus]int {
	s.mu.Lock()
	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	s.mu.Unlock()

	counts := make(map[JobStatus]int)
	for _, job := range jobs {
		job.mu.Lock()
		counts[job.Status]++
		job.mu.Unlock()
	}
	return counts
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Fail records err and marks the job failed in phase. Parse errors also
// record their source line.
func (j *Job) Fail(phase string, err error, line int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err.Error())
	if line > 0 {
		j.errorLine = line
	}
	j.Status = StatusFailed
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

func (j *Job) setContentHash(h string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ContentHash = h
}

// complete stores the output, drops the upload and marks the job done.
func (j *Job) complete(out *Output, d time.Duration) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.output = out
	j.Title = out.Result.Title
	j.duration = d
	j.fileData = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Output returns the render output, nil until the job completes.
func (j *Job) Output() *Output {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.output
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Format      Format    `json:"format"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash,omitempty"`
	Errors      []string  `json:"errors"`
	ErrorLine   int       `json:"error_line,omitempty"`
	DurationUs  int64     `json:"duration_us"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Format:      j.Format,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		Errors:      errs,
		ErrorLine:   j.errorLine,
		DurationUs:  j.duration.Microseconds(),
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
