package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagesnap/pagesnap/internal/capture"
	"github.com/pagesnap/pagesnap/internal/logging"
)

type JobEventType string

const (
	JobEventStatus JobEventType = "status"
	JobEventResult JobEventType = "result"
)

type JobEvent struct {
	JobID string       `json:"job_id"`
	Type  JobEventType `json:"type"`

	// For status changes
	Status JobStatus `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`

	// For results
	Outcome *capture.Outcome `json:"outcome,omitempty"`
}

type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobRunning  JobStatus = "running"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
	JobCanceled JobStatus = "canceled"
)

type Job struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Status    JobStatus     `json:"status"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Events    chan JobEvent `json:"-"`

	// Optional result:
	Outcome *capture.Outcome `json:"outcome,omitempty"`
}

// Orchestrator runs capture jobs asynchronously and tracks their state.
type Orchestrator struct {
	cfg      *Config
	capturer *capture.Capturer
	logger   logging.Logger

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
}

// NewOrchestrator ties together config, capturer and logger.
func NewOrchestrator(cfg *Config, capturer *capture.Capturer, logger logging.Logger) *Orchestrator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Orchestrator{
		cfg:      cfg,
		capturer: capturer,
		logger:   logger,
	}
}

func (o *Orchestrator) ensureJobMaps() {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
}

func (o *Orchestrator) emitJobEvent(jobID string, ev JobEvent) {
	o.jobsMu.Lock()
	job, ok := o.jobs[jobID]
	o.jobsMu.Unlock()
	if !ok || job == nil || job.Events == nil {
		return
	}

	// Non-blocking send; drop if buffer is full.
	select {
	case job.Events <- ev:
	default:
	}
}

func (o *Orchestrator) setJob(job *Job) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobs == nil {
		o.jobs = make(map[string]*Job)
	}
	o.jobs[job.ID] = job
}

func (o *Orchestrator) setCancel(jobID string, cancel context.CancelFunc) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if o.jobCancels == nil {
		o.jobCancels = make(map[string]context.CancelFunc)
	}
	o.jobCancels[jobID] = cancel
}

func (o *Orchestrator) deleteCancel(jobID string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	delete(o.jobCancels, jobID)
}

// StartCaptureJob begins an asynchronous capture and returns immediately.
// Job state transitions and the final outcome are mirrored on Job.Events,
// which is closed when the job reaches a terminal state. The returned Job
// is a detached snapshot; the worker goroutine never writes to it, so
// callers can read and serialize it freely. Current state comes from
// GetJob.
func (o *Orchestrator) StartCaptureJob(ctx context.Context, req *capture.Request) (*Job, error) {
	if o.capturer == nil {
		return nil, errors.New("orchestrator: no capturer configured")
	}
	// Reject incomplete requests here so no job (and no browser) is ever
	// spawned for them.
	if req == nil || strings.TrimSpace(req.URL) == "" {
		return nil, capture.ErrMissingURL
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, capture.ErrMissingOutputPath
	}
	o.ensureJobMaps()

	jobID := uuid.New().String()
	now := time.Now().UTC()

	job := &Job{
		ID:        jobID,
		URL:       req.URL,
		Status:    JobPending,
		StartedAt: now,
		Events:    make(chan JobEvent, 16),
	}

	o.setJob(job)

	jobCtx, cancel := context.WithCancel(ctx)
	o.setCancel(jobID, cancel)

	o.emitJobEvent(jobID, JobEvent{
		JobID:  jobID,
		Type:   JobEventStatus,
		Status: JobPending,
	})

	// Snapshot before the worker starts: the goroutine mutates the tracked
	// job, never this copy. Events is the shared live channel.
	snap := *job

	go func() {
		defer func() {
			o.jobsMu.Lock()
			j := o.jobs[jobID]
			if j != nil {
				j.EndedAt = time.Now().UTC()
			}
			o.jobsMu.Unlock()
			o.deleteCancel(jobID)

			// Close events channel so websocket loops terminate cleanly
			if j != nil && j.Events != nil {
				close(j.Events)
			}
		}()

		o.setStatus(jobID, JobRunning, "")
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobRunning})

		outcome, err := o.capturer.Capture(jobCtx, req)
		if err != nil {
			status := JobFailed
			if jobCtx.Err() != nil {
				status = JobCanceled
			}
			o.setStatus(jobID, status, err.Error())
			o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: status, Error: err.Error()})
			if o.logger != nil {
				o.logger.Error("capture job failed",
					logging.Field{Key: "job_id", Value: jobID},
					logging.Field{Key: "url", Value: req.URL},
					logging.Field{Key: "error", Value: err.Error()})
			}
			return
		}

		o.jobsMu.Lock()
		if j, ok := o.jobs[jobID]; ok {
			j.Status = JobDone
			j.Outcome = outcome
		}
		o.jobsMu.Unlock()

		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventResult, Outcome: outcome})
		o.emitJobEvent(jobID, JobEvent{JobID: jobID, Type: JobEventStatus, Status: JobDone})

		if o.logger != nil {
			o.logger.Info("capture job done",
				logging.Field{Key: "job_id", Value: jobID},
				logging.Field{Key: "output", Value: outcome.OutputPath})
		}
	}()

	return &snap, nil
}

func (o *Orchestrator) setStatus(jobID string, status JobStatus, errMsg string) {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	if j, ok := o.jobs[jobID]; ok {
		j.Status = status
		j.Error = errMsg
	}
}

// GetJob returns a snapshot copy of the job, or nil if unknown.
func (o *Orchestrator) GetJob(jobID string) *Job {
	o.jobsMu.Lock()
	defer o.jobsMu.Unlock()
	j, ok := o.jobs[jobID]
	if !ok {
		return nil
	}
	cp := *j
	cp.Events = nil
	return &cp
}

// CancelJob cancels a running job. Unknown IDs are a no-op.
func (o *Orchestrator) CancelJob(jobID string) {
	o.jobsMu.Lock()
	cancel := o.jobCancels[jobID]
	o.jobsMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Shutdown cancels all in-flight jobs.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.jobsMu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.jobCancels))
	for _, c := range o.jobCancels {
		cancels = append(cancels, c)
	}
	o.jobsMu.Unlock()

	for _, c := range cancels {
		c()
	}
	return nil
}
