package server

import (
	"time"

	"github.com/pagesnap/pagesnap/internal/app"
	"github.com/pagesnap/pagesnap/internal/capture"
)

// CaptureRequest is the JSON body accepted by POST /captures and the
// websocket endpoint.
type CaptureRequest struct {
	URL        string `json:"url"`
	OutputPath string `json:"output_path"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	BudgetMS   int    `json:"budget_ms,omitempty"`
}

func (c *CaptureRequest) toCaptureRequest() *capture.Request {
	return &capture.Request{
		URL:        c.URL,
		OutputPath: c.OutputPath,
		Width:      c.Width,
		Height:     c.Height,
		BudgetMS:   c.BudgetMS,
	}
}

// JobResponse is a snapshot of a capture job.
type JobResponse struct {
	ID        string           `json:"id"`
	URL       string           `json:"url"`
	Status    app.JobStatus    `json:"status"`
	Error     string           `json:"error,omitempty"`
	StartedAt time.Time        `json:"started_at"`
	EndedAt   time.Time        `json:"ended_at,omitempty"`
	Outcome   *capture.Outcome `json:"outcome,omitempty"`
}

func newJobResponse(j *app.Job) JobResponse {
	return JobResponse{
		ID:        j.ID,
		URL:       j.URL,
		Status:    j.Status,
		Error:     j.Error,
		StartedAt: j.StartedAt,
		EndedAt:   j.EndedAt,
		Outcome:   j.Outcome,
	}
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
