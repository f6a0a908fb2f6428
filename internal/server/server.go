package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/pagesnap/pagesnap/docs/swagger" // generated API docs

	"github.com/pagesnap/pagesnap/internal/app"
	"github.com/pagesnap/pagesnap/internal/capture"
	"github.com/pagesnap/pagesnap/internal/history"
	"github.com/pagesnap/pagesnap/internal/logging"
	"github.com/pagesnap/pagesnap/internal/renderer"
)

// Server is the HTTP + WebSocket API surface for pagesnap.
type Server struct {
	cfg          Config
	orchestrator *app.Orchestrator
	router       chi.Router
	upgrader     websocket.Upgrader
	logger       logging.Logger
	hist         *history.Store
	rend         renderer.Renderer
}

// New creates a Server with its own renderer, history store and
// Orchestrator. The renderer backend named in the app config must already
// be registered.
func New(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	// Make sure storage root exists
	storageRoot, err := app.ExpandPath(cfg.AppConfig.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	cfg.AppConfig.StorageRoot = storageRoot
	if err := os.MkdirAll(storageRoot, 0755); err != nil {
		logger.Warn("creating storage root directory",
			logging.Field{Key: "path", Value: storageRoot},
			logging.Field{Key: "error", Value: err.Error()})
	}

	// The server always keeps history; that is what its read endpoints serve.
	histCfg := cfg.AppConfig.HistoryCfg
	if histCfg.Dir == "" {
		histCfg.Dir = filepath.Join(storageRoot, "history")
	}
	hist, err := history.NewStore(logger, histCfg)
	if err != nil {
		return nil, fmt.Errorf("creating history store: %w", err)
	}

	rend, err := renderer.NewRenderer(cfg.AppConfig.RendererCfg, logger)
	if err != nil {
		hist.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	capturer, err := capture.New(rend, hist, logger, cfg.AppConfig.CaptureCfg)
	if err != nil {
		hist.Close()
		rend.Close()
		return nil, fmt.Errorf("creating capturer: %w", err)
	}

	orch := app.NewOrchestrator(cfg.AppConfig, capturer, logger)

	r := chi.NewRouter()
	s := &Server{
		cfg:          cfg,
		orchestrator: orch,
		router:       r,
		logger:       logger,
		hist:         hist,
		rend:         rend,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

// Orchestrator returns the underlying orchestrator for advanced use (tests, etc.).
func (s *Server) Orchestrator() *app.Orchestrator {
	return s.orchestrator
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/captures", s.optionsHandler("GET, POST"))
	r.Options("/captures/{id}", s.optionsHandler("GET"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))
	r.Options("/ws/captures", s.optionsHandler("GET"))

	// Captures
	r.Post("/captures", s.handleSubmitCapture)
	r.Get("/captures", s.handleListCaptures)
	r.Get("/captures/{id}", s.handleGetCapture)

	// Jobs
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// Live capture over websocket
	r.Get("/ws/captures", s.handleCaptureWS)

	// API docs
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// ServeHTTP makes the server mountable in tests via httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start blocks serving the API on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = s.cfg.AppConfig.ListenAddr
	}
	s.logger.Info("api server listening", logging.Field{Key: "addr", Value: addr})
	return http.ListenAndServe(addr, s.router)
}

// Close releases the renderer and history store.
func (s *Server) Close() error {
	var firstErr error
	if err := s.rend.Close(); err != nil {
		firstErr = err
	}
	if err := s.hist.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// handleSubmitCapture godoc
// @Summary  Submit a capture job
// @Accept   json
// @Produce  json
// @Param    request body CaptureRequest true "capture request"
// @Success  202 {object} JobResponse
// @Failure  400 {object} ErrorResponse
// @Router   /captures [post]
func (s *Server) handleSubmitCapture(w http.ResponseWriter, r *http.Request) {
	var body CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	req := body.toCaptureRequest()
	// The job must outlive the submitting request, so it does not inherit
	// r.Context(); cancellation goes through DELETE /jobs/{jobID}.
	job, err := s.orchestrator.StartCaptureJob(context.Background(), req)
	if errors.Is(err, capture.ErrMissingURL) || errors.Is(err, capture.ErrMissingOutputPath) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusAccepted, newJobResponse(job))
}

// handleGetJob godoc
// @Summary  Get job status
// @Produce  json
// @Param    jobID path string true "job id"
// @Success  200 {object} JobResponse
// @Failure  404 {object} ErrorResponse
// @Router   /jobs/{jobID} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newJobResponse(job))
}

// handleCancelJob godoc
// @Summary  Cancel a running job
// @Produce  json
// @Param    jobID path string true "job id"
// @Success  200 {object} JobResponse
// @Failure  404 {object} ErrorResponse
// @Router   /jobs/{jobID} [delete]
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if s.orchestrator.GetJob(jobID) == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.orchestrator.CancelJob(jobID)

	// Snapshot again after cancelling; the pre-cancel one is stale.
	// Cancellation propagates through the job's context, so the status may
	// still read running until the worker observes it.
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, newJobResponse(job))
}

// handleListCaptures godoc
// @Summary  List past captures
// @Produce  json
// @Param    limit query int false "max records" default(100)
// @Success  200 {array} history.Record
// @Router   /captures [get]
func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	recs, err := s.hist.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []*history.Record{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

// handleGetCapture godoc
// @Summary  Get one capture record
// @Produce  json
// @Param    id path string true "record id"
// @Success  200 {object} history.Record
// @Failure  404 {object} ErrorResponse
// @Router   /captures/{id} [get]
func (s *Server) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.hist.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "capture not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleCaptureWS upgrades the connection, reads one capture request, starts
// the job and streams its events until the job reaches a terminal state.
func (s *Server) handleCaptureWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	var body CaptureRequest
	if err := conn.ReadJSON(&body); err != nil {
		_ = conn.WriteJSON(map[string]string{"error": fmt.Sprintf("invalid capture request: %v", err)})
		return
	}

	job, err := s.orchestrator.StartCaptureJob(r.Context(), body.toCaptureRequest())
	if err != nil {
		s.logger.Warn("starting capture job", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	s.logger.Info("started capture job", logging.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(newJobResponse(job))

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.orchestrator.CancelJob(job.ID)
			return
		}
	}
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encoding response", logging.Field{Key: "error", Value: err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
