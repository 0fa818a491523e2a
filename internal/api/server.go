// Package api exposes the analysis pipeline over HTTP. The surface is
// four routes plus the clip file server; request and response bodies
// are JSON matching the model package.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/rmehta/equinews/internal/model"
	"github.com/rmehta/equinews/internal/pipeline"
	"github.com/rmehta/equinews/internal/speech"
)

// analyzeTimeout bounds one full pipeline run. Every external call
// inside the run has its own shorter timeout, so hitting this one means
// something is wedged.
const analyzeTimeout = 3 * time.Minute

// Server is the HTTP front end.
type Server struct {
	cfg      *model.Config
	pipeline *pipeline.Pipeline
	store    *speech.Store
	log      *logrus.Entry
	http     *http.Server
}

// New creates the server; Run starts it.
func New(cfg *model.Config, p *pipeline.Pipeline, store *speech.Store, log *logrus.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		pipeline: p,
		store:    store,
		log:      log.WithField("component", "api"),
	}

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Routes builds the router. Exposed separately so tests can mount it on
// an httptest server.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(analyzeTimeout + 10*time.Second))

	origins := s.cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/companies", s.handleCompanies)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/tts", s.handleTTS)

	r.Get("/static/audio/*", s.handleClip)

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("http server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Version is stamped by the build; the CLI sets it at startup.
var Version = "dev"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: Version})
}

type companiesResponse struct {
	Companies []string `json:"companies"`
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, companiesResponse{Companies: s.cfg.Companies})
}

type analyzeRequest struct {
	CompanyName string `json:"company_name"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" {
		s.writeError(w, http.StatusBadRequest, model.CodeInvalidInput, "company_name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := s.pipeline.Analyze(ctx, req.CompanyName)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

type ttsRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, model.CodeInvalidInput, "text is required")
		return
	}

	audio, err := s.pipeline.Speak(r.Context(), req.Text, req.Language)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, audio)
}

// handleClip serves a rendered audio clip. The store validates the URL,
// so only clip files inside the audio directory are reachable.
func (s *Server) handleClip(w http.ResponseWriter, r *http.Request) {
	path, err := s.store.Open(r.URL.Path)
	if err != nil {
		s.writeError(w, http.StatusNotFound, model.CodeInvalidInput, "unknown clip")
		return
	}
	http.ServeFile(w, r, path)
}

type errorResponse struct {
	Error string          `json:"error"`
	Code  model.ErrorCode `json:"code"`
}

func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	code := model.CodeOf(err)

	status := http.StatusInternalServerError
	if code == model.CodeInvalidInput {
		status = http.StatusBadRequest
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = http.StatusGatewayTimeout
		code = model.CodeInternalError
	}

	s.log.WithFields(logrus.Fields{
		"path":   r.URL.Path,
		"code":   code,
		"status": status,
	}).WithError(err).Error("request failed")

	s.writeError(w, status, code, err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, code model.ErrorCode, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, model.CodeInvalidInput, "malformed request body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("write response failed")
	}
}
