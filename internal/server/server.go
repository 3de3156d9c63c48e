// Package server exposes pipeline assembly over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sourceplane/deploypipe/internal/assemble"
	"github.com/sourceplane/deploypipe/internal/ctxlog"
	"github.com/sourceplane/deploypipe/internal/model"
	"github.com/sourceplane/deploypipe/internal/normalize"
	"github.com/sourceplane/deploypipe/internal/render"
	"github.com/sourceplane/deploypipe/internal/schema"
	"github.com/sourceplane/deploypipe/internal/stacks"
)

const maxBodyBytes = 1 << 20

// Server assembles pipelines submitted as JSON configs
type Server struct {
	logger    *slog.Logger
	validator *schema.Validator
	renderer  *render.Renderer
}

// ErrorResponse is the body returned for rejected requests
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Stage string `json:"stage,omitempty"`
}

func New(logger *slog.Logger, validator *schema.Validator) *Server {
	return &Server{
		logger:    logger,
		validator: validator,
		renderer:  render.NewRenderer(),
	}
}

// Routes builds the HTTP handler
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/pipelines", s.handleAssemble)
	})
	return r
}

// POST /v1/pipelines -> assemble a pipeline from a JSON config
func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	var cfg model.PipelineConfig
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid pipeline config: " + err.Error()})
		return
	}

	if err := s.validator.ValidateConfig(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	resolved, err := normalize.NormalizeConfig(&cfg)
	if err != nil {
		s.writeAssemblyError(w, logger, err)
		return
	}

	ctx := ctxlog.WithLogger(r.Context(), logger)
	p, err := assemble.NewAssembler(stacks.NewDeclared(resolved)).AssembleResolved(ctx, resolved)
	if err != nil {
		s.writeAssemblyError(w, logger, err)
		return
	}

	logger.Info("Pipeline assembled.", "pipeline", p.Name, "stages", len(p.Stages))
	writeJSON(w, http.StatusOK, s.renderer.RenderPlan(model.Metadata{Name: p.Name}, resolved, p))
}

func (s *Server) writeAssemblyError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var cfgErr *model.ConfigurationError
	var delErr *model.DelegationError
	switch {
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: cfgErr.Field, Stage: cfgErr.Stage})
	case errors.As(err, &delErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Stage: delErr.Stage})
	default:
		logger.Error("Assembly failed.", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
