// Package api serves previews and remote execution over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/jmgilman/canvas/internal/preview"
	"github.com/jmgilman/canvas/internal/slogger"
)

const maxBodySize = 1 << 20

// previewManager is the subset of preview.Manager used here.
type previewManager interface {
	Create(ctx context.Context, title, language string) (*preview.Session, error)
	Get(idOrName string) (*preview.Session, error)
	Remove(ctx context.Context, id string) error
}

// executor is the subset of remote.Executor used here.
type executor interface {
	Execute(ctx context.Context, code, language string) artifact.ExecutionResult
}

// CreatePreviewRequest is the body of POST /api/previews.
type CreatePreviewRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"required"`
	Title    string `json:"title"`
}

// CreatePreviewResponse is returned once a preview has been accepted.
type CreatePreviewResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UpdateSourceRequest is the body of PUT /api/previews/{id}/source.
type UpdateSourceRequest struct {
	Code string `json:"code" validate:"required"`
}

// ExecuteRequest is the body of POST /api/execute.
type ExecuteRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server is the HTTP API. Preview lifecycles run in the background; call
// Wait after the HTTP server has shut down.
type Server struct {
	previews previewManager
	exec     executor
	validate *validator.Validate
	base     context.Context
	wg       sync.WaitGroup
}

// New creates a Server. Background work inherits the values of ctx.
// exec may be nil, in which case /api/execute answers 503.
func New(ctx context.Context, previews previewManager, exec executor) *Server {
	return &Server{
		previews: previews,
		exec:     exec,
		validate: validator.New(),
		base:     context.WithoutCancel(ctx),
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok")) //nolint:errcheck // client went away
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/execute", s.handleExecute)

		r.Route("/previews", func(r chi.Router) {
			r.Post("/", s.handleCreatePreview)
			r.Get("/{id}", s.handleGetPreview)
			r.Get("/{id}/events", s.handlePreviewEvents)
			r.Post("/{id}/retry", s.handleRetryPreview)
			r.Put("/{id}/source", s.handleUpdateSource)
			r.Delete("/{id}", s.handleDeletePreview)
		})
	})

	return r
}

// Wait blocks until background preview runs have returned.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) handleCreatePreview(w http.ResponseWriter, r *http.Request) {
	var req CreatePreviewRequest
	if !s.decode(w, r, &req) {
		return
	}

	art, err := artifact.FromCode(req.Title, req.Language, req.Code)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.previews.Create(r.Context(), art.Title, art.Language)
	if err != nil {
		slogger.L(r.Context()).Error("failed to create preview", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	slogger.L(r.Context()).Debug("previewing artifact", slog.String("artifact", art.ID.String()), slog.String("session", sess.ID()))

	s.background(func(ctx context.Context) error {
		return sess.Start(ctx, art.Main().Content, art.Language, art.Title)
	}, sess.ID())

	writeJSON(w, http.StatusAccepted, CreatePreviewResponse{ID: sess.ID(), Name: sess.Name()})
}

func (s *Server) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

// handlePreviewEvents streams session events as server-sent events until
// the session closes or the client disconnects.
func (s *Server) handlePreviewEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := sess.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleRetryPreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if phase := sess.Phase(); phase != preview.PhaseReady && phase != preview.PhaseError {
		writeError(w, http.StatusConflict, preview.ErrRetryNotAllowed.Error())
		return
	}

	s.background(sess.Retry, sess.ID())
	writeJSON(w, http.StatusAccepted, CreatePreviewResponse{ID: sess.ID(), Name: sess.Name()})
}

func (s *Server) handleUpdateSource(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req UpdateSourceRequest
	if !s.decode(w, r, &req) {
		return
	}

	if err := sess.Update(r.Context(), req.Code); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, preview.ErrClosed) {
			status = http.StatusGone
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeletePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := s.previews.Remove(r.Context(), sess.ID()); err != nil && !errors.Is(err, preview.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if s.exec == nil {
		writeError(w, http.StatusServiceUnavailable, "remote execution is not configured")
		return
	}
	var req ExecuteRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.exec.Execute(r.Context(), req.Code, req.Language))
}

// background runs fn detached from the request that started it.
func (s *Server) background(fn func(ctx context.Context) error, id string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(s.base); err != nil {
			slogger.L(s.base).Debug("preview run failed", slog.String("session", id), slog.Any("error", err))
		}
	}()
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*preview.Session, bool) {
	sess, err := s.previews.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
