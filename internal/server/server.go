// Package server exposes a board over a small JSON API.
//
//	GET    /healthz
//	GET    /api/v1/layout?width=&height=   current view, resizing first when a size is given
//	DELETE /api/v1/layout                  drop the manual layout of the current mode
//	POST   /api/v1/interactions            {"kind":"drag|resize","id":"..."}
//	PUT    /api/v1/interactions            {"layout":[...]} intermediate proposal
//	POST   /api/v1/interactions/stop       {"layout":[...]} final proposal
//	DELETE /api/v1/interactions            cancel
//	GET    /api/v1/status                  live status table
//
// Errors are returned as {"error": "...", "code": "..."} with the status from
// [swerrors.HTTPStatus].
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/streamwall/pkg/board"
	"github.com/matzehuels/streamwall/pkg/buildinfo"
	swerrors "github.com/matzehuels/streamwall/pkg/errors"
	"github.com/matzehuels/streamwall/pkg/grid"
	"github.com/matzehuels/streamwall/pkg/live"
	"github.com/matzehuels/streamwall/pkg/session"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithStatuses serves the given live table on /api/v1/status.
func WithStatuses(s *live.Statuses) Option {
	return func(srv *Server) { srv.statuses = s }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) {
		if l != nil {
			srv.logger = l
		}
	}
}

// Server serializes API requests onto one board.
type Server struct {
	mu       sync.Mutex
	board    *board.Board
	statuses *live.Statuses
	logger   *log.Logger
	router   chi.Router
}

// New builds the router for b.
func New(b *board.Board, opts ...Option) *Server {
	s := &Server{
		board:    b,
		statuses: live.NewStatuses(),
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/layout", s.handleLayout)
		r.Delete("/layout", s.handleReset)
		r.Post("/interactions", s.handleBegin)
		r.Put("/interactions", s.handleUpdate)
		r.Post("/interactions/stop", s.handleStop)
		r.Delete("/interactions", s.handleCancel)
		r.Get("/status", s.handleStatus)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

type beginRequest struct {
	Kind session.Kind `json:"kind"`
	ID   string       `json:"id"`
}

type proposalRequest struct {
	Layout grid.Layout `json:"layout"`
}

type updateResponse struct {
	board.View
	Rejected bool `json:"rejected"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()

	if q.Has("width") || q.Has("height") {
		width, err1 := strconv.ParseFloat(q.Get("width"), 64)
		height, err2 := strconv.ParseFloat(q.Get("height"), 64)
		if err := errors.Join(err1, err2); err != nil {
			writeError(w, swerrors.Wrap(swerrors.ErrCodeInvalidInput, err, "width and height must both be numbers"))
			return
		}
		if err := s.board.Resize(r.Context(), width, height); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, s.board.View())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.board.Reset(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.View())
}

func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	var req beginRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch req.Kind {
	case session.KindDrag:
		err = s.board.BeginDrag(req.ID)
	case session.KindResize:
		err = s.board.BeginResize(req.ID)
	default:
		err = swerrors.New(swerrors.ErrCodeInvalidInput, "kind must be %q or %q", session.KindDrag, session.KindResize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.View())
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		rejected bool
		err      error
	)
	if s.board.View().Kind == session.KindResize {
		rejected, err = s.board.ResizeTo(req.Layout)
	} else {
		err = s.board.Drag(req.Layout)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updateResponse{View: s.board.View(), Rejected: rejected})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.board.Stop(r.Context(), req.Layout)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.board.Cancel(r.Context()))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.statuses.Snapshot())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, swerrors.Wrap(swerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, swerrors.HTTPStatus(err), map[string]string{
		"error": swerrors.UserMessage(err),
		"code":  string(swerrors.GetCode(err)),
	})
}
