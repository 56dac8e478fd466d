// Package server serves live charts over HTTP.
//
// Each open [session.View] is reachable under /views/{id}; the oldest view is
// also served at the root so a single-file session needs no ID:
//
//	GET  /                        current chart document
//	GET  /api/views               open views
//	GET  /api/revision            revision of the current surface
//	POST /api/jump                {"command":"jumpToLine","line":N}
//	POST /api/resize              {"width":W,"height":H}
//	GET  /api/chart.json          geometry, lanes and paths of the last pass
//	GET  /api/graph.svg           section graph rendered by Graphviz
//
// The chart document itself polls the revision endpoint and posts jump and
// resize events back to its own view.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/LMascagni/simasm/pkg/buildinfo"
	"github.com/LMascagni/simasm/pkg/errors"
	"github.com/LMascagni/simasm/pkg/scheduler"
	"github.com/LMascagni/simasm/pkg/session"
)

const (
	// maxBody bounds request bodies; jump and resize messages are tiny.
	maxBody = 4 << 10

	// firstFrameWait bounds how long a document request waits for the
	// initial pass of a freshly opened view.
	firstFrameWait = 5 * time.Second
)

// Server routes HTTP requests to open views.
type Server struct {
	views  *session.Registry
	logger *log.Logger
	router chi.Router
}

// New creates a server for the views in reg.
func New(reg *session.Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{views: reg, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/api/views", s.handleViews)
	r.Route("/views/{id}", func(r chi.Router) {
		s.viewRoutes(r, s.viewByID)
	})
	s.viewRoutes(r, s.defaultView)
	return r
}

func (s *Server) viewRoutes(r chi.Router, resolve func(*http.Request) (*session.View, error)) {
	with := func(h func(http.ResponseWriter, *http.Request, *session.View)) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			v, err := resolve(req)
			if err != nil {
				s.writeError(w, err)
				return
			}
			h(w, req, v)
		}
	}
	r.Get("/", with(s.handleDocument))
	r.Get("/api/revision", with(s.handleRevision))
	r.Post("/api/jump", with(s.handleJump))
	r.Post("/api/resize", with(s.handleResize))
	r.Get("/api/chart.json", with(s.handleChartJSON))
	r.Get("/api/graph.svg", with(s.handleGraphSVG))
}

func (s *Server) viewByID(r *http.Request) (*session.View, error) {
	return s.views.Get(chi.URLParam(r, "id"))
}

func (s *Server) defaultView(*http.Request) (*session.View, error) {
	views := s.views.List()
	if len(views) == 0 {
		return nil, session.ErrNotFound
	}
	return views[0], nil
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving charts", "addr", "http://"+addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

type viewInfo struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	URL      string    `json:"url"`
	Opened   time.Time `json:"opened"`
	State    string    `json:"state"`
	Revision string    `json:"revision,omitempty"`
}

func (s *Server) handleViews(w http.ResponseWriter, _ *http.Request) {
	views := s.views.List()
	out := make([]viewInfo, 0, len(views))
	for _, v := range views {
		info := viewInfo{
			ID:     v.ID,
			Path:   v.Path,
			URL:    v.Base() + "/",
			Opened: v.CreatedAt,
			State:  v.State().String(),
		}
		if f := v.Frame(); f != nil {
			info.Revision = f.Revision
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request, v *session.View) {
	f, err := firstFrame(r.Context(), v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(f.Content) == 0 {
		w.Header().Set("Retry-After", "1")
		http.Error(w, "chart is being redrawn", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(f.Content)
}

type revisionResponse struct {
	Revision   string `json:"revision"`
	Seq        int    `json:"seq"`
	State      string `json:"state"`
	Incomplete bool   `json:"incomplete,omitempty"`
}

func (s *Server) handleRevision(w http.ResponseWriter, _ *http.Request, v *session.View) {
	resp := revisionResponse{State: v.State().String()}
	if f := v.Frame(); f != nil {
		resp.Revision, resp.Seq, resp.Incomplete = f.Revision, f.Seq, f.Incomplete
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request, v *session.View) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidMessage, err, "read body"))
		return
	}
	if err := v.HandleMessage(r.Context(), body); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request, v *session.View) {
	var vp scheduler.Viewport
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&vp); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidViewport, err, "decode viewport"))
		return
	}
	if err := v.Resize(vp); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleChartJSON(w http.ResponseWriter, _ *http.Request, v *session.View) {
	data, err := v.ChartJSON()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// firstFrame returns the current frame, waiting for the initial pass of a
// view that has not drawn yet.
func firstFrame(ctx context.Context, v *session.View) (*scheduler.Frame, error) {
	if f := v.Frame(); f != nil {
		return f, nil
	}
	frames, cancel := v.Subscribe()
	defer cancel()
	if f := v.Frame(); f != nil {
		return f, nil
	}

	ctx, stop := context.WithTimeout(ctx, firstFrameWait)
	defer stop()
	select {
	case f, ok := <-frames:
		if !ok {
			return nil, errors.New(errors.ErrCodeClosed, "view closed")
		}
		return f, nil
	case <-ctx.Done():
		return nil, session.ErrNotDrawn
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch {
	case stderrors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, session.ErrNotDrawn):
		return http.StatusServiceUnavailable
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidMessage, errors.ErrCodeInvalidViewport, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeLineOutOfRange:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeClosed:
		return http.StatusGone
	case errors.ErrCodeNavigationFailed:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleGraphSVG(w http.ResponseWriter, r *http.Request, v *session.View) {
	data, err := v.GraphSVG(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(data)
}
