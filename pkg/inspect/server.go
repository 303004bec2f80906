package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/vangotest/pkg/vtest"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithGatherer sets where /metrics reads from.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithPolicy replaces the sanitizer used by the preview route.
func WithPolicy(p *bluemonday.Policy) Option {
	return func(s *Server) {
		if p != nil {
			s.policy = p
		}
	}
}

// Server is the inspector HTTP server.
type Server struct {
	registry *vtest.Registry
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	policy   *bluemonday.Policy
	router   *chi.Mux
	stream   *eventStream
}

// New creates an inspector for reg.
func New(reg *vtest.Registry, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		logger:   slog.Default().With("component", "inspect"),
		gatherer: prometheus.DefaultGatherer,
		policy:   bluemonday.UGCPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stream = newEventStream(reg, s.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/instances", s.handleList)
	r.Route("/instances/{id}", func(r chi.Router) {
		r.Get("/", s.handleInstance)
		r.Get("/html", s.handleHTML)
		r.Get("/preview", s.handlePreview)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Get("/ws", s.stream.handle)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	return s.stream.clientCount()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspector listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.stream.close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Summary is the JSON form of a root in listings.
type Summary struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Mounted  bool   `json:"mounted"`
	Elements int    `json:"elements"`
	Resyncs  int    `json:"resyncs"`
}

// Detail is a summary with the snapshot description.
type Detail struct {
	Summary
	Tree *vtest.Description `json:"tree,omitempty"`
}

func summarize(r *vtest.Root) Summary {
	sum := Summary{
		ID:      r.ID(),
		Name:    r.Name(),
		Mounted: r.Mounted(),
		Resyncs: r.Resyncs(),
	}
	if snap := r.Current(); snap != nil {
		sum.Elements = len(snap.Descendants()) + 1
	}
	return sum
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	live := s.registry.Live()
	out := make([]Summary, 0, len(live))
	for _, r := range live {
		out = append(out, summarize(r))
	}
	s.writeJSON(w, out)
}

// root resolves the {id} parameter, writing a 404 when it is unknown.
func (s *Server) root(w http.ResponseWriter, req *http.Request) (*vtest.Root, bool) {
	id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid instance id", http.StatusBadRequest)
		return nil, false
	}
	r, ok := s.registry.Get(id)
	if !ok {
		http.Error(w, "instance not found", http.StatusNotFound)
		return nil, false
	}
	return r, true
}

func (s *Server) handleInstance(w http.ResponseWriter, req *http.Request) {
	r, ok := s.root(w, req)
	if !ok {
		return
	}
	detail := Detail{Summary: summarize(r)}
	if snap := r.Current(); snap != nil {
		d := vtest.Describe(snap)
		detail.Tree = &d
	}
	s.writeJSON(w, detail)
}

func (s *Server) handleHTML(w http.ResponseWriter, req *http.Request) {
	r, ok := s.root(w, req)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(r.Markup()))
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}} #{{.ID}}</title></head>
<body>
<h1>{{.Name}} #{{.ID}}</h1>
<div class="preview">{{.Markup}}</div>
</body>
</html>
`))

func (s *Server) handlePreview(w http.ResponseWriter, req *http.Request) {
	r, ok := s.root(w, req)
	if !ok {
		return
	}
	data := struct {
		ID     uint64
		Name   string
		Markup template.HTML
	}{
		ID:   r.ID(),
		Name: r.Name(),
		// Sanitized by the policy before it is trusted as markup.
		Markup: template.HTML(s.policy.Sanitize(r.Markup())),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, data); err != nil {
		s.logger.Error("preview render failed", "root", r.ID(), "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response failed", "error", err)
	}
}
