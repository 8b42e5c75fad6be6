// Package server exposes the circuit rendering pipeline over HTTP with the
// permissive CORS surface the web editor expects.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"

	"github.com/wudi/qpickit/observability"
	"github.com/wudi/qpickit/render"
)

// Version is reported by /api/version.
const Version = "1.0.0"

// Renderer is the pipeline surface the handlers need. *render.Pipeline
// implements it; tests substitute fakes.
type Renderer interface {
	Render(ctx context.Context, req render.Request) (*render.Result, error)
	ToolVersions() map[string]bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l observability.Logger) Option { return func(s *Server) { s.log = l } }

// WithMaxConns caps concurrent connections accepted by the listener.
func WithMaxConns(n int) Option { return func(s *Server) { s.maxConns = n } }

// WithScriptTimeout bounds transform script execution.
func WithScriptTimeout(d time.Duration) Option { return func(s *Server) { s.scriptTimeout = d } }

// Server routes the rendering API.
type Server struct {
	renderer      Renderer
	log           observability.Logger
	maxConns      int
	scriptTimeout time.Duration
}

// New builds a Server around a renderer.
func New(r Renderer, opts ...Option) *Server {
	s := &Server{
		renderer:      r,
		log:           observability.NopLogger{},
		maxConns:      256,
		scriptTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/check_point", s.checkPoint)
	mux.HandleFunc("/api/stim-to-qpic", s.stimToQpic)
	mux.HandleFunc("/api/qpic-to-svg", s.qpicToSVG)
	mux.HandleFunc("/api/qpic-to-tikz", s.qpicToTikZ)
	mux.HandleFunc("/api/transform", s.transform)
	mux.HandleFunc("/api/notes-preview", s.notesPreview)
	mux.HandleFunc("/api/version", s.version)

	var h http.Handler = mux
	h = jsonContentType(h)
	h = cors(h)
	h = s.logging(h)
	h = s.recovery(h)
	return h
}

// ListenAndServe serves until ctx is canceled, then drains connections.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Info("listening", observability.String("addr", addr))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
