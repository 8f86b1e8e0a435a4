// Package server exposes the agent over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mj1618/terminator-agent/internal/agent"
	"github.com/mj1618/terminator-agent/internal/voice"
)

// HealthMessage is returned by GET /.
const HealthMessage = "Terminator Agent is running."

const shutdownTimeout = 10 * time.Second

// Executor runs execute requests.
type Executor interface {
	Execute(ctx context.Context, req agent.Request) (agent.Result, error)
}

// Dispatcher handles voice-assistant payloads.
type Dispatcher interface {
	Dispatch(ctx context.Context, p voice.Payload) (voice.Outcome, error)
}

// Options configures a Server.
type Options struct {
	// AllowedOrigins for CORS; empty disables the CORS middleware.
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server is the HTTP front of the agent.
type Server struct {
	exec   Executor
	voice  Dispatcher
	log    *slog.Logger
	router chi.Router
}

// New builds a Server. voice may be nil, in which case /vapi is not served.
func New(exec Executor, voice Dispatcher, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{exec: exec, voice: voice, log: log}
	s.setupRoutes(opts)
	return s
}

func (s *Server) setupRoutes(opts Options) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleHealth)
	r.Post("/execute", s.handleExecute)
	if s.voice != nil {
		r.Post("/vapi", s.handleVoice)
	}

	s.router = r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.log.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("Terminator Agent listening", "addr", ln.Addr().String())
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
