// Package web serves the practice desk as server-rendered HTML pages.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abhisek/practiz/internal/practice"
)

//go:embed templates/*.html
var templateFS embed.FS

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// CORSOrigins enables CORS for the listed origins. Empty disables it.
	CORSOrigins []string

	// RequestTimeout is applied to every request. Zero means 30s.
	RequestTimeout time.Duration
}

// Server renders the web UI over a practice.Service.
type Server struct {
	svc  *practice.Service
	opts Options
	tmpl *template.Template
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(svc *practice.Service, opts Options) (*Server, error) {
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	tmpl, err := template.New("practiz").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{svc: svc, opts: opts, tmpl: tmpl}, nil
}

// Handler returns the router with middleware and all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/session", func(sr chi.Router) {
		sr.Post("/", s.handleStart)
		sr.Get("/", s.handleSession)
		sr.Post("/answer", s.handleAnswer)
		sr.Post("/confidence", s.handleConfidence)
		sr.Post("/mark", s.handleMark)
		sr.Post("/next", s.handleNext)
		sr.Post("/new", s.handleNew)
	})

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down and saves
// every logged-in user's progress.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("practiz web UI listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		log.Println("Shutting down web UI...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down HTTP server: %v", err)
		}
	}

	if err := s.svc.LogoutAll(); err != nil {
		log.Printf("Error saving progress: %v", err)
		return errors.Join(serveErr, err)
	}
	return serveErr
}
