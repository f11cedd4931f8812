package api

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/org/docvault/internal/core"
	"github.com/rs/zerolog/log"
)

// Config holds server configuration.
type Config struct {
	ListenAddr  string
	TLSCertFile string
	TLSKeyFile  string
}

// Server is the HTTP API server.
type Server struct {
	svc     *core.Service
	cfg     Config
	httpSrv *http.Server
}

// NewServer wraps a core Service in an HTTP surface.
func NewServer(svc *core.Service, cfg Config) *Server {
	return &Server{svc: svc, cfg: cfg}
}

// BuildRouter wires up all routes and returns a chi router.
func (s *Server) BuildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(metricsMiddleware)
	r.Use(newRateLimiter(100, 200).middleware)

	// Prometheus metrics (unauthenticated)
	r.Handle("/metrics", MetricsHandler(s.svc))

	// Public routes (no session required). Emergency upgrade reads the
	// session id from the request body, not the auth header.
	r.Group(func(r chi.Router) {
		r.Get("/api/health", s.HealthHandler)
		r.Post("/api/login", s.LoginHandler)
		r.Post("/api/emergency-upgrade", s.EmergencyUpgradeHandler)
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware(s.svc))

		r.Get("/api/documents", s.DocumentListHandler)
		r.Post("/api/documents", s.DocumentCreateHandler)
		r.Get("/api/documents/{id}", s.DocumentGetHandler)
		r.Delete("/api/documents/{id}", s.DocumentDeleteHandler)

		r.Get("/api/users", s.UserListHandler)
		r.Put("/api/users/{id}/permission", s.UserPermissionHandler)
		r.Post("/api/change-password", s.ChangePasswordHandler)

		r.Get("/api/audit-logs", s.AuditLogHandler)
		r.Get("/api/backup", s.BackupHandler)
		r.Get("/api/stats", s.StatsHandler)
	})

	return r
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	handler := s.BuildRouter()

	s.httpSrv = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != "" {
		tlsCfg := &tls.Config{
			MinVersion: tls.VersionTLS12,
			CurvePreferences: []tls.CurveID{
				tls.CurveP256,
				tls.X25519,
			},
		}
		s.httpSrv.TLSConfig = tlsCfg
		log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting HTTPS server")
		return s.httpSrv.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	}

	log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting HTTP server")
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
