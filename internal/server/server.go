package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/auth-smoke/internal/auth"
	"github.com/hongminglow/auth-smoke/internal/config"
	"github.com/hongminglow/auth-smoke/internal/http/handlers"
	"github.com/hongminglow/auth-smoke/internal/middleware"
	"github.com/hongminglow/auth-smoke/internal/storage"
	"github.com/hongminglow/auth-smoke/internal/validate"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.PlayerStore, v *validate.Validator) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           Handler(cfg, store, v),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Handler builds the routed, middleware-wrapped handler. Tests mount it on httptest servers.
func Handler(cfg config.Config, store storage.PlayerStore, v *validate.Validator) http.Handler {
	mux := http.NewServeMux()
	health := handlers.NewHealthHandler(time.Now())
	health.Register(mux)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	authHandler := handlers.NewAuthHandler(store, tokenManager, v, cfg.AnonTTL)
	authHandler.Register(mux)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
