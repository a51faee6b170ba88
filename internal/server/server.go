package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server around a configured gin engine.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance.
func New(router *gin.Engine) *Server {
	return &Server{router: router}
}

// Start begins serving on the given address and blocks until the listener
// closes.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("Listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
