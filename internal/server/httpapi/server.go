// Package httpapi exposes the account operations over HTTP+JSON and hosts the
// auth guard that protects the balance endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kodbank/kodbank/internal/logging"
	"github.com/kodbank/kodbank/internal/server/auth"
)

// AccountService is the subset of the account business logic the HTTP layer
// depends on. Satisfied by *services.AccountService.
type AccountService interface {
	Register(ctx context.Context, id int64, username, email, password string, phone *string) error
	Login(ctx context.Context, username, password string) (string, time.Time, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Balance(ctx context.Context, username string) (int64, error)
	Logout(ctx context.Context, token string) error
}

type Server struct {
	router   *gin.Engine
	address  string
	accounts AccountService
	logger   logging.Logger
}

// NewServer builds the gin router with CORS and all routes registered.
// Only the configured origins receive credentialed responses; requests
// without an Origin header (curl, server-to-server) bypass CORS entirely.
func NewServer(address string, logger logging.Logger, accounts AccountService, allowedOrigins []string) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		router:   router,
		address:  address,
		accounts: accounts,
		logger:   logger.With("module", "http_server"),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	s.router.POST("/register", s.handleRegister)
	s.router.POST("/login", s.handleLogin)
	s.router.GET("/balance", s.authGuard(), s.handleBalance)
	s.router.POST("/logout", s.handleLogout)
}

// Handler returns the root http.Handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
