// Package rest exposes UserService over HTTP with gin.
package rest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// UserService is the business API the handlers depend on.
type UserService interface {
	Register(ctx context.Context, in models.UserCreate) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.Token, error)
	Authenticate(ctx context.Context, rawToken string) (*models.User, error)
	AddFavorite(ctx context.Context, userID int64, in models.FavoriteCreate) (*models.Favorite, error)
	ListFavorites(ctx context.Context, userID int64) ([]models.Favorite, error)
	RequestImageUpload(ctx context.Context, userID int64) (*models.PresignedImage, error)
	ImageURL(ctx context.Context, user *models.User) (*models.PresignedImage, error)
}

type Server struct {
	address string
	users   UserService
	pool    *sql.DB
	logger  logging.Logger
	engine  *gin.Engine
}

// NewServer builds the router. pool may be nil, in which case no
// per-request connection is checked out and services use their own handle.
func NewServer(address string, l logging.Logger, users UserService, pool *sql.DB, corsOrigins []string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		address: address,
		users:   users,
		pool:    pool,
		logger:  l.With("module", "rest"),
	}

	s.engine = gin.New()
	s.engine.Use(
		s.requestLogger(),
		gin.CustomRecovery(s.recoverPanic),
		corsMiddleware(corsOrigins),
		s.errorHandler(),
	)
	s.registerRoutes(s.engine)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully. It
// returns only after in-flight requests have finished or the shutdown
// timeout has passed.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())

	// Serve returns ErrServerClosed as soon as Shutdown starts, before
	// active connections drain.
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-stopped; err != nil {
		s.logger.Error(ctx, "HTTP server shutdown failed", "error", err)
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}
