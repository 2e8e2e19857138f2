// Package server initializes and runs the accounts API: it opens the
// database, applies migrations, wires the user service and serves HTTP
// until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/config"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/rest"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/dmitrijs2005/accounts/internal/server/storage"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	newRepositoryManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}
	newImageStorage = func(ctx context.Context, cfg storage.S3Config) (storage.ObjectStorage, error) {
		return storage.NewS3Storage(ctx, cfg)
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *rest.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		SecretKey: []byte(c.SecretKey),
		Algorithm: c.SigningAlgorithm,
		TTL:       c.AccessTokenValidityDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("token manager init error: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	images, err := initImageStorage(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("image storage init error: %w", err)
	}
	if images == nil {
		logger.Warn(ctx, "S3 bucket not configured, profile image uploads disabled")
	}

	us := services.NewUserService(db, rm, tokens, images, c.PasswordHashCost, logger)
	srv := rest.NewServer(c.EndpointAddrHTTP, logger, us, db, c.CORSAllowOrigins)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

// initImageStorage returns a nil interface when no bucket is configured.
func initImageStorage(ctx context.Context, c *config.Config) (storage.ObjectStorage, error) {
	if c.S3Bucket == "" {
		return nil, nil
	}

	return newImageStorage(ctx, storage.S3Config{
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a shutdown signal arrives or the HTTP
// server fails, then closes the database pool.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
