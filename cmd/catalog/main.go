// Command catalog runs the catalog web server: it applies migrations,
// connects to PostgreSQL and Redis, starts the welcome email worker and
// serves HTTP until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/go-catalog/internal/config"
	"github.com/deppfellow/go-catalog/internal/database"
	"github.com/deppfellow/go-catalog/internal/handler"
	"github.com/deppfellow/go-catalog/internal/logger"
	"github.com/deppfellow/go-catalog/internal/repository"
	"github.com/deppfellow/go-catalog/internal/router"
	"github.com/deppfellow/go-catalog/internal/server"
	"github.com/deppfellow/go-catalog/internal/service"
	"github.com/rs/zerolog"
)

const (
	migrateTimeout  = time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	err = run(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("server exited with error")
	}

	// Flushes buffered New Relic data.
	loggerService.Shutdown()

	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zerolog.Logger, loggerService *logger.LoggerService) error {
	migrateCtx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	err := database.Migrate(migrateCtx, log, cfg.Database.DSN())
	cancel()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewServices(srv, repos)
	if err != nil {
		return errors.Join(err, srv.Shutdown(context.Background()))
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Join(err, srv.Shutdown(context.Background()))
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
