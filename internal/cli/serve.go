package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/cpf-validator/internal/config"
	"github.com/deppfellow/cpf-validator/internal/handler"
	"github.com/deppfellow/cpf-validator/internal/logger"
	"github.com/deppfellow/cpf-validator/internal/router"
	"github.com/deppfellow/cpf-validator/internal/server"
	"github.com/deppfellow/cpf-validator/internal/service"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds graceful shutdown after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API.

Configuration is read from CPF_* environment variables (and a .env file
if present), for example CPF_SERVER__PORT=8080 or CPF_REDIS__ADDRESS=localhost:6379.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return err
	}

	log := logger.NewLogger(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	services := service.NewServices(srv)
	r := router.NewRouter(srv, handler.NewHandlers(srv, services))
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
