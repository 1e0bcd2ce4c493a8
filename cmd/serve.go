package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"books/cache"
	"books/config"
	"books/db"
	"books/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the books web server",
	RunE:  serve,
}

func serve(cmd *cobra.Command, _ []string) error {
	conf, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := config.NewLogger(conf, os.Stdout)
	slog.SetDefault(logger)
	gin.SetMode(conf.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	library, libraryCloser, err := db.SetupLibrary(ctx, conf)
	if err != nil {
		return err
	}
	defer func() { _ = libraryCloser.Close() }()

	if migrator, ok := library.(db.Migrator); ok && conf.AutoMigrate {
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
	}

	cacher, closeCacher, err := cache.SetupCacher(conf)
	if err != nil {
		return err
	}
	defer func() { _ = closeCacher() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	routes := service.SetupRoutes(service.Dependencies{
		Library: library,
		Cacher:  cacher,
		Logger:  logger,
		Metrics: service.NewMetrics(registry),
	})

	server := &http.Server{
		Addr:              conf.Addr,
		Handler:           routes,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", conf.Addr), slog.String("store", conf.Store))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
