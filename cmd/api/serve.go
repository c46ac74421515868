package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/bootstrap"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/menuia"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	"github.com/BruksfildServices01/agenda-scheduler/internal/routes"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

const memoryQueueSize = 1024

func newServeCommand() *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sobe a API HTTP e os workers de notificação",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(shutdownTimeout)
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 15*time.Second, "Tempo máximo para o desligamento gracioso")

	return cmd
}

func serve(shutdownTimeout time.Duration) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, db, err := setup()
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validators.Register(); err != nil {
		return fmt.Errorf("register validators: %w", err)
	}

	if _, err := bootstrap.Run(ctx, db, cfg.Bootstrap, cfg.DefaultRegion); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	// --------------------------------------------------
	// Fila + gateway de WhatsApp
	// --------------------------------------------------
	var queue notify.Queue
	if cfg.RedisURL != "" {
		rdb, err := notify.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		queue = notify.NewRedisQueue(rdb)
		log.Info().Msg("notification queue: redis")
	} else {
		queue = notify.NewMemoryQueue(memoryQueueSize)
		log.Warn().Msg("REDIS_URL not set, notifications use an in-memory queue")
	}

	loc, err := time.LoadLocation(cfg.GatewayTimezone)
	if err != nil {
		return err
	}

	gateway := menuia.New(menuia.Options{
		BaseURL:      cfg.MenuiaBaseURL,
		AdminAuthKey: cfg.MenuiaAdminAuthKey,
		Sandbox:      cfg.MenuiaSandbox,
		Location:     loc,
		Timeout:      cfg.GatewayTimeout,
	})

	dispatcher := notify.NewDispatcher(
		queue,
		gateway,
		repository.NewCatalogGormRepository(db),
		notify.Options{Workers: cfg.NotifyWorkers, Timeout: cfg.GatewayTimeout},
	)
	dispatcher.Start()
	defer dispatcher.Stop()

	auditDispatcher := audit.NewDispatcher(audit.New(db))
	defer auditDispatcher.Close()

	// --------------------------------------------------
	// Upload de imagens
	// --------------------------------------------------
	var store media.ObjectStore
	if cfg.S3.Enabled() {
		s3Store, err := media.NewS3Store(cfg.S3)
		if err != nil {
			return err
		}
		store = s3Store
	} else {
		log.Warn().Msg("S3 not configured, image uploads disabled")
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------
	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Notifier: dispatcher,
		Devices:  gateway,
		Audit:    auditDispatcher,
		Uploader: media.NewUploader(store),
		Health: func() gin.H {
			return gin.H{"gateway_breaker": gateway.BreakerState()}
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	dispatcher.Shutdown(shutdownCtx)
	return nil
}
