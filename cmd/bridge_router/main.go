package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bridge_router/internal/app"
	"bridge_router/internal/infrastructure/configloader"
	"bridge_router/internal/infrastructure/restapi"
	"bridge_router/internal/pkg/logger"
	"bridge_router/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfgPath := utils.GetEnv("CONFIG_PATH", configloader.DefaultPath)
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger := logger.InitSlog(cfg.Logging.Level)
	defer logger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Error("Bridge router stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	zapLogger.Info("Bridge router stopped")
}

func run(cfg *configloader.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := restapi.NewQuoteHandler(
		container.QuoteService,
		container.Registry,
		cfg.Defaults.TokenSymbol,
		cfg.Upstream.RequestTimeout(),
		zapLogger,
	)
	router := restapi.SetupRouter(handler, cfg, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("HTTP server starting",
			zap.String("addr", srv.Addr),
			zap.Int64("fee_bps", cfg.Fees.FeeBps),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.Int("tokens", len(container.Registry.All())),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("Shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
