package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/nossoday/internal/cache"
	"github.com/ganot/nossoday/internal/clock"
	"github.com/ganot/nossoday/internal/config"
	"github.com/ganot/nossoday/internal/domain/activity"
	"github.com/ganot/nossoday/internal/domain/checkout"
	"github.com/ganot/nossoday/internal/domain/couple"
	"github.com/ganot/nossoday/internal/mcp"
	"github.com/ganot/nossoday/internal/metrics"
	"github.com/ganot/nossoday/internal/payment"
	"github.com/ganot/nossoday/internal/qrcode"
	"github.com/ganot/nossoday/internal/render"
	"github.com/ganot/nossoday/internal/sqlite"
	"github.com/ganot/nossoday/internal/storage"
	"github.com/ganot/nossoday/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = io.MultiWriter(logWriter, fileWriter)
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	clk := clock.Real{}
	loc := cfg.Location()

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	coupleRepo := cache.NewCoupleRepository(sqlite.NewCoupleRepository(db), cfg.Cache.TTL, logger)

	photos, uploadsDir, err := newPhotoStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	coupleSvc := couple.NewService(coupleRepo, photos, activitySvc, clk, loc, logger)

	checkoutSvc, err := newCheckoutService(cfg, coupleSvc, activitySvc, logger)
	if err != nil {
		return err
	}

	mcpServices := mcp.Services{
		Couples:  coupleSvc,
		Activity: activitySvc,
	}
	if checkoutSvc != nil {
		mcpServices.Checkout = checkoutSvc
	}
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcpServices,
		Clock:    clk,
		Location: loc,
		Version:  version,
		Logger:   logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		return runStdioMode(ctx, logger, mcpServer)
	}

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	opts := transport.Options{
		Couples:        coupleSvc,
		Renderer:       renderer,
		Metrics:        metrics.New(metrics.DefaultNamespace),
		MCP:            mcp.NewHTTPHandler(mcpServer, cfg.Transport.SessionTimeout, logger),
		UploadsDir:     uploadsDir,
		StreamInterval: cfg.Server.StreamInterval,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
	}
	if checkoutSvc != nil {
		opts.Checkout = checkoutSvc
	}

	return runHTTPMode(ctx, logger, cfg.Addr(), transport.NewServer(opts))
}

// newPhotoStore returns the configured store and, for the local backend,
// the directory to serve under /uploads.
func newPhotoStore(ctx context.Context, cfg config.StorageConfig) (couple.PhotoStore, string, error) {
	switch cfg.Backend {
	case config.StorageS3:
		opts := storage.S3Options{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			PublicURL:       cfg.S3.PublicURL,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		}
		client, err := storage.NewS3Client(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		store, err := storage.NewS3Store(client, opts)
		if err != nil {
			return nil, "", err
		}
		return store, "", nil
	default:
		store, err := storage.NewLocalStore(cfg.Dir, cfg.URLPrefix)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}

// newCheckoutService returns nil when no Stripe key is configured.
func newCheckoutService(cfg config.Config, couples checkout.Couples, activities checkout.ActivityRecorder, logger *slog.Logger) (*checkout.Service, error) {
	if cfg.Payment.StripeSecretKey == "" {
		logger.Warn("stripe secret key not set, checkout disabled")
		return nil, nil
	}

	provider, err := payment.NewStripeProvider(payment.StripeOptions{
		SecretKey:  cfg.Payment.StripeSecretKey,
		BaseURL:    cfg.Payment.StripeBaseURL,
		MaxRetries: cfg.Payment.MaxRetries,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment provider: %w", err)
	}

	prices := make(map[couple.Plan]string, len(cfg.Payment.Prices))
	for name, priceID := range cfg.Payment.Prices {
		plan, err := couple.ParsePlan(name)
		if err != nil {
			return nil, fmt.Errorf("payment prices: %w", err)
		}
		prices[plan] = priceID
	}

	return checkout.NewService(provider, qrcode.NewGenerator(qrcode.DefaultSize), couples, activities, checkout.Config{
		PublicURL: cfg.Server.PublicURL,
		Prices:    prices,
	}, logger), nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	// Open SSE streams keep Shutdown waiting until the timeout.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return httpServer.Close()
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
