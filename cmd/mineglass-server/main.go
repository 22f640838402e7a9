// Package main provides the MineGlass catalog server entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/HypoDev/MineGlass/internal/config"
	"github.com/HypoDev/MineGlass/internal/server"
	"github.com/HypoDev/MineGlass/pkg/audit"
	"github.com/HypoDev/MineGlass/pkg/auth"
	"github.com/HypoDev/MineGlass/pkg/blob"
	"github.com/HypoDev/MineGlass/pkg/catalog"
)

func main() {
	var cfgFile string

	root := &cobra.Command{
		Use:   "mineglass-server",
		Short: "MineGlass catalog server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgFile)
		},
	}
	root.Flags().StringVarP(&cfgFile, "config", "c", "", "path to config file")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting mineglass server",
		"listen", cfg.ListenAddr,
		"db", cfg.DB.Driver,
		"seed", cfg.SeedPath,
		"storage", cfg.Storage.Bucket != "")

	db, err := openDatabase(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	var storage blob.Storage
	blobCfg := blob.Config{
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	}
	if blobCfg.Enabled() {
		s3storage, err := blob.NewS3Storage(ctx, blobCfg)
		if err != nil {
			return fmt.Errorf("connect object storage: %w", err)
		}
		storage = s3storage
		logger.Info("object storage enabled", "bucket", blobCfg.Bucket)
	} else {
		logger.Info("no object storage configured, image uploads disabled")
	}

	seed, err := catalog.LoadSeed(cfg.SeedPath)
	if err != nil {
		logger.Warn("seed load failed, starting with an empty catalog", "path", cfg.SeedPath, "error", err)
		seed = &catalog.Seed{}
	} else {
		logger.Info("seed loaded",
			"categories", len(seed.Categories),
			"mods", len(seed.Mods),
			"servers", len(seed.Servers))
	}

	srv, err := server.NewServer(server.Config{
		DB:      db,
		Logger:  logger,
		Seed:    seed,
		Storage: storage,
		Issuer:  auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
	})
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	watcher, err := catalog.WatchSeed(cfg.SeedPath, logger, srv.SetSeed)
	if err != nil {
		logger.Warn("seed watcher unavailable, hot reload disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	retention := audit.NewRetentionWorker(audit.NewLog(db), cfg.Audit.RetentionDays, logger)
	go retention.Run(ctx)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.MountRoutes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("mineglass server ready", "listen", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("mineglass server stopped")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openDatabase(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	}
}
