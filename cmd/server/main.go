package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"presshealth/adapters/memstore"
	"presshealth/adapters/sqlstore"
	"presshealth/internal"
	"presshealth/internal/config"
	"presshealth/internal/errors"
	"presshealth/internal/migration"
	"presshealth/internal/pressdata"
	"presshealth/ports"
	"presshealth/ui"
)

// openStore builds the upload repository selected by STORE_DRIVER
func openStore(ctx context.Context, cfg config.StoreConfig, logger *internal.Logger) (ports.UploadRepository, func() error, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory store; uploads are lost on restart")
		return memstore.NewUploadRepository(), func() error { return nil }, nil
	}

	if cfg.Driver == config.DriverSQLite {
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, errors.Wrap(err, "failed to create sqlite directory")
			}
		}
	}

	db, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, nil, errors.DatabaseError("failed to connect to database", err)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, nil, errors.DatabaseError("database migration failed", err)
	}
	logger.Info("using %s store", cfg.Driver)
	return sqlstore.NewUploadRepository(db), db.Close, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLevel(appConfig.Logging.Level))
	internal.DefaultLogger = logger
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, appConfig.Store, logger.With("Store"))
	if err != nil {
		log.Fatalf("Failed to open upload store: %v", err)
	}
	defer closeStore()

	service := pressdata.NewService(repo,
		pressdata.WithDefaultOutlierLevel(appConfig.Upload.DefaultOutlierLevel),
		pressdata.WithLogger(logger),
	)
	server := ui.NewServer(service, appConfig.Upload.MaxFileSize, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed: %v", err)
		}
	}
}
