package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelous0/muestras/internal/config"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/router"
	"github.com/angelous0/muestras/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Money fields travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if cfg.RunMigrations {
		if err := infra.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL empty: stats cache and file cleanup disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	almacen, err := nuevoAlmacenamiento(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to init storage")
	}
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	protegido := infra.NewAlmacenamientoProtegido(almacen, cb)

	// Cleanup workers delete blobs that lost their last reference.
	if rdb != nil {
		pool := worker.NewPool(rdb, map[string]worker.Handler{
			worker.JobEliminarArchivo: worker.NewLimpiezaWorker(protegido),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, router.Deps{DB: db, Redis: rdb, Almacen: protegido, CB: cb})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("muestras backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

func nuevoAlmacenamiento(ctx context.Context, cfg *config.Config) (infra.Almacenamiento, error) {
	switch cfg.StorageBackend {
	case "s3":
		s3, err := infra.NewS3Almacenamiento(ctx, infra.S3Config{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UseSSL:       cfg.S3UseSSL,
			UsePathStyle: cfg.S3UsePathStyle,
			PresignTTL:   time.Duration(cfg.S3PresignMinutes) * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3, nil
	case "local", "":
		return infra.NewDiscoAlmacenamiento(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}
