// cmd/reintentardlq/main.go: Devuelve a la cola de limpieza los trabajos parkeados en la DLQ.
// Uso: go run ./cmd/reintentardlq [-max 100]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/angelous0/muestras/internal/config"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	max := flag.Int("max", 100, "maximo de trabajos a reencolar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Fatal().Msg("REDIS_URL no configurado")
	}
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := worker.ReintentarDLQ(ctx, rdb, worker.QueueArchivos, *max)
	if err != nil {
		log.Fatal().Err(err).Int("reencolados", n).Msg("reintento interrumpido")
	}
	log.Info().Int("reencolados", n).Msg("DLQ procesada")
}
