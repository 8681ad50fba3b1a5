package worker

// dlq.go: cola de trabajos muertos.
// Cleanup jobs that fail MaxAttempts times are parked in dlq:<queue> so the
// orphan blob can be removed by hand. Reintentar moves them back.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// EntradaDLQ is a dead job plus the reason it was parked.
type EntradaDLQ struct {
	Cola      string          `json:"cola"`
	Tipo      string          `json:"tipo"`
	Payload   json.RawMessage `json:"payload"`
	Motivo    string          `json:"motivo"`
	FallidoEn time.Time       `json:"fallido_en"`
	Intentos  int             `json:"intentos"`
}

// EnviarADLQ parks job in the dead letter list of queue.
func EnviarADLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, motivo string) {
	data, err := json.Marshal(EntradaDLQ{
		Cola:      queue,
		Tipo:      job.Type,
		Payload:   job.Payload,
		Motivo:    motivo,
		FallidoEn: time.Now().UTC(),
		Intentos:  job.Attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: push failed")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("motivo", motivo).
		Int("intentos", job.Attempts).
		Msg("dlq: job parked")
}

// LongitudDLQ returns how many dead jobs queue has.
func LongitudDLQ(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ReintentarDLQ moves up to max dead jobs back to queue with their attempt
// counter reset and returns how many were moved.
func ReintentarDLQ(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	movidos := 0
	for movidos < max {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return movidos, err
		}
		var e EntradaDLQ
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			log.Error().Err(err).Msg("dlq: entrada corrupta descartada")
			continue
		}
		if err := push(ctx, rdb, queue, Job{Type: e.Tipo, Payload: e.Payload}); err != nil {
			return movidos, err
		}
		movidos++
	}
	return movidos, nil
}
