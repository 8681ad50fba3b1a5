package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/angelous0/muestras/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueArchivos = "jobs:archivos"

	JobEliminarArchivo = "eliminar_archivo"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3

	// PausaCircuitoAbierto is how long a job rejected by an open storage
	// breaker waits before going back to the queue.
	PausaCircuitoAbierto = 5 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes the payload of one job type.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EncolarEliminacion queues one deletion job per storage key.
func (d *Dispatcher) EncolarEliminacion(ctx context.Context, claves ...string) error {
	for _, clave := range claves {
		if err := d.enqueue(ctx, QueueArchivos, Job{Type: JobEliminarArchivo}, EliminarArchivoPayload{Clave: clave}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	return push(ctx, d.rdb, queue, job)
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes QueueArchivos and routes each job to its handler.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	pausa    time.Duration
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, pausa: PausaCircuitoAbierto}
}

// Start launches numWorkers goroutines consuming the queue.
// Each goroutine blocks on BRPOP while idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueArchivos).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			p.ProcessJob(ctx, result[0], result[1])
		}
	}
}

// ProcessJob runs one raw job. A failed job is pushed back with one more
// attempt; after MaxAttempts it is moved to the dead letter queue. Jobs
// rejected by an open storage breaker keep their attempt count.
func (p *Pool) ProcessJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		EnviarADLQ(ctx, p.rdb, queue, job, "unknown job type")
		return
	}

	err := h.Process(ctx, job.Payload)
	if err == nil {
		return
	}
	aDLQ, espera := p.reintento(&job, err)
	if aDLQ {
		EnviarADLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempts", job.Attempts).Dur("espera", espera).Msg("job failed, requeued")
	if espera > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(espera):
		}
	}
	// Requeue even on shutdown so the job is not lost.
	if err := push(context.WithoutCancel(ctx), p.rdb, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("failed to requeue job")
	}
}

// reintento counts the failed attempt on job and reports whether it is
// exhausted and how long to wait before requeueing it.
func (p *Pool) reintento(job *Job, err error) (aDLQ bool, espera time.Duration) {
	if errors.Is(err, infra.ErrCircuitOpen) {
		return false, p.pausa
	}
	job.Attempts++
	return job.Attempts >= MaxAttempts, 0
}
