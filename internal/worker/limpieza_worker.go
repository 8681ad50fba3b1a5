package worker

// limpieza_worker.go
// Deletes blobs that are no longer referenced by any record: replaced or
// removed attachments and the files of deleted entities.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelous0/muestras/internal/infra"

	"github.com/rs/zerolog/log"
)

// EliminarArchivoPayload is the job payload of JobEliminarArchivo.
type EliminarArchivoPayload struct {
	Clave string `json:"clave"`
}

// Eliminador is the part of the blob store the cleanup worker needs.
type Eliminador interface {
	Eliminar(ctx context.Context, clave string) error
}

// LimpiezaWorker processes JobEliminarArchivo jobs.
type LimpiezaWorker struct {
	almacen Eliminador
}

func NewLimpiezaWorker(almacen Eliminador) *LimpiezaWorker {
	return &LimpiezaWorker{almacen: almacen}
}

// Process deletes the blob. A key that is already gone counts as done.
func (w *LimpiezaWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EliminarArchivoPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("limpieza_worker: invalid payload: %w", err)
	}
	if payload.Clave == "" {
		log.Warn().Msg("limpieza_worker: empty clave, skipping")
		return nil
	}

	err := w.almacen.Eliminar(ctx, payload.Clave)
	switch {
	case err == nil:
		log.Info().Str("clave", payload.Clave).Msg("limpieza_worker: archivo eliminado")
		return nil
	case errors.Is(err, infra.ErrArchivoNoEncontrado), errors.Is(err, infra.ErrClaveInvalida):
		log.Debug().Str("clave", payload.Clave).Msg("limpieza_worker: archivo ya no existe")
		return nil
	default:
		return err
	}
}
