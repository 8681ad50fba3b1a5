// cmd/seedcatalogos/main.go: Carga catálogos de demo (marcas, tipos, entalles, telas, hilos, estados).
// Idempotente: un nombre que ya existe no se vuelve a insertar.
// Uso: go run ./cmd/seedcatalogos
package main

import (
	"context"
	"os"
	"time"

	"github.com/angelous0/muestras/internal/config"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	pasos := []struct {
		tabla string
		fn    func() (int, error)
	}{
		{"marcas", func() (int, error) {
			return sembrar(ctx, db, func(r model.Registro) *model.Marca { return &model.Marca{Registro: r} },
				"Levi's", "Wrangler", "Lee", "Marca Propia")
		}},
		{"tipos_producto", func() (int, error) {
			return sembrar(ctx, db, func(r model.Registro) *model.TipoProducto { return &model.TipoProducto{Registro: r} },
				"Jean", "Short", "Casaca", "Falda")
		}},
		{"entalles", func() (int, error) {
			return sembrar(ctx, db, func(r model.Registro) *model.Entalle { return &model.Entalle{Registro: r} },
				"Skinny", "Slim", "Regular", "Mom", "Wide Leg")
		}},
		{"telas", func() (int, error) {
			return sembrar(ctx, db, func(r model.Registro) *model.Tela { return &model.Tela{Registro: r} },
				"Denim 12oz", "Denim Stretch 10oz", "Drill")
		}},
		{"hilos", func() (int, error) {
			return sembrar(ctx, db, func(r model.Registro) *model.Hilo { return &model.Hilo{Registro: r} },
				"Hilo Mostaza 20/3", "Hilo Cobre 40/2")
		}},
		{"estados_costura", func() (int, error) {
			return sembrar(ctx, db, func(r model.Registro) *model.EstadoCostura { return &model.EstadoCostura{Registro: r} },
				"Corte", "Costura", "Lavandería", "Acabado")
		}},
	}

	for _, p := range pasos {
		n, err := p.fn()
		if err != nil {
			log.Fatal().Err(err).Str("tabla", p.tabla).Msg("seed failed")
		}
		log.Info().Str("tabla", p.tabla).Int("creados", n).Msg("seed ok")
	}
}

// sembrar inserts every name that is not present yet, appended at the end
// of the manual order.
func sembrar[T any](ctx context.Context, db *gorm.DB, nuevo func(model.Registro) *T, nombres ...string) (int, error) {
	repo := repository.NewRepositorio[T](db, repository.OrdenManual)
	creados := 0
	for _, nombre := range nombres {
		var total int64
		if err := db.WithContext(ctx).Model(new(T)).Where("nombre = ?", nombre).Count(&total).Error; err != nil {
			return creados, err
		}
		if total > 0 {
			continue
		}
		orden, err := repo.SiguienteOrden(ctx)
		if err != nil {
			return creados, err
		}
		if err := repo.Crear(ctx, nuevo(model.NuevoRegistro(nombre, nil, true, orden))); err != nil {
			return creados, err
		}
		creados++
	}
	return creados, nil
}
