package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Marca{}, &model.TipoProducto{}, &model.Entalle{}, &model.Tela{}, &model.Hilo{},
		&model.EstadoCostura{}, &model.MuestraBase{}, &model.Ficha{}, &model.Tizado{}, &model.Base{},
	))
	return db
}

// ── In-memory Almacenamiento stub ────────────────────────────────────────────

type memAlmacen struct {
	mu       sync.Mutex
	archivos map[string][]byte
	fallar   error
}

func newMemAlmacen() *memAlmacen {
	return &memAlmacen{archivos: make(map[string][]byte)}
}

func (m *memAlmacen) Guardar(_ context.Context, categoria, nombre string, r io.Reader, _ int64, _ string) (string, error) {
	if m.fallar != nil {
		return "", m.fallar
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	clave := infra.NuevaClave(categoria, nombre)
	m.mu.Lock()
	m.archivos[clave] = data
	m.mu.Unlock()
	return clave, nil
}

func (m *memAlmacen) Obtener(_ context.Context, clave string) (*infra.Descarga, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.archivos[clave]
	if !ok {
		return nil, infra.ErrArchivoNoEncontrado
	}
	return &infra.Descarga{Contenido: io.NopCloser(bytes.NewReader(data)), Tamano: int64(len(data))}, nil
}

func (m *memAlmacen) Eliminar(_ context.Context, clave string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.archivos[clave]; !ok {
		return infra.ErrArchivoNoEncontrado
	}
	delete(m.archivos, clave)
	return nil
}

// ── ColaArchivos spy ─────────────────────────────────────────────────────────

type colaSpy struct {
	claves []string
}

func (c *colaSpy) EncolarEliminacion(_ context.Context, claves ...string) error {
	c.claves = append(c.claves, claves...)
	return nil
}

func archivoDe(nombre, contenido string) ArchivoEntrante {
	return ArchivoEntrante{Nombre: nombre, Tamano: int64(len(contenido)), Contenido: strings.NewReader(contenido)}
}

func ptr[V any](v V) *V { return &v }
