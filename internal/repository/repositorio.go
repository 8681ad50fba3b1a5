package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/angelous0/muestras/internal/dto"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Orden selects how a collection is sorted.
type Orden int

const (
	// OrdenManual sorts by the explicit orden column; new rows go last.
	OrdenManual Orden = iota
	// OrdenReciente sorts newest first by created_at.
	OrdenReciente
)

// Filtro narrows List and Count. Igual holds exact-match conditions on
// columns chosen by the service layer, never by the client.
type Filtro struct {
	Search string
	Activo *bool
	Igual  map[string]any
	Limit  int
	Skip   int
}

// Repositorio is the data access contract shared by every collection.
// Lookups of a missing id return gorm.ErrRecordNotFound.
type Repositorio[T any] interface {
	Crear(ctx context.Context, e *T) error
	Listar(ctx context.Context, f Filtro) ([]T, error)
	Contar(ctx context.Context, f Filtro) (int64, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*T, error)

	// Actualizar writes campos (column → value) and refreshes updated_at.
	Actualizar(ctx context.Context, id uuid.UUID, campos map[string]any) (*T, error)

	// Modificar locks the row, lets fn derive the columns to write from the
	// stored state and applies them in the same transaction. fn must not
	// touch the database itself.
	Modificar(ctx context.Context, id uuid.UUID, fn func(actual *T) (map[string]any, error)) (*T, error)

	Eliminar(ctx context.Context, id uuid.UUID) error

	// Reordenar applies each orden independently and returns how many rows
	// were touched. Failed items are logged and skipped.
	Reordenar(ctx context.Context, items []dto.ReordenItem) int

	// SiguienteOrden returns max(orden)+1 for the collection.
	SiguienteOrden(ctx context.Context) (int, error)
}

type gormRepositorio[T any] struct {
	db    *gorm.DB
	orden Orden
}

func NewRepositorio[T any](db *gorm.DB, orden Orden) Repositorio[T] {
	return &gormRepositorio[T]{db: db, orden: orden}
}

func (r *gormRepositorio[T]) Crear(ctx context.Context, e *T) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *gormRepositorio[T]) filtrar(ctx context.Context, f Filtro) *gorm.DB {
	q := r.db.WithContext(ctx).Model(new(T))
	if f.Search != "" {
		// Literal, case-insensitive substring match; LIKE wildcards in the input are escaped.
		q = q.Where(`LOWER(nombre) LIKE ? ESCAPE '\'`, "%"+escaparLike(strings.ToLower(f.Search))+"%")
	}
	if f.Activo != nil {
		q = q.Where("activo = ?", *f.Activo)
	}
	columnas := make([]string, 0, len(f.Igual))
	for col := range f.Igual {
		columnas = append(columnas, col)
	}
	sort.Strings(columnas)
	for _, col := range columnas {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: f.Igual[col]})
	}
	return q
}

func (r *gormRepositorio[T]) Listar(ctx context.Context, f Filtro) ([]T, error) {
	q := r.filtrar(ctx, f)
	switch r.orden {
	case OrdenManual:
		q = q.Order("orden ASC").Order("nombre ASC")
	default:
		q = q.Order("created_at DESC")
	}
	if f.Skip > 0 {
		q = q.Offset(f.Skip)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	list := make([]T, 0)
	err := q.Find(&list).Error
	return list, err
}

func (r *gormRepositorio[T]) Contar(ctx context.Context, f Filtro) (int64, error) {
	var total int64
	err := r.filtrar(ctx, f).Count(&total).Error
	return total, err
}

func (r *gormRepositorio[T]) ObtenerPorID(ctx context.Context, id uuid.UUID) (*T, error) {
	var e T
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *gormRepositorio[T]) Actualizar(ctx context.Context, id uuid.UUID, campos map[string]any) (*T, error) {
	campos["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(campos)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.ObtenerPorID(ctx, id)
}

func (r *gormRepositorio[T]) Modificar(ctx context.Context, id uuid.UUID, fn func(actual *T) (map[string]any, error)) (*T, error) {
	var out T
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var actual T
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&actual, "id = ?", id).Error; err != nil {
			return err
		}
		campos, err := fn(&actual)
		if err != nil {
			return err
		}
		if len(campos) > 0 {
			campos["updated_at"] = time.Now().UTC()
			if err := tx.Model(new(T)).Where("id = ?", id).Updates(campos).Error; err != nil {
				return err
			}
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gormRepositorio[T]) Eliminar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepositorio[T]) Reordenar(ctx context.Context, items []dto.ReordenItem) int {
	now := time.Now().UTC()
	tocados := 0
	for _, it := range items {
		res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", it.ID).
			Updates(map[string]any{"orden": it.Orden, "updated_at": now})
		if res.Error != nil {
			log.Warn().Err(res.Error).Str("id", it.ID.String()).Int("orden", it.Orden).Msg("reorder: item skipped")
			continue
		}
		tocados += int(res.RowsAffected)
	}
	return tocados
}

func (r *gormRepositorio[T]) SiguienteOrden(ctx context.Context) (int, error) {
	var maximo int64
	err := r.db.WithContext(ctx).Model(new(T)).Select("COALESCE(MAX(orden), 0)").Scan(&maximo).Error
	if err != nil {
		return 0, err
	}
	return int(maximo) + 1, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escaparLike(s string) string { return likeEscaper.Replace(s) }
