package service

import (
	"context"
	"errors"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CatalogoService defines the operations every collection exposes.
type CatalogoService[T any, C any, U any] interface {
	Crear(ctx context.Context, req C) (*T, error)
	Listar(ctx context.Context, f dto.ListaFiltro) ([]T, error)
	Contar(ctx context.Context, f dto.ListaFiltro) (int64, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*T, error)
	Actualizar(ctx context.Context, id uuid.UUID, req U) (*T, error)
	Eliminar(ctx context.Context, id uuid.UUID) (dto.EliminadoResponse, error)
	Reordenar(ctx context.Context, items []dto.ReordenItem) (dto.ReordenResponse, error)
}

// Conversor adapts the request DTOs of one collection to its model.
type Conversor[T any, C any, U any] struct {
	Nuevo   func(req C, orden int) *T
	Cambios func(req U) map[string]any
	// Archivos lists the storage keys a record owns; they are queued for
	// deletion together with the record. Nil when the collection has no files.
	Archivos func(e *T) []string
}

// Paginacion bounds list requests.
type Paginacion struct {
	PorDefecto int
	Maximo     int
}

// PaginacionPorDefecto mirrors LIST_DEFAULT_LIMIT / LIST_MAX_LIMIT defaults.
var PaginacionPorDefecto = Paginacion{PorDefecto: 100, Maximo: 500}

// ColaArchivos receives storage keys that are no longer referenced.
type ColaArchivos interface {
	EncolarEliminacion(ctx context.Context, claves ...string) error
}

// OpcionesCatalogo configures a CatalogoService.
type OpcionesCatalogo struct {
	// Ordenado collections get orden = max+1 on create and accept reorder.
	Ordenado bool
	// ConAprobado collections honour the aprobado filter.
	ConAprobado bool
	Paginacion  Paginacion
	Cola        ColaArchivos
}

type catalogoService[T any, C any, U any] struct {
	repo repository.Repositorio[T]
	conv Conversor[T, C, U]
	opts OpcionesCatalogo
}

func NewCatalogoService[T any, C any, U any](repo repository.Repositorio[T], conv Conversor[T, C, U], opts OpcionesCatalogo) CatalogoService[T, C, U] {
	return newCatalogoService(repo, conv, opts)
}

func newCatalogoService[T any, C any, U any](repo repository.Repositorio[T], conv Conversor[T, C, U], opts OpcionesCatalogo) *catalogoService[T, C, U] {
	if opts.Paginacion.PorDefecto <= 0 || opts.Paginacion.Maximo <= 0 {
		opts.Paginacion = PaginacionPorDefecto
	}
	return &catalogoService[T, C, U]{repo: repo, conv: conv, opts: opts}
}

func (s *catalogoService[T, C, U]) siguienteOrden(ctx context.Context) (int, error) {
	if !s.opts.Ordenado {
		return 0, nil
	}
	return s.repo.SiguienteOrden(ctx)
}

func (s *catalogoService[T, C, U]) Crear(ctx context.Context, req C) (*T, error) {
	orden, err := s.siguienteOrden(ctx)
	if err != nil {
		return nil, err
	}
	e := s.conv.Nuevo(req, orden)
	if err := s.repo.Crear(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// filtro validates pagination and builds the repository filter.
func (s *catalogoService[T, C, U]) filtro(f dto.ListaFiltro) (repository.Filtro, error) {
	if f.Skip < 0 {
		return repository.Filtro{}, invalida("skip debe ser mayor o igual a 0")
	}
	if f.Limit < 0 {
		return repository.Filtro{}, invalida("limit debe ser mayor o igual a 1")
	}
	limit := f.Limit
	if limit == 0 {
		limit = s.opts.Paginacion.PorDefecto
	}
	if limit > s.opts.Paginacion.Maximo {
		limit = s.opts.Paginacion.Maximo
	}
	out := repository.Filtro{Search: f.Search, Activo: f.Activo, Limit: limit, Skip: f.Skip}
	if s.opts.ConAprobado && f.Aprobado != nil {
		out.Igual = map[string]any{"aprobado": *f.Aprobado}
	}
	return out, nil
}

func (s *catalogoService[T, C, U]) Listar(ctx context.Context, f dto.ListaFiltro) ([]T, error) {
	filtro, err := s.filtro(f)
	if err != nil {
		return nil, err
	}
	return s.repo.Listar(ctx, filtro)
}

func (s *catalogoService[T, C, U]) Contar(ctx context.Context, f dto.ListaFiltro) (int64, error) {
	filtro, err := s.filtro(f)
	if err != nil {
		return 0, err
	}
	filtro.Limit, filtro.Skip = 0, 0
	return s.repo.Contar(ctx, filtro)
}

func (s *catalogoService[T, C, U]) ObtenerPorID(ctx context.Context, id uuid.UUID) (*T, error) {
	e, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, traducir(err)
	}
	return e, nil
}

func (s *catalogoService[T, C, U]) Actualizar(ctx context.Context, id uuid.UUID, req U) (*T, error) {
	campos := s.conv.Cambios(req)
	if len(campos) == 0 {
		return nil, ErrSinCambios
	}
	e, err := s.repo.Actualizar(ctx, id, campos)
	if err != nil {
		return nil, traducir(err)
	}
	return e, nil
}

func (s *catalogoService[T, C, U]) Eliminar(ctx context.Context, id uuid.UUID) (dto.EliminadoResponse, error) {
	var claves []string
	if s.conv.Archivos != nil {
		e, err := s.repo.ObtenerPorID(ctx, id)
		if err != nil {
			return dto.EliminadoResponse{}, traducir(err)
		}
		claves = s.conv.Archivos(e)
	}
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return dto.EliminadoResponse{}, traducir(err)
	}
	encolar(ctx, s.opts.Cola, claves...)
	return dto.EliminadoResponse{Message: "Item eliminado correctamente", ID: id}, nil
}

func (s *catalogoService[T, C, U]) Reordenar(ctx context.Context, items []dto.ReordenItem) (dto.ReordenResponse, error) {
	if !s.opts.Ordenado {
		return dto.ReordenResponse{}, invalida("la coleccion no admite reordenamiento")
	}
	if len(items) == 0 {
		return dto.ReordenResponse{}, invalida("no se recibieron elementos para reordenar")
	}
	n := s.repo.Reordenar(ctx, items)
	return dto.ReordenResponse{Message: "Orden actualizado", Actualizados: n}, nil
}

// encolar hands unreferenced keys to the cleanup queue. A failure leaves an
// orphan blob behind, which is logged but does not fail the request.
func encolar(ctx context.Context, cola ColaArchivos, claves ...string) {
	validas := claves[:0:0]
	for _, c := range claves {
		if c != "" {
			validas = append(validas, c)
		}
	}
	if cola == nil || len(validas) == 0 {
		return
	}
	if err := cola.EncolarEliminacion(ctx, validas...); err != nil {
		log.Warn().Err(err).Strs("claves", validas).Msg("no se pudo encolar la eliminacion de archivos")
	}
}

// esNoEncontrado reports whether err means the record does not exist.
func esNoEncontrado(err error) bool { return errors.Is(traducir(err), ErrNoEncontrado) }
