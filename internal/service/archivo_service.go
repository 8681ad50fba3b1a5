package service

import (
	"context"
	"errors"
	"io"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/google/uuid"
)

// Storage categories. Keys are prefixed with the category they were uploaded under.
const (
	CategoriaCostos   = "costos"
	CategoriaFichas   = "fichas"
	CategoriaTizados  = "tizados"
	CategoriaPatrones = "patrones"
	CategoriaImagenes = "imagenes"
)

var categoriasValidas = map[string]bool{
	CategoriaCostos:   true,
	CategoriaFichas:   true,
	CategoriaTizados:  true,
	CategoriaPatrones: true,
	CategoriaImagenes: true,
}

// ArchivoEntrante is one uploaded file as received by the handler.
type ArchivoEntrante struct {
	Nombre      string
	ContentType string
	Tamano      int64
	Contenido   io.Reader
}

// ArchivoService stores and serves files that are not tied to a record.
type ArchivoService interface {
	Subir(ctx context.Context, categoria string, a ArchivoEntrante) (dto.ArchivoResponse, error)
	Obtener(ctx context.Context, clave string) (*infra.Descarga, error)
}

type archivoService struct {
	almacen infra.Almacenamiento
}

func NewArchivoService(almacen infra.Almacenamiento) ArchivoService {
	return &archivoService{almacen: almacen}
}

func (s *archivoService) Subir(ctx context.Context, categoria string, a ArchivoEntrante) (dto.ArchivoResponse, error) {
	if !categoriasValidas[categoria] {
		return dto.ArchivoResponse{}, invalida("categoria %q no valida", categoria)
	}
	clave, err := guardar(ctx, s.almacen, categoria, a)
	if err != nil {
		return dto.ArchivoResponse{}, err
	}
	return dto.ArchivoResponse{Clave: clave, Nombre: a.Nombre, Categoria: categoria, Tamano: a.Tamano}, nil
}

func (s *archivoService) Obtener(ctx context.Context, clave string) (*infra.Descarga, error) {
	d, err := s.almacen.Obtener(ctx, clave)
	if err != nil {
		return nil, errorAlmacen(err)
	}
	return d, nil
}

func guardar(ctx context.Context, almacen infra.Almacenamiento, categoria string, a ArchivoEntrante) (string, error) {
	clave, err := almacen.Guardar(ctx, categoria, a.Nombre, a.Contenido, a.Tamano, a.ContentType)
	if err != nil {
		return "", almacenamiento(err)
	}
	return clave, nil
}

func errorAlmacen(err error) error {
	if errors.Is(err, infra.ErrArchivoNoEncontrado) || errors.Is(err, infra.ErrClaveInvalida) {
		return ErrNoEncontrado
	}
	return almacenamiento(err)
}

// ── Archivo único por registro ───────────────────────────────────────────────

// ArchivoUnicoService attaches a single file to a record, replacing any
// previous one.
type ArchivoUnicoService[T any] interface {
	SubirArchivo(ctx context.Context, id uuid.UUID, a ArchivoEntrante) (*T, error)
	QuitarArchivo(ctx context.Context, id uuid.UUID) (*T, error)
}

type archivoUnico[T any] struct {
	repo      repository.Repositorio[T]
	almacen   infra.Almacenamiento
	cola      ColaArchivos
	categoria string
	columna   string
	actual    func(*T) *string
}

func (s *archivoUnico[T]) SubirArchivo(ctx context.Context, id uuid.UUID, a ArchivoEntrante) (*T, error) {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return nil, traducir(err)
	}
	clave, err := guardar(ctx, s.almacen, s.categoria, a)
	if err != nil {
		return nil, err
	}

	var anterior string
	e, err := s.repo.Modificar(ctx, id, func(e *T) (map[string]any, error) {
		anterior = valor(s.actual(e))
		return map[string]any{s.columna: clave}, nil
	})
	if err != nil {
		encolar(ctx, s.cola, clave)
		return nil, traducir(err)
	}
	encolar(ctx, s.cola, anterior)
	return e, nil
}

func (s *archivoUnico[T]) QuitarArchivo(ctx context.Context, id uuid.UUID) (*T, error) {
	var anterior string
	e, err := s.repo.Modificar(ctx, id, func(e *T) (map[string]any, error) {
		anterior = valor(s.actual(e))
		if anterior == "" {
			return nil, nil
		}
		return map[string]any{s.columna: nil}, nil
	})
	if err != nil {
		return nil, traducir(err)
	}
	encolar(ctx, s.cola, anterior)
	return e, nil
}

// ── Colecciones con un archivo ───────────────────────────────────────────────

// ConArchivoService is a collection whose records carry one attached file.
type ConArchivoService[T any, C any, U any] interface {
	CatalogoService[T, C, U]
	ArchivoUnicoService[T]
}

type conArchivoService[T any, C any, U any] struct {
	*catalogoService[T, C, U]
	*archivoUnico[T]
}

// NewConArchivoService builds a collection service whose records own the file
// stored in columna (read back through actual).
func NewConArchivoService[T any, C any, U any](
	repo repository.Repositorio[T],
	conv Conversor[T, C, U],
	opts OpcionesCatalogo,
	almacen infra.Almacenamiento,
	categoria, columna string,
	actual func(*T) *string,
) ConArchivoService[T, C, U] {
	return newConArchivoService(repo, conv, opts, almacen, categoria, columna, actual)
}

func newConArchivoService[T any, C any, U any](
	repo repository.Repositorio[T],
	conv Conversor[T, C, U],
	opts OpcionesCatalogo,
	almacen infra.Almacenamiento,
	categoria, columna string,
	actual func(*T) *string,
) *conArchivoService[T, C, U] {
	return &conArchivoService[T, C, U]{
		catalogoService: newCatalogoService(repo, conv, opts),
		archivoUnico: &archivoUnico[T]{
			repo:      repo,
			almacen:   almacen,
			cola:      opts.Cola,
			categoria: categoria,
			columna:   columna,
			actual:    actual,
		},
	}
}
