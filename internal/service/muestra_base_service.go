package service

import (
	"context"
	"strings"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/google/uuid"
)

type MuestraBaseService interface {
	ConArchivoService[model.MuestraBase, dto.CrearMuestraBaseRequest, dto.ActualizarMuestraBaseRequest]
}

// CatalogosReferencia gives access to the catalogs a MuestraBase points to.
type CatalogosReferencia struct {
	Marcas        repository.Repositorio[model.Marca]
	TiposProducto repository.Repositorio[model.TipoProducto]
	Telas         repository.Repositorio[model.Tela]
	Entalles      repository.Repositorio[model.Entalle]
}

type muestraBaseService struct {
	*conArchivoService[model.MuestraBase, dto.CrearMuestraBaseRequest, dto.ActualizarMuestraBaseRequest]
	repo repository.Repositorio[model.MuestraBase]
	refs CatalogosReferencia
}

func NewMuestraBaseService(
	repo repository.Repositorio[model.MuestraBase],
	refs CatalogosReferencia,
	almacen infra.Almacenamiento,
	opts OpcionesCatalogo,
) MuestraBaseService {
	opts.Ordenado = false
	opts.ConAprobado = true
	conv := Conversor[model.MuestraBase, dto.CrearMuestraBaseRequest, dto.ActualizarMuestraBaseRequest]{
		Archivos: func(m *model.MuestraBase) []string { return []string{valor(m.ArchivoCostos)} },
	}
	return &muestraBaseService{
		conArchivoService: newConArchivoService(repo, conv, opts, almacen, CategoriaCostos, "archivo_costos",
			func(m *model.MuestraBase) *string { return m.ArchivoCostos }),
		repo: repo,
		refs: refs,
	}
}

func (s *muestraBaseService) Crear(ctx context.Context, req dto.CrearMuestraBaseRequest) (*model.MuestraBase, error) {
	m := &model.MuestraBase{
		Registro:       model.NuevoRegistro(strings.TrimSpace(req.Nombre), req.Descripcion, valorOr(req.Activo, true), 0),
		MarcaID:        referencia(req.MarcaID),
		TipoProductoID: referencia(req.TipoProductoID),
		EntalleID:      referencia(req.EntalleID),
		TelaID:         referencia(req.TelaID),
		ConsumoTela:    req.ConsumoTela,
		CostoEstimado:  req.CostoEstimado,
		PrecioEstimado: req.PrecioEstimado,
		Aprobado:       valorOr(req.Aprobado, false),
	}
	m.RentabilidadEsperada = Rentabilidad(m.CostoEstimado, m.PrecioEstimado)

	if m.Nombre == "" {
		nombre, err := s.componerNombre(ctx, m.MarcaID, m.TipoProductoID, m.TelaID, m.EntalleID)
		if err != nil {
			return nil, err
		}
		m.Nombre = nombre
	}

	if err := s.repo.Crear(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Actualizar writes the sent fields. Profitability is recomputed from the
// merged cost and price whenever either is sent; nombre "" regenerates the
// composite name from the merged references.
func (s *muestraBaseService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMuestraBaseRequest) (*model.MuestraBase, error) {
	campos := map[string]any{}
	regenerar := req.Nombre != nil && strings.TrimSpace(*req.Nombre) == ""
	if !regenerar {
		ponerTexto(campos, "nombre", req.Nombre)
	}
	ponerTexto(campos, "descripcion", req.Descripcion)
	if req.Activo != nil {
		campos["activo"] = *req.Activo
	}
	ponerReferencia(campos, "marca_id", req.MarcaID)
	ponerReferencia(campos, "tipo_producto_id", req.TipoProductoID)
	ponerReferencia(campos, "entalle_id", req.EntalleID)
	ponerReferencia(campos, "tela_id", req.TelaID)
	ponerDecimal(campos, "consumo_tela", req.ConsumoTela)
	ponerDecimal(campos, "costo_estimado", req.CostoEstimado)
	ponerDecimal(campos, "precio_estimado", req.PrecioEstimado)
	if req.Aprobado != nil {
		campos["aprobado"] = *req.Aprobado
	}
	if len(campos) == 0 && !regenerar {
		return nil, ErrSinCambios
	}

	// Names are resolved outside the row lock; Modificar's fn must stay DB-free.
	var nombre string
	if regenerar {
		actual, err := s.repo.ObtenerPorID(ctx, id)
		if err != nil {
			return nil, traducir(err)
		}
		nombre, err = s.componerNombre(ctx,
			primero(referencia(req.MarcaID), actual.MarcaID),
			primero(referencia(req.TipoProductoID), actual.TipoProductoID),
			primero(referencia(req.TelaID), actual.TelaID),
			primero(referencia(req.EntalleID), actual.EntalleID),
		)
		if err != nil {
			return nil, err
		}
	}

	recalcular := req.CostoEstimado != nil || req.PrecioEstimado != nil
	m, err := s.repo.Modificar(ctx, id, func(actual *model.MuestraBase) (map[string]any, error) {
		if regenerar {
			campos["nombre"] = nombre
		}
		if recalcular {
			costo := primero(req.CostoEstimado, actual.CostoEstimado)
			precio := primero(req.PrecioEstimado, actual.PrecioEstimado)
			if r := Rentabilidad(costo, precio); r != nil {
				campos["rentabilidad_esperada"] = *r
			} else {
				campos["rentabilidad_esperada"] = nil
			}
		}
		return campos, nil
	})
	if err != nil {
		return nil, traducir(err)
	}
	return m, nil
}

func (s *muestraBaseService) componerNombre(ctx context.Context, marca, tipo, tela, entalle *uuid.UUID) (string, error) {
	nombres := make([]string, 0, 4)
	for _, buscar := range []func() (string, error){
		func() (string, error) { return nombreDe(ctx, s.refs.Marcas, marca) },
		func() (string, error) { return nombreDe(ctx, s.refs.TiposProducto, tipo) },
		func() (string, error) { return nombreDe(ctx, s.refs.Telas, tela) },
		func() (string, error) { return nombreDe(ctx, s.refs.Entalles, entalle) },
	} {
		n, err := buscar()
		if err != nil {
			return "", err
		}
		nombres = append(nombres, n)
	}
	return NombreCompuesto(nombres[0], nombres[1], nombres[2], nombres[3]), nil
}

type conNombre interface {
	NombreVisible() string
}

// nombreDe resolves the display name of a referenced record. A missing
// reference or a dangling id yields "".
func nombreDe[T conNombre](ctx context.Context, repo repository.Repositorio[T], id *uuid.UUID) (string, error) {
	if repo == nil || id == nil {
		return "", nil
	}
	e, err := repo.ObtenerPorID(ctx, *id)
	if err != nil {
		if esNoEncontrado(err) {
			return "", nil
		}
		return "", err
	}
	return (*e).NombreVisible(), nil
}

func primero[V any](a, b *V) *V {
	if a != nil {
		return a
	}
	return b
}
