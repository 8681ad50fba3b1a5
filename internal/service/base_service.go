package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BaseService interface {
	CatalogoService[model.Base, dto.CrearBaseRequest, dto.ActualizarBaseRequest]
	Patron() ArchivoUnicoService[model.Base]
	Imagen() ArchivoUnicoService[model.Base]

	// AgregarAdjuntos appends files to the fichas or tizados family. nombres
	// is optional; a missing or blank name defaults to the uploaded file name.
	AgregarAdjuntos(ctx context.Context, id uuid.UUID, categoria string, archivos []ArchivoEntrante, nombres []string) (*model.Base, error)
	// QuitarAdjunto removes the entry at indice from both parallel lists.
	QuitarAdjunto(ctx context.Context, id uuid.UUID, categoria string, indice int) (*model.Base, error)
	// GenerarChecklist renders the delivery checklist of one family as PDF.
	GenerarChecklist(ctx context.Context, id uuid.UUID, categoria string) ([]byte, string, error)
}

type baseService struct {
	*catalogoService[model.Base, dto.CrearBaseRequest, dto.ActualizarBaseRequest]
	repo    repository.Repositorio[model.Base]
	almacen infra.Almacenamiento
	cola    ColaArchivos
	patron  *archivoUnico[model.Base]
	imagen  *archivoUnico[model.Base]
}

func NewBaseService(repo repository.Repositorio[model.Base], almacen infra.Almacenamiento, opts OpcionesCatalogo) BaseService {
	opts.Ordenado = false
	opts.ConAprobado = true
	return &baseService{
		catalogoService: newCatalogoService(repo, ConversorBase, opts),
		repo:            repo,
		almacen:         almacen,
		cola:            opts.Cola,
		patron: &archivoUnico[model.Base]{
			repo: repo, almacen: almacen, cola: opts.Cola,
			categoria: CategoriaPatrones, columna: "patron_archivo",
			actual: func(b *model.Base) *string { return b.PatronArchivo },
		},
		imagen: &archivoUnico[model.Base]{
			repo: repo, almacen: almacen, cola: opts.Cola,
			categoria: CategoriaImagenes, columna: "imagen_archivo",
			actual: func(b *model.Base) *string { return b.ImagenArchivo },
		},
	}
}

func (s *baseService) Patron() ArchivoUnicoService[model.Base] { return s.patron }
func (s *baseService) Imagen() ArchivoUnicoService[model.Base] { return s.imagen }

func columnasAdjunto(categoria string) ([2]string, error) {
	cols, ok := model.ColumnasAdjunto[categoria]
	if !ok {
		return cols, invalida("categoria %q no valida, use fichas o tizados", categoria)
	}
	return cols, nil
}

func (s *baseService) AgregarAdjuntos(ctx context.Context, id uuid.UUID, categoria string, archivos []ArchivoEntrante, nombres []string) (*model.Base, error) {
	cols, err := columnasAdjunto(categoria)
	if err != nil {
		return nil, err
	}
	if len(archivos) == 0 {
		return nil, invalida("no se recibieron archivos")
	}
	if len(nombres) > len(archivos) {
		return nil, invalida("se recibieron %d nombres para %d archivos", len(nombres), len(archivos))
	}
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return nil, traducir(err)
	}

	claves := make([]string, 0, len(archivos))
	etiquetas := make([]string, 0, len(archivos))
	for i, a := range archivos {
		clave, err := guardar(ctx, s.almacen, categoria, a)
		if err != nil {
			encolar(ctx, s.cola, claves...)
			return nil, err
		}
		claves = append(claves, clave)
		etiqueta := a.Nombre
		if i < len(nombres) && strings.TrimSpace(nombres[i]) != "" {
			etiqueta = strings.TrimSpace(nombres[i])
		}
		etiquetas = append(etiquetas, etiqueta)
	}

	b, err := s.repo.Modificar(ctx, id, func(b *model.Base) (map[string]any, error) {
		rutas, etiq, _ := b.Adjuntos(categoria)
		nuevasRutas := append(datatypes.JSONSlice[string]{}, *rutas...)
		nuevasEtiq := alinear(nuevasRutas, *etiq)
		return map[string]any{
			cols[0]: append(nuevasRutas, claves...),
			cols[1]: append(nuevasEtiq, etiquetas...),
		}, nil
	})
	if err != nil {
		encolar(ctx, s.cola, claves...)
		return nil, traducir(err)
	}
	return b, nil
}

func (s *baseService) QuitarAdjunto(ctx context.Context, id uuid.UUID, categoria string, indice int) (*model.Base, error) {
	cols, err := columnasAdjunto(categoria)
	if err != nil {
		return nil, err
	}

	var quitada string
	b, err := s.repo.Modificar(ctx, id, func(b *model.Base) (map[string]any, error) {
		rutas, etiq, _ := b.Adjuntos(categoria)
		if indice < 0 || indice >= len(*rutas) {
			return nil, invalida("indice %d fuera de rango", indice)
		}
		nuevasRutas := append(datatypes.JSONSlice[string]{}, *rutas...)
		nuevasEtiq := alinear(nuevasRutas, *etiq)
		quitada = nuevasRutas[indice]
		return map[string]any{
			cols[0]: append(nuevasRutas[:indice], nuevasRutas[indice+1:]...),
			cols[1]: append(nuevasEtiq[:indice], nuevasEtiq[indice+1:]...),
		}, nil
	})
	if err != nil {
		return nil, traducir(err)
	}
	encolar(ctx, s.cola, quitada)
	return b, nil
}

// alinear returns a copy of nombres with exactly len(rutas) entries. Rows
// written before the lists were kept in step get the file name as label.
func alinear(rutas, nombres datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], len(rutas))
	for i, r := range rutas {
		if i < len(nombres) {
			out[i] = nombres[i]
		} else {
			out[i] = path.Base(r)
		}
	}
	return out
}

func (s *baseService) GenerarChecklist(ctx context.Context, id uuid.UUID, categoria string) ([]byte, string, error) {
	if _, err := columnasAdjunto(categoria); err != nil {
		return nil, "", err
	}
	b, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, "", traducir(err)
	}
	rutas, etiq, _ := b.Adjuntos(categoria)
	pdf, err := infra.GenerarChecklistPDF(infra.Checklist{
		Titulo: "CHECKLIST " + strings.ToUpper(categoria),
		Base:   b.Nombre,
		Items:  alinear(*rutas, *etiq),
		Fecha:  time.Now(),
	})
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("checklist_%s_%s.pdf", categoria, b.ID.String()[:8]), nil
}
