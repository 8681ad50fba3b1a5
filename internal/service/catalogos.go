package service

import (
	"strings"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Conversores for the simple catalogs. Each maps the request DTOs onto the
// model; update maps only carry the fields the client actually sent.

var ConversorMarca = Conversor[model.Marca, dto.CrearCatalogoRequest, dto.ActualizarCatalogoRequest]{
	Nuevo: func(req dto.CrearCatalogoRequest, orden int) *model.Marca {
		return &model.Marca{Registro: registroDesde(req, orden)}
	},
	Cambios: camposRegistro,
}

var ConversorTipoProducto = Conversor[model.TipoProducto, dto.CrearCatalogoRequest, dto.ActualizarCatalogoRequest]{
	Nuevo: func(req dto.CrearCatalogoRequest, orden int) *model.TipoProducto {
		return &model.TipoProducto{Registro: registroDesde(req, orden)}
	},
	Cambios: camposRegistro,
}

var ConversorEntalle = Conversor[model.Entalle, dto.CrearCatalogoRequest, dto.ActualizarCatalogoRequest]{
	Nuevo: func(req dto.CrearCatalogoRequest, orden int) *model.Entalle {
		return &model.Entalle{Registro: registroDesde(req, orden)}
	},
	Cambios: camposRegistro,
}

var ConversorEstadoCostura = Conversor[model.EstadoCostura, dto.CrearCatalogoRequest, dto.ActualizarCatalogoRequest]{
	Nuevo: func(req dto.CrearCatalogoRequest, orden int) *model.EstadoCostura {
		return &model.EstadoCostura{Registro: registroDesde(req, orden)}
	},
	Cambios: camposRegistro,
}

var ConversorHilo = Conversor[model.Hilo, dto.CrearHiloRequest, dto.ActualizarHiloRequest]{
	Nuevo: func(req dto.CrearHiloRequest, orden int) *model.Hilo {
		return &model.Hilo{Registro: registroDesde(req.CrearCatalogoRequest, orden), Color: req.Color, Grosor: req.Grosor}
	},
	Cambios: func(req dto.ActualizarHiloRequest) map[string]any {
		campos := camposRegistro(req.ActualizarCatalogoRequest)
		ponerTexto(campos, "color", req.Color)
		ponerTexto(campos, "grosor", req.Grosor)
		return campos
	},
}

var ConversorTela = Conversor[model.Tela, dto.CrearTelaRequest, dto.ActualizarTelaRequest]{
	Nuevo: func(req dto.CrearTelaRequest, orden int) *model.Tela {
		return &model.Tela{
			Registro:      registroDesde(req.CrearCatalogoRequest, orden),
			Composicion:   req.Composicion,
			Gramaje:       req.Gramaje,
			Elasticidad:   req.Elasticidad,
			Proveedor:     req.Proveedor,
			Ancho:         req.Ancho,
			Color:         req.Color,
			Precio:        req.Precio,
			Clasificacion: req.Clasificacion,
		}
	},
	Cambios: func(req dto.ActualizarTelaRequest) map[string]any {
		campos := camposRegistro(req.ActualizarCatalogoRequest)
		ponerTexto(campos, "composicion", req.Composicion)
		ponerDecimal(campos, "gramaje", req.Gramaje)
		ponerTexto(campos, "elasticidad", req.Elasticidad)
		ponerTexto(campos, "proveedor", req.Proveedor)
		ponerDecimal(campos, "ancho", req.Ancho)
		ponerTexto(campos, "color", req.Color)
		ponerDecimal(campos, "precio", req.Precio)
		ponerTexto(campos, "clasificacion", req.Clasificacion)
		return campos
	},
}

var ConversorFicha = Conversor[model.Ficha, dto.CrearFichaRequest, dto.ActualizarFichaRequest]{
	Nuevo: func(req dto.CrearFichaRequest, orden int) *model.Ficha {
		return &model.Ficha{Registro: registroDesde(req, orden)}
	},
	Cambios:  camposRegistro,
	Archivos: func(f *model.Ficha) []string { return []string{valor(f.Archivo)} },
}

var ConversorTizado = Conversor[model.Tizado, dto.CrearTizadoRequest, dto.ActualizarTizadoRequest]{
	Nuevo: func(req dto.CrearTizadoRequest, orden int) *model.Tizado {
		t := &model.Tizado{
			Registro: registroDesde(req.CrearCatalogoRequest, orden),
			Ancho:    req.Ancho,
			Curva:    req.Curva,
			BasesIDs: append(datatypesVacio(), req.BasesIDs...),
		}
		return t
	},
	Cambios: func(req dto.ActualizarTizadoRequest) map[string]any {
		campos := camposRegistro(req.ActualizarCatalogoRequest)
		ponerDecimal(campos, "ancho", req.Ancho)
		ponerTexto(campos, "curva", req.Curva)
		// An explicit empty list clears the references.
		if req.BasesIDs != nil {
			campos["bases_ids"] = append(datatypesVacio(), req.BasesIDs...)
		}
		return campos
	},
	Archivos: func(t *model.Tizado) []string { return []string{valor(t.ArchivoTizado)} },
}

var ConversorBase = Conversor[model.Base, dto.CrearBaseRequest, dto.ActualizarBaseRequest]{
	Nuevo: func(req dto.CrearBaseRequest, orden int) *model.Base {
		return &model.Base{
			Registro:        registroDesde(req.CrearCatalogoRequest, orden),
			MuestraBaseID:   referencia(req.MuestraBaseID),
			HiloID:          referencia(req.HiloID),
			FichasArchivos:  datatypesVacio(),
			FichasNombres:   datatypesVacio(),
			TizadosArchivos: datatypesVacio(),
			TizadosNombres:  datatypesVacio(),
			Aprobado:        valorOr(req.Aprobado, false),
		}
	},
	Cambios: func(req dto.ActualizarBaseRequest) map[string]any {
		campos := camposRegistro(req.ActualizarCatalogoRequest)
		ponerReferencia(campos, "muestra_base_id", req.MuestraBaseID)
		ponerReferencia(campos, "hilo_id", req.HiloID)
		if req.Aprobado != nil {
			campos["aprobado"] = *req.Aprobado
		}
		return campos
	},
	Archivos: func(b *model.Base) []string {
		claves := []string{valor(b.PatronArchivo), valor(b.ImagenArchivo)}
		claves = append(claves, b.FichasArchivos...)
		return append(claves, b.TizadosArchivos...)
	},
}

// ── helpers ──────────────────────────────────────────────────────────────────

func registroDesde(req dto.CrearCatalogoRequest, orden int) model.Registro {
	return model.NuevoRegistro(strings.TrimSpace(req.Nombre), req.Descripcion, valorOr(req.Activo, true), orden)
}

func camposRegistro(req dto.ActualizarCatalogoRequest) map[string]any {
	campos := map[string]any{}
	if req.Nombre != nil {
		campos["nombre"] = strings.TrimSpace(*req.Nombre)
	}
	ponerTexto(campos, "descripcion", req.Descripcion)
	if req.Activo != nil {
		campos["activo"] = *req.Activo
	}
	return campos
}

func ponerTexto(campos map[string]any, col string, v *string) {
	if v != nil {
		campos[col] = *v
	}
}

func ponerDecimal(campos map[string]any, col string, v *decimal.Decimal) {
	if v != nil {
		campos[col] = *v
	}
}

// ponerReferencia writes a reference id. An empty string counts as absent.
func ponerReferencia(campos map[string]any, col string, v *string) {
	if id := referencia(v); id != nil {
		campos[col] = *id
	}
}

// referencia parses an optional id already validated by the DTO tags.
func referencia(v *string) *uuid.UUID {
	if v == nil || *v == "" {
		return nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil
	}
	return &id
}

func valor(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func valorOr[V any](p *V, def V) V {
	if p == nil {
		return def
	}
	return *p
}

func datatypesVacio() datatypes.JSONSlice[string] { return datatypes.JSONSlice[string]{} }
