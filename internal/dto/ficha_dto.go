package dto

import "github.com/shopspring/decimal"

// Fichas only carry the base shape; the document goes through the upload endpoint.
type CrearFichaRequest = CrearCatalogoRequest
type ActualizarFichaRequest = ActualizarCatalogoRequest

type CrearTizadoRequest struct {
	CrearCatalogoRequest
	Ancho    *decimal.Decimal `json:"ancho"     validate:"omitempty,min=0"`
	Curva    *string          `json:"curva"`
	BasesIDs []string         `json:"bases_ids" validate:"omitempty,dive,uuid"`
}

type ActualizarTizadoRequest struct {
	ActualizarCatalogoRequest
	Ancho    *decimal.Decimal `json:"ancho"     validate:"omitempty,min=0"`
	Curva    *string          `json:"curva"`
	BasesIDs []string         `json:"bases_ids" validate:"omitempty,dive,uuid"`
}
