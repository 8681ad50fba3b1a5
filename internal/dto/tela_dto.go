package dto

import "github.com/shopspring/decimal"

type CrearTelaRequest struct {
	CrearCatalogoRequest
	Composicion   *string          `json:"composicion"`
	Gramaje       *decimal.Decimal `json:"gramaje"       validate:"omitempty,min=0"`
	Elasticidad   *string          `json:"elasticidad"`
	Proveedor     *string          `json:"proveedor"`
	Ancho         *decimal.Decimal `json:"ancho"         validate:"omitempty,min=0"`
	Color         *string          `json:"color"`
	Precio        *decimal.Decimal `json:"precio"        validate:"omitempty,min=0"`
	Clasificacion *string          `json:"clasificacion"`
}

type ActualizarTelaRequest struct {
	ActualizarCatalogoRequest
	Composicion   *string          `json:"composicion"`
	Gramaje       *decimal.Decimal `json:"gramaje"       validate:"omitempty,min=0"`
	Elasticidad   *string          `json:"elasticidad"`
	Proveedor     *string          `json:"proveedor"`
	Ancho         *decimal.Decimal `json:"ancho"         validate:"omitempty,min=0"`
	Color         *string          `json:"color"`
	Precio        *decimal.Decimal `json:"precio"        validate:"omitempty,min=0"`
	Clasificacion *string          `json:"clasificacion"`
}
