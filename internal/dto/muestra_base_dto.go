package dto

import "github.com/shopspring/decimal"

// CrearMuestraBaseRequest creates a sample. When Nombre is blank the name is
// composed from the referenced brand, product type, fabric and fit.
type CrearMuestraBaseRequest struct {
	Nombre         string           `json:"nombre"           validate:"max=200"`
	Descripcion    *string          `json:"descripcion"`
	Activo         *bool            `json:"activo"`
	MarcaID        *string          `json:"marca_id"         validate:"omitempty,uuid"`
	TipoProductoID *string          `json:"tipo_producto_id" validate:"omitempty,uuid"`
	EntalleID      *string          `json:"entalle_id"       validate:"omitempty,uuid"`
	TelaID         *string          `json:"tela_id"          validate:"omitempty,uuid"`
	ConsumoTela    *decimal.Decimal `json:"consumo_tela"     validate:"omitempty,min=0"`
	CostoEstimado  *decimal.Decimal `json:"costo_estimado"   validate:"omitempty,min=0"`
	PrecioEstimado *decimal.Decimal `json:"precio_estimado"  validate:"omitempty,min=0"`
	Aprobado       *bool            `json:"aprobado"`
}

// ActualizarMuestraBaseRequest is a partial update. Sending nombre as "" asks
// for the composite name to be regenerated.
type ActualizarMuestraBaseRequest struct {
	Nombre         *string          `json:"nombre"           validate:"omitempty,max=200"`
	Descripcion    *string          `json:"descripcion"`
	Activo         *bool            `json:"activo"`
	MarcaID        *string          `json:"marca_id"         validate:"omitempty,uuid"`
	TipoProductoID *string          `json:"tipo_producto_id" validate:"omitempty,uuid"`
	EntalleID      *string          `json:"entalle_id"       validate:"omitempty,uuid"`
	TelaID         *string          `json:"tela_id"          validate:"omitempty,uuid"`
	ConsumoTela    *decimal.Decimal `json:"consumo_tela"     validate:"omitempty,min=0"`
	CostoEstimado  *decimal.Decimal `json:"costo_estimado"   validate:"omitempty,min=0"`
	PrecioEstimado *decimal.Decimal `json:"precio_estimado"  validate:"omitempty,min=0"`
	Aprobado       *bool            `json:"aprobado"`
}
