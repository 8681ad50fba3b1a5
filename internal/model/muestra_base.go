package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MuestraBase is a costed sample built from catalog references.
// RentabilidadEsperada is derived from CostoEstimado and PrecioEstimado and
// is never written directly by clients.
type MuestraBase struct {
	Registro
	MarcaID              *uuid.UUID       `gorm:"type:uuid;index" json:"marca_id"`
	TipoProductoID       *uuid.UUID       `gorm:"type:uuid;index" json:"tipo_producto_id"`
	EntalleID            *uuid.UUID       `gorm:"type:uuid;index" json:"entalle_id"`
	TelaID               *uuid.UUID       `gorm:"type:uuid;index" json:"tela_id"`
	ConsumoTela          *decimal.Decimal `gorm:"type:decimal(10,3)" json:"consumo_tela"`
	CostoEstimado        *decimal.Decimal `gorm:"type:decimal(12,2)" json:"costo_estimado"`
	PrecioEstimado       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"precio_estimado"`
	RentabilidadEsperada *decimal.Decimal `gorm:"type:decimal(10,2)" json:"rentabilidad_esperada"`
	Aprobado             bool             `gorm:"not null;default:false" json:"aprobado"`
	ArchivoCostos        *string          `json:"archivo_costos"`
}

func (MuestraBase) TableName() string { return "muestras_base" }
