package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tizado is a grading/marker set. BasesIDs are soft references to Base records.
type Tizado struct {
	Registro
	Ancho         *decimal.Decimal            `gorm:"type:decimal(10,2)" json:"ancho"`
	Curva         *string                     `json:"curva"`
	ArchivoTizado *string                     `json:"archivo_tizado"`
	BasesIDs      datatypes.JSONSlice[string] `json:"bases_ids"`
}

func (Tizado) TableName() string { return "tizados" }

func (t *Tizado) AfterFind(*gorm.DB) error {
	if t.BasesIDs == nil {
		t.BasesIDs = datatypes.JSONSlice[string]{}
	}
	return nil
}
