package model

import "github.com/shopspring/decimal"

// Tela is a fabric with its descriptive and commercial attributes.
type Tela struct {
	Registro
	Composicion   *string          `json:"composicion"`
	Gramaje       *decimal.Decimal `gorm:"type:decimal(10,2)" json:"gramaje"`
	Elasticidad   *string          `json:"elasticidad"`
	Proveedor     *string          `json:"proveedor"`
	Ancho         *decimal.Decimal `gorm:"type:decimal(10,2)" json:"ancho"`
	Color         *string          `json:"color"`
	Precio        *decimal.Decimal `gorm:"type:decimal(10,2)" json:"precio"`
	Clasificacion *string          `json:"clasificacion"`
}

func (Tela) TableName() string { return "telas" }
