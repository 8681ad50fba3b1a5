package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NombreMuestraPorDefecto is used when a sample references no catalog entry.
const NombreMuestraPorDefecto = "Nueva Muestra"

var cien = decimal.NewFromInt(100)

// Rentabilidad returns ((precio - costo) / costo) * 100 rounded to two
// decimals, or nil when either value is missing or costo is not positive.
func Rentabilidad(costo, precio *decimal.Decimal) *decimal.Decimal {
	if costo == nil || precio == nil || !costo.IsPositive() {
		return nil
	}
	r := precio.Sub(*costo).Div(*costo).Mul(cien).Round(2)
	return &r
}

// NombreCompuesto joins the non-empty names in brand, product type, fabric,
// fit order.
func NombreCompuesto(marca, tipoProducto, tela, entalle string) string {
	partes := make([]string, 0, 4)
	for _, p := range []string{marca, tipoProducto, tela, entalle} {
		if p = strings.TrimSpace(p); p != "" {
			partes = append(partes, p)
		}
	}
	if len(partes) == 0 {
		return NombreMuestraPorDefecto
	}
	return strings.Join(partes, " - ")
}
