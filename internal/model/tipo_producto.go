package model

// TipoProducto classifies a garment (jean, camisa, short...).
type TipoProducto struct {
	Registro
}

func (TipoProducto) TableName() string { return "tipos_producto" }
