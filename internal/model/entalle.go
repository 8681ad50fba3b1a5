package model

// Entalle is a fit (slim, regular, oversize...).
type Entalle struct {
	Registro
}

func (Entalle) TableName() string { return "entalles" }
