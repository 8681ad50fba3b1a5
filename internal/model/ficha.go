package model

// Ficha is a spec sheet with an optional attached document.
type Ficha struct {
	Registro
	Archivo *string `json:"archivo"`
}

func (Ficha) TableName() string { return "fichas" }
