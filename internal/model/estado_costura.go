package model

// EstadoCostura is one step of the sewing workflow; Orden defines the sequence.
type EstadoCostura struct {
	Registro
}

func (EstadoCostura) TableName() string { return "estados_costura" }
