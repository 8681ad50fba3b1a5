package model

// Hilo is a sewing thread.
type Hilo struct {
	Registro
	Color  *string `json:"color"`
	Grosor *string `json:"grosor"`
}

func (Hilo) TableName() string { return "hilos" }
