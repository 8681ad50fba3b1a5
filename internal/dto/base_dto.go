package dto

// Attachment lists are not part of create/update: they change only through
// the attachment endpoints so paths and names stay aligned.
type CrearBaseRequest struct {
	CrearCatalogoRequest
	MuestraBaseID *string `json:"muestra_base_id" validate:"omitempty,uuid"`
	HiloID        *string `json:"hilo_id"         validate:"omitempty,uuid"`
	Aprobado      *bool   `json:"aprobado"`
}

type ActualizarBaseRequest struct {
	ActualizarCatalogoRequest
	MuestraBaseID *string `json:"muestra_base_id" validate:"omitempty,uuid"`
	HiloID        *string `json:"hilo_id"         validate:"omitempty,uuid"`
	Aprobado      *bool   `json:"aprobado"`
}
