package dto

import "github.com/google/uuid"

// ── Request DTOs ──────────────────────────────────────────────────────────────

// CrearCatalogoRequest is the base shape accepted by every create endpoint.
// Activo defaults to true when omitted.
type CrearCatalogoRequest struct {
	Nombre      string  `json:"nombre"      validate:"required,notblank,max=200"`
	Descripcion *string `json:"descripcion"`
	Activo      *bool   `json:"activo"`
}

// ActualizarCatalogoRequest carries a partial update. Only non-null fields are written.
type ActualizarCatalogoRequest struct {
	Nombre      *string `json:"nombre"      validate:"omitempty,notblank,max=200"`
	Descripcion *string `json:"descripcion"`
	Activo      *bool   `json:"activo"`
}

type CrearHiloRequest struct {
	CrearCatalogoRequest
	Color  *string `json:"color"`
	Grosor *string `json:"grosor"`
}

type ActualizarHiloRequest struct {
	ActualizarCatalogoRequest
	Color  *string `json:"color"`
	Grosor *string `json:"grosor"`
}

type ReordenItem struct {
	ID    uuid.UUID `json:"id"    validate:"required"`
	Orden int       `json:"orden" validate:"min=0"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

// ListaFiltro holds the query parameters of list and count endpoints.
// Aprobado is only honoured by composite collections.
type ListaFiltro struct {
	Search   string `form:"search"`
	Activo   *bool  `form:"activo"`
	Aprobado *bool  `form:"aprobado"`
	Limit    int    `form:"limit"`
	Skip     int    `form:"skip"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ConteoResponse struct {
	Count int64 `json:"count"`
}

type EliminadoResponse struct {
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

type ReordenResponse struct {
	Message      string `json:"message"`
	Actualizados int    `json:"actualizados"`
}
