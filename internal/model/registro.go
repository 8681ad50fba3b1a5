package model

import (
	"time"

	"github.com/google/uuid"
)

// Registro is the shape shared by every catalog and composite record.
// Activo is a visibility filter only; deletes are hard.
type Registro struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre      string    `gorm:"index;not null" json:"nombre"`
	Descripcion *string   `json:"descripcion"`
	Activo      bool      `gorm:"not null" json:"activo"`
	Orden       int       `gorm:"not null;default:0" json:"orden"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NuevoRegistro returns a Registro with a fresh id and both timestamps set to now.
func NuevoRegistro(nombre string, descripcion *string, activo bool, orden int) Registro {
	now := time.Now().UTC()
	return Registro{
		ID:          uuid.New(),
		Nombre:      nombre,
		Descripcion: descripcion,
		Activo:      activo,
		Orden:       orden,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NombreVisible is the label used when a record is referenced by another one.
func (r Registro) NombreVisible() string { return r.Nombre }
