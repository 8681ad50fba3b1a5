package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base is the finished composite: a MuestraBase plus thread, pattern, image
// and two families of attachments. Each family is stored as a pair of
// parallel lists (paths and display names) that always have the same length.
type Base struct {
	Registro
	MuestraBaseID   *uuid.UUID                  `gorm:"type:uuid;index" json:"muestra_base_id"`
	HiloID          *uuid.UUID                  `gorm:"type:uuid;index" json:"hilo_id"`
	PatronArchivo   *string                     `json:"patron_archivo"`
	ImagenArchivo   *string                     `json:"imagen_archivo"`
	FichasArchivos  datatypes.JSONSlice[string] `json:"fichas_archivos"`
	FichasNombres   datatypes.JSONSlice[string] `json:"fichas_nombres"`
	TizadosArchivos datatypes.JSONSlice[string] `json:"tizados_archivos"`
	TizadosNombres  datatypes.JSONSlice[string] `json:"tizados_nombres"`
	Aprobado        bool                        `gorm:"not null;default:false" json:"aprobado"`
}

func (Base) TableName() string { return "bases" }

func (b *Base) AfterFind(*gorm.DB) error {
	for _, l := range []*datatypes.JSONSlice[string]{&b.FichasArchivos, &b.FichasNombres, &b.TizadosArchivos, &b.TizadosNombres} {
		if *l == nil {
			*l = datatypes.JSONSlice[string]{}
		}
	}
	return nil
}

// Adjuntos returns pointers to the path and name lists of an attachment family.
// ok is false for an unknown family.
func (b *Base) Adjuntos(categoria string) (archivos, nombres *datatypes.JSONSlice[string], ok bool) {
	switch categoria {
	case AdjuntoFichas:
		return &b.FichasArchivos, &b.FichasNombres, true
	case AdjuntoTizados:
		return &b.TizadosArchivos, &b.TizadosNombres, true
	}
	return nil, nil, false
}

// Attachment families of a Base.
const (
	AdjuntoFichas  = "fichas"
	AdjuntoTizados = "tizados"
)

// ColumnasAdjunto maps an attachment family to its (paths, names) columns.
var ColumnasAdjunto = map[string][2]string{
	AdjuntoFichas:  {"fichas_archivos", "fichas_nombres"},
	AdjuntoTizados: {"tizados_archivos", "tizados_nombres"},
}
