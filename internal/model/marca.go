package model

// Marca is a brand.
type Marca struct {
	Registro
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Marca) TableName() string { return "marcas" }
