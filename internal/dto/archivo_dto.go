package dto

type ArchivoResponse struct {
	Clave     string `json:"clave"`
	Nombre    string `json:"nombre"`
	Categoria string `json:"categoria"`
	Tamano    int64  `json:"tamano"`
}

// DashboardStats maps a collection name to its row count.
type DashboardStats map[string]int64
