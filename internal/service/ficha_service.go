package service

import (
	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/repository"
)

type FichaService = ConArchivoService[model.Ficha, dto.CrearFichaRequest, dto.ActualizarFichaRequest]

type TizadoService = ConArchivoService[model.Tizado, dto.CrearTizadoRequest, dto.ActualizarTizadoRequest]

func NewFichaService(repo repository.Repositorio[model.Ficha], almacen infra.Almacenamiento, opts OpcionesCatalogo) FichaService {
	opts.Ordenado = false
	return NewConArchivoService(repo, ConversorFicha, opts, almacen, CategoriaFichas, "archivo",
		func(f *model.Ficha) *string { return f.Archivo })
}

func NewTizadoService(repo repository.Repositorio[model.Tizado], almacen infra.Almacenamiento, opts OpcionesCatalogo) TizadoService {
	opts.Ordenado = false
	return NewConArchivoService(repo, ConversorTizado, opts, almacen, CategoriaTizados, "archivo_tizado",
		func(t *model.Tizado) *string { return t.ArchivoTizado })
}
