package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Errores de negocio; los handlers los traducen a códigos HTTP.
var (
	ErrNoEncontrado      = errors.New("Item no encontrado")
	ErrSinCambios        = errors.New("No hay datos para actualizar")
	ErrSolicitudInvalida = errors.New("solicitud invalida")
	ErrAlmacenamiento    = errors.New("error de almacenamiento")
)

// invalida wraps ErrSolicitudInvalida with a client-facing detail.
func invalida(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSolicitudInvalida, fmt.Sprintf(format, args...))
}

// traducir maps repository errors to business errors.
func traducir(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNoEncontrado
	}
	return err
}

func almacenamiento(err error) error {
	return fmt.Errorf("%w: %v", ErrAlmacenamiento, err)
}
