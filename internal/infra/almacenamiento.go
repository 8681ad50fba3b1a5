package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrArchivoNoEncontrado is returned when a key does not resolve to a stored file.
var ErrArchivoNoEncontrado = errors.New("archivo no encontrado")

// ErrClaveInvalida is returned for keys that escape the storage root.
var ErrClaveInvalida = errors.New("clave de archivo invalida")

// Descarga is the result of Obtener. Exactly one of URL or Contenido is set:
// object stores hand out a signed URL, the local disk streams the file.
type Descarga struct {
	URL         string
	Contenido   io.ReadCloser
	ContentType string
	Tamano      int64
}

// Almacenamiento stores uploaded files under opaque keys of the form
// "<categoria>/<uuid><ext>".
type Almacenamiento interface {
	Guardar(ctx context.Context, categoria, nombre string, contenido io.Reader, tamano int64, contentType string) (string, error)
	Obtener(ctx context.Context, clave string) (*Descarga, error)
	Eliminar(ctx context.Context, clave string) error
}

// NuevaClave builds a storage key preserving the original extension.
func NuevaClave(categoria, nombre string) string {
	ext := strings.ToLower(filepath.Ext(nombre))
	return path.Join(categoria, uuid.NewString()+ext)
}

// limpiarClave rejects absolute keys and keys containing "..".
func limpiarClave(clave string) (string, error) {
	if clave == "" || strings.HasPrefix(clave, "/") || strings.Contains(clave, "\\") {
		return "", ErrClaveInvalida
	}
	limpia := path.Clean(clave)
	if limpia == "." || limpia == ".." || strings.HasPrefix(limpia, "../") {
		return "", ErrClaveInvalida
	}
	return limpia, nil
}

func tipoContenido(clave, declarado string) string {
	if declarado != "" {
		return declarado
	}
	if t := mime.TypeByExtension(path.Ext(clave)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// ── Disco local ───────────────────────────────────────────────────────────────

// DiscoAlmacenamiento keeps files under a root directory on local disk.
type DiscoAlmacenamiento struct {
	raiz string
}

func NewDiscoAlmacenamiento(raiz string) (*DiscoAlmacenamiento, error) {
	if err := os.MkdirAll(raiz, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root dir: %w", err)
	}
	return &DiscoAlmacenamiento{raiz: raiz}, nil
}

func (d *DiscoAlmacenamiento) ruta(clave string) (string, error) {
	limpia, err := limpiarClave(clave)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.raiz, filepath.FromSlash(limpia)), nil
}

func (d *DiscoAlmacenamiento) Guardar(_ context.Context, categoria, nombre string, contenido io.Reader, _ int64, _ string) (string, error) {
	clave := NuevaClave(categoria, nombre)
	destino, err := d.ruta(clave)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destino), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	f, err := os.Create(destino)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(f, contenido); err != nil {
		f.Close()
		os.Remove(destino)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: close file: %w", err)
	}
	return clave, nil
}

func (d *DiscoAlmacenamiento) Obtener(_ context.Context, clave string) (*Descarga, error) {
	origen, err := d.ruta(clave)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(origen)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrArchivoNoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("storage: stat file: %w", err)
	}
	return &Descarga{Contenido: f, ContentType: tipoContenido(clave, ""), Tamano: info.Size()}, nil
}

func (d *DiscoAlmacenamiento) Eliminar(_ context.Context, clave string) error {
	destino, err := d.ruta(clave)
	if err != nil {
		return err
	}
	err = os.Remove(destino)
	if errors.Is(err, os.ErrNotExist) {
		return ErrArchivoNoEncontrado
	}
	return err
}
