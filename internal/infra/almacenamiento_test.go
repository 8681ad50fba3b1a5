package infra

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNuevaClave(t *testing.T) {
	clave := NuevaClave("fichas", "Medidas.PDF")
	assert.True(t, strings.HasPrefix(clave, "fichas/"))
	assert.True(t, strings.HasSuffix(clave, ".pdf"))
	assert.NotEqual(t, clave, NuevaClave("fichas", "Medidas.PDF"))

	assert.NotContains(t, NuevaClave("patrones", "sin_extension"), ".")
}

func TestLimpiarClave(t *testing.T) {
	casos := []struct {
		clave  string
		valida bool
	}{
		{"fichas/a.pdf", true},
		{"fichas/./a.pdf", true},
		{"", false},
		{"/etc/passwd", false},
		{"../secreto", false},
		{"fichas/../../secreto", false},
		{"..", false},
		{`fichas\..\a`, false},
	}
	for _, c := range casos {
		t.Run(c.clave, func(t *testing.T) {
			_, err := limpiarClave(c.clave)
			if c.valida {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrClaveInvalida)
			}
		})
	}
}

func TestDisco_GuardarObtenerEliminar(t *testing.T) {
	raiz := t.TempDir()
	d, err := NewDiscoAlmacenamiento(raiz)
	require.NoError(t, err)
	ctx := context.Background()

	clave, err := d.Guardar(ctx, "patrones", "molde.pdf", strings.NewReader("contenido"), 9, "")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(raiz, filepath.FromSlash(clave)))
	require.NoError(t, err)

	desc, err := d.Obtener(ctx, clave)
	require.NoError(t, err)
	data, err := io.ReadAll(desc.Contenido)
	require.NoError(t, err)
	require.NoError(t, desc.Contenido.Close())
	assert.Equal(t, "contenido", string(data))
	assert.Equal(t, "application/pdf", desc.ContentType)
	assert.EqualValues(t, 9, desc.Tamano)
	assert.Empty(t, desc.URL)

	require.NoError(t, d.Eliminar(ctx, clave))
	assert.ErrorIs(t, d.Eliminar(ctx, clave), ErrArchivoNoEncontrado)
	_, err = d.Obtener(ctx, clave)
	assert.ErrorIs(t, err, ErrArchivoNoEncontrado)
}

func TestDisco_RechazaClavesFueraDeRaiz(t *testing.T) {
	d, err := NewDiscoAlmacenamiento(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = d.Obtener(ctx, "../../etc/passwd")
	assert.ErrorIs(t, err, ErrClaveInvalida)
	assert.ErrorIs(t, d.Eliminar(ctx, "/tmp/x"), ErrClaveInvalida)
}

func TestTipoContenido(t *testing.T) {
	assert.Equal(t, "image/png", tipoContenido("imagenes/a.png", ""))
	assert.Equal(t, "text/csv", tipoContenido("costos/a.png", "text/csv"))
	assert.Equal(t, "application/octet-stream", tipoContenido("costos/a", ""))
}
