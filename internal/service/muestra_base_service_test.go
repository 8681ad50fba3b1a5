package service

import (
	"context"
	"errors"
	"testing"

	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type muestraFixture struct {
	svc     MuestraBaseService
	cola    *colaSpy
	almacen *memAlmacen
	marca   *model.Marca
	tipo    *model.TipoProducto
	tela    *model.Tela
	entalle *model.Entalle
}

func newMuestraFixture(t *testing.T) *muestraFixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()

	refs := CatalogosReferencia{
		Marcas:        repository.NewRepositorio[model.Marca](db, repository.OrdenManual),
		TiposProducto: repository.NewRepositorio[model.TipoProducto](db, repository.OrdenManual),
		Telas:         repository.NewRepositorio[model.Tela](db, repository.OrdenManual),
		Entalles:      repository.NewRepositorio[model.Entalle](db, repository.OrdenManual),
	}
	f := &muestraFixture{
		cola:    &colaSpy{},
		almacen: newMemAlmacen(),
		marca:   &model.Marca{Registro: model.NuevoRegistro("Levi's", nil, true, 1)},
		tipo:    &model.TipoProducto{Registro: model.NuevoRegistro("Jean", nil, true, 1)},
		tela:    &model.Tela{Registro: model.NuevoRegistro("Denim 12oz", nil, true, 1)},
		entalle: &model.Entalle{Registro: model.NuevoRegistro("Slim", nil, true, 1)},
	}
	require.NoError(t, refs.Marcas.Crear(ctx, f.marca))
	require.NoError(t, refs.TiposProducto.Crear(ctx, f.tipo))
	require.NoError(t, refs.Telas.Crear(ctx, f.tela))
	require.NoError(t, refs.Entalles.Crear(ctx, f.entalle))

	repo := repository.NewRepositorio[model.MuestraBase](db, repository.OrdenReciente)
	f.svc = NewMuestraBaseService(repo, refs, f.almacen, OpcionesCatalogo{Cola: f.cola})
	return f
}

func TestMuestraBase_CrearComponeNombre(t *testing.T) {
	f := newMuestraFixture(t)
	ctx := context.Background()

	m, err := f.svc.Crear(ctx, dto.CrearMuestraBaseRequest{
		MarcaID:        ptr(f.marca.ID.String()),
		TipoProductoID: ptr(f.tipo.ID.String()),
		TelaID:         ptr(f.tela.ID.String()),
		EntalleID:      ptr(f.entalle.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Levi's - Jean - Denim 12oz - Slim", m.Nombre)
	assert.True(t, m.Activo)
	assert.False(t, m.Aprobado)
	assert.Nil(t, m.RentabilidadEsperada)
}

func TestMuestraBase_CrearNombrePlaceholder(t *testing.T) {
	f := newMuestraFixture(t)

	m, err := f.svc.Crear(context.Background(), dto.CrearMuestraBaseRequest{
		MarcaID: ptr(uuid.NewString()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Nueva Muestra", m.Nombre, "dangling references contribute nothing")
}

func TestMuestraBase_CrearRespetaNombreExplicito(t *testing.T) {
	f := newMuestraFixture(t)

	m, err := f.svc.Crear(context.Background(), dto.CrearMuestraBaseRequest{
		Nombre:  "Mi muestra",
		MarcaID: ptr(f.marca.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mi muestra", m.Nombre)
}

func TestMuestraBase_Rentabilidad(t *testing.T) {
	f := newMuestraFixture(t)
	ctx := context.Background()

	m, err := f.svc.Crear(ctx, dto.CrearMuestraBaseRequest{
		Nombre:         "Costeada",
		CostoEstimado:  dec("100"),
		PrecioEstimado: dec("150"),
	})
	require.NoError(t, err)
	require.NotNil(t, m.RentabilidadEsperada)
	assert.True(t, dec("50").Equal(*m.RentabilidadEsperada))

	t.Run("price change merges stored cost", func(t *testing.T) {
		got, err := f.svc.Actualizar(ctx, m.ID, dto.ActualizarMuestraBaseRequest{PrecioEstimado: dec("200")})
		require.NoError(t, err)
		require.NotNil(t, got.RentabilidadEsperada)
		assert.True(t, dec("100").Equal(*got.RentabilidadEsperada), "got %s", got.RentabilidadEsperada)
	})

	t.Run("zero cost clears profitability", func(t *testing.T) {
		got, err := f.svc.Actualizar(ctx, m.ID, dto.ActualizarMuestraBaseRequest{CostoEstimado: dec("0")})
		require.NoError(t, err)
		assert.Nil(t, got.RentabilidadEsperada)
	})

	t.Run("unrelated update keeps stored value", func(t *testing.T) {
		_, err := f.svc.Actualizar(ctx, m.ID, dto.ActualizarMuestraBaseRequest{CostoEstimado: dec("50")})
		require.NoError(t, err)
		got, err := f.svc.Actualizar(ctx, m.ID, dto.ActualizarMuestraBaseRequest{Descripcion: ptr("notas")})
		require.NoError(t, err)
		require.NotNil(t, got.RentabilidadEsperada)
		assert.True(t, dec("300").Equal(*got.RentabilidadEsperada))
	})
}

func TestMuestraBase_ActualizarNombreVacioRegenera(t *testing.T) {
	f := newMuestraFixture(t)
	ctx := context.Background()

	m, err := f.svc.Crear(ctx, dto.CrearMuestraBaseRequest{Nombre: "Manual", MarcaID: ptr(f.marca.ID.String())})
	require.NoError(t, err)

	got, err := f.svc.Actualizar(ctx, m.ID, dto.ActualizarMuestraBaseRequest{
		Nombre: ptr(""),
		TelaID: ptr(f.tela.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, "Levi's - Denim 12oz", got.Nombre)
	require.NotNil(t, got.TelaID)
	assert.Equal(t, f.tela.ID, *got.TelaID)
}

func TestMuestraBase_ActualizarErrores(t *testing.T) {
	f := newMuestraFixture(t)
	ctx := context.Background()

	_, err := f.svc.Actualizar(ctx, uuid.New(), dto.ActualizarMuestraBaseRequest{Aprobado: ptr(true)})
	assert.ErrorIs(t, err, ErrNoEncontrado)

	_, err = f.svc.Actualizar(ctx, uuid.New(), dto.ActualizarMuestraBaseRequest{Nombre: ptr("")})
	assert.ErrorIs(t, err, ErrNoEncontrado)

	_, err = f.svc.Actualizar(ctx, uuid.New(), dto.ActualizarMuestraBaseRequest{})
	assert.ErrorIs(t, err, ErrSinCambios)
}

func TestMuestraBase_FiltroAprobado(t *testing.T) {
	f := newMuestraFixture(t)
	ctx := context.Background()

	_, err := f.svc.Crear(ctx, dto.CrearMuestraBaseRequest{Nombre: "A", Aprobado: ptr(true)})
	require.NoError(t, err)
	_, err = f.svc.Crear(ctx, dto.CrearMuestraBaseRequest{Nombre: "B"})
	require.NoError(t, err)

	list, err := f.svc.Listar(ctx, dto.ListaFiltro{Aprobado: ptr(true)})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Nombre)

	n, err := f.svc.Contar(ctx, dto.ListaFiltro{Aprobado: ptr(false)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMuestraBase_ArchivoCostos(t *testing.T) {
	f := newMuestraFixture(t)
	ctx := context.Background()
	m, err := f.svc.Crear(ctx, dto.CrearMuestraBaseRequest{Nombre: "Con costos"})
	require.NoError(t, err)

	m, err = f.svc.SubirArchivo(ctx, m.ID, archivoDe("costos.xlsx", "v1"))
	require.NoError(t, err)
	require.NotNil(t, m.ArchivoCostos)
	primera := *m.ArchivoCostos
	assert.Contains(t, primera, CategoriaCostos+"/")

	m, err = f.svc.SubirArchivo(ctx, m.ID, archivoDe("costos.xlsx", "v2"))
	require.NoError(t, err)
	assert.NotEqual(t, primera, *m.ArchivoCostos)
	assert.Equal(t, []string{primera}, f.cola.claves, "replaced file is queued")

	m, err = f.svc.QuitarArchivo(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, m.ArchivoCostos)
	assert.Len(t, f.cola.claves, 2)

	t.Run("storage failure", func(t *testing.T) {
		f.almacen.fallar = errors.New("disk full")
		defer func() { f.almacen.fallar = nil }()
		_, err := f.svc.SubirArchivo(ctx, m.ID, archivoDe("x.pdf", "x"))
		assert.ErrorIs(t, err, ErrAlmacenamiento)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := f.svc.SubirArchivo(ctx, uuid.New(), archivoDe("x.pdf", "x"))
		assert.ErrorIs(t, err, ErrNoEncontrado)
		_, err = f.svc.QuitarArchivo(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNoEncontrado)
	})
}
