package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelous0/muestras/internal/config"
	"github.com/angelous0/muestras/internal/infra"
	"github.com/angelous0/muestras/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
}

// newTestRouter wires the full router over in-memory SQLite and a temp dir.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&model.Marca{}, &model.TipoProducto{}, &model.Entalle{}, &model.Tela{}, &model.Hilo{},
		&model.EstadoCostura{}, &model.MuestraBase{}, &model.Ficha{}, &model.Tizado{}, &model.Base{},
	))

	disco, err := infra.NewDiscoAlmacenamiento(t.TempDir())
	require.NoError(t, err)
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	cfg := &config.Config{
		Env:              "test",
		CORSOrigins:      "*",
		ListDefaultLimit: 100,
		ListMaxLimit:     500,
		MaxUploadMB:      1,
	}
	return New(cfg, Deps{DB: db, Almacen: infra.NewAlmacenamientoProtegido(disco, cb), CB: cb})
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type archivoPrueba struct {
	nombre    string
	contenido []byte
}

func doMultipart(t *testing.T, r http.Handler, path, campo string, archivos []archivoPrueba, nombres ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, a := range archivos {
		fw, err := mw.CreateFormFile(campo, a.nombre)
		require.NoError(t, err)
		_, err = fw.Write(a.contenido)
		require.NoError(t, err)
	}
	for _, n := range nombres {
		require.NoError(t, mw.WriteField("nombres", n))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[V any](t *testing.T, w *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRoot(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API Módulo Muestras Textil", decode[map[string]string](t, w)["message"])
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "closed", body["storage"])
	assert.NotContains(t, body, "redis")
}

func TestMarcas_CRUD(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/marcas", map[string]any{"nombre": "Test Marca", "descripcion": "d"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	creada := decode[model.Marca](t, w)
	assert.True(t, creada.Activo)
	assert.Equal(t, 1, creada.Orden)
	ruta := "/api/marcas/" + creada.ID.String()

	w = doJSON(t, r, http.MethodGet, ruta, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test Marca", decode[model.Marca](t, w).Nombre)

	w = doJSON(t, r, http.MethodPut, ruta, map[string]any{"nombre": "Renombrada"})
	require.Equal(t, http.StatusOK, w.Code)
	actualizada := decode[model.Marca](t, w)
	assert.Equal(t, "Renombrada", actualizada.Nombre)
	require.NotNil(t, actualizada.Descripcion)
	assert.Equal(t, "d", *actualizada.Descripcion)

	w = doJSON(t, r, http.MethodPut, ruta, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No hay datos para actualizar", decode[map[string]any](t, w)["detail"])

	w = doJSON(t, r, http.MethodDelete, ruta, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Item eliminado correctamente", decode[map[string]any](t, w)["message"])

	w = doJSON(t, r, http.MethodDelete, ruta, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Item no encontrado", decode[map[string]any](t, w)["detail"])

	w = doJSON(t, r, http.MethodGet, ruta, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarcas_Validacion(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/marcas", map[string]any{"descripcion": "sin nombre"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/marcas", strings.NewReader("{no json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = doJSON(t, r, http.MethodGet, "/api/marcas/no-es-un-uuid", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/marcas?skip=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/marcas", map[string]any{"nombre": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "blank name")

	w = doJSON(t, r, http.MethodPost, "/api/marcas", map[string]any{"nombre": "  Wrangler "})
	require.Equal(t, http.StatusOK, w.Code)
	marca := decode[map[string]any](t, w)
	assert.Equal(t, "Wrangler", marca["nombre"])

	w = doJSON(t, r, http.MethodPut, "/api/marcas/"+marca["id"].(string), map[string]any{"nombre": " \t "})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "blank name on update")
}

func TestMarcas_BuscarContarReordenar(t *testing.T) {
	r := newTestRouter(t)
	ids := map[string]uuid.UUID{}
	for _, n := range []string{"Test Uno", "Otra", "TESTING dos", "Inactiva test"} {
		body := map[string]any{"nombre": n}
		if strings.HasPrefix(n, "Inactiva") {
			body["activo"] = false
		}
		w := doJSON(t, r, http.MethodPost, "/api/marcas", body)
		require.Equal(t, http.StatusOK, w.Code)
		ids[n] = decode[model.Marca](t, w).ID
	}

	w := doJSON(t, r, http.MethodGet, "/api/marcas?search=test", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Marca](t, w), 3)

	w = doJSON(t, r, http.MethodGet, "/api/marcas?search=test&activo=true", nil)
	assert.Len(t, decode[[]model.Marca](t, w), 2)

	w = doJSON(t, r, http.MethodGet, "/api/marcas/count?search=test", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode[map[string]int64](t, w)["count"])

	w = doJSON(t, r, http.MethodGet, "/api/marcas?limit=2&skip=1", nil)
	assert.Len(t, decode[[]model.Marca](t, w), 2)

	w = doJSON(t, r, http.MethodPut, "/api/marcas/reorder", []map[string]any{
		{"id": ids["Otra"], "orden": 0},
		{"id": uuid.New(), "orden": 1},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[map[string]any](t, w)
	assert.Equal(t, "Orden actualizado", resp["message"])
	assert.EqualValues(t, 1, resp["actualizados"], "unknown ids are skipped")

	w = doJSON(t, r, http.MethodGet, "/api/marcas", nil)
	assert.Equal(t, "Otra", decode[[]model.Marca](t, w)[0].Nombre)

	w = doJSON(t, r, http.MethodPut, "/api/marcas/reorder", []map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMuestrasBase_NombreYRentabilidad(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/marcas", map[string]any{"nombre": "Levi's"})
	marca := decode[model.Marca](t, w)
	w = doJSON(t, r, http.MethodPost, "/api/entalles", map[string]any{"nombre": "Slim"})
	entalle := decode[model.Entalle](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/muestras-base", map[string]any{
		"marca_id":        marca.ID,
		"entalle_id":      entalle.ID,
		"costo_estimado":  100,
		"precio_estimado": 150,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode[map[string]any](t, w)
	assert.Equal(t, "Levi's - Slim", m["nombre"])
	assert.EqualValues(t, 50, m["rentabilidad_esperada"])

	w = doJSON(t, r, http.MethodPut, "/api/muestras-base/"+m["id"].(string), map[string]any{"costo_estimado": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[map[string]any](t, w)["rentabilidad_esperada"])

	w = doJSON(t, r, http.MethodGet, "/api/muestras-base/count?aprobado=false", nil)
	assert.EqualValues(t, 1, decode[map[string]int64](t, w)["count"])

	w = doJSON(t, r, http.MethodPut, "/api/muestras-base/reorder", []map[string]any{{"id": m["id"], "orden": 1}})
	assert.NotEqual(t, http.StatusOK, w.Code, "composites are not reorderable")
}

func TestBases_Adjuntos(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/bases", map[string]any{"nombre": "Base Jean"})
	require.Equal(t, http.StatusOK, w.Code)
	base := decode[model.Base](t, w)
	ruta := "/api/bases/" + base.ID.String()
	assert.Empty(t, base.FichasArchivos)

	w = doMultipart(t, r, ruta+"/fichas", "files", []archivoPrueba{
		{"medidas.pdf", []byte("uno")},
		{"avios.pdf", []byte("dos")},
		{"lavado.pdf", []byte("tres")},
	}, "Medidas")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	base = decode[model.Base](t, w)
	require.Len(t, base.FichasArchivos, 3)
	assert.Equal(t, []string{"Medidas", "avios.pdf", "lavado.pdf"}, []string(base.FichasNombres))
	primera, tercera := base.FichasArchivos[0], base.FichasArchivos[2]

	w = doJSON(t, r, http.MethodDelete, ruta+"/fichas/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	base = decode[model.Base](t, w)
	assert.Equal(t, []string{primera, tercera}, []string(base.FichasArchivos))
	assert.Equal(t, []string{"Medidas", "lavado.pdf"}, []string(base.FichasNombres))

	w = doJSON(t, r, http.MethodDelete, ruta+"/fichas/5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, r, http.MethodDelete, ruta+"/fichas/x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/archivos/"+primera, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "uno", w.Body.String())

	w = doJSON(t, r, http.MethodGet, ruta+"/checklist?tipo=fichas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = doJSON(t, r, http.MethodGet, ruta+"/checklist?tipo=otros", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBases_AdjuntosCategoriaInvalida(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/bases", map[string]any{"nombre": "Base"})
	require.Equal(t, http.StatusOK, w.Code)
	ruta := "/api/bases/" + decode[model.Base](t, w).ID.String()

	w = doMultipart(t, r, ruta+"/otros", "files", []archivoPrueba{{"a.pdf", []byte("a")}})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]any](t, w)["detail"], "otros")

	w = doJSON(t, r, http.MethodDelete, ruta+"/otros/0", nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, decode[map[string]any](t, w)["detail"], "otros")

	// Static routes still win over the category parameter.
	w = doMultipart(t, r, ruta+"/patron", "file", []archivoPrueba{{"p.dxf", []byte("p")}})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestBases_PatronYTamanoMaximo(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/bases", map[string]any{"nombre": "Base"})
	base := decode[model.Base](t, w)
	ruta := "/api/bases/" + base.ID.String()

	w = doMultipart(t, r, ruta+"/patron", "file", []archivoPrueba{{"molde.dxf", []byte("dxf")}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	base = decode[model.Base](t, w)
	require.NotNil(t, base.PatronArchivo)

	w = doJSON(t, r, http.MethodDelete, ruta+"/patron", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[model.Base](t, w).PatronArchivo)

	grande := bytes.Repeat([]byte("x"), 2<<20)
	w = doMultipart(t, r, ruta+"/imagen", "file", []archivoPrueba{{"foto.jpg", grande}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = doMultipart(t, r, ruta+"/imagen", "otro", []archivoPrueba{{"foto.jpg", []byte("x")}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doMultipart(t, r, "/api/bases/"+uuid.NewString()+"/imagen", "file", []archivoPrueba{{"foto.jpg", []byte("x")}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArchivos_SubirYCategoriaInvalida(t *testing.T) {
	r := newTestRouter(t)

	w := doMultipart(t, r, "/api/archivos/costos", "file", []archivoPrueba{{"costos.csv", []byte("a,b")}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	clave := decode[map[string]any](t, w)["clave"].(string)
	assert.True(t, strings.HasPrefix(clave, "costos/"))

	w = doJSON(t, r, http.MethodGet, "/api/archivos/"+clave, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a,b", w.Body.String())

	w = doMultipart(t, r, "/api/archivos/otros", "file", []archivoPrueba{{"a.txt", []byte("a")}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/archivos/costos/no-existe.csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/archivos/../../etc/passwd", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboard(t *testing.T) {
	r := newTestRouter(t)
	doJSON(t, r, http.MethodPost, "/api/telas", map[string]any{"nombre": "Denim", "precio": 12.5})
	doJSON(t, r, http.MethodPost, "/api/fichas", map[string]any{"nombre": "Ficha 1"})

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]int64](t, w)
	assert.EqualValues(t, 1, stats["telas"])
	assert.EqualValues(t, 1, stats["fichas"])
	assert.EqualValues(t, 0, stats["bases"])
	assert.Len(t, stats, 10)
}
