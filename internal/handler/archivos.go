package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/angelous0/muestras/internal/apierror"
	"github.com/angelous0/muestras/internal/model"
	"github.com/angelous0/muestras/internal/service"

	"github.com/gin-gonic/gin"
)

// ArchivoUnicoHandler serves the single-file endpoints of a collection
// (archivo de costos, archivo de ficha, patron, imagen...).
type ArchivoUnicoHandler[T any] struct {
	svc     service.ArchivoUnicoService[T]
	subidas Subidas
}

func NewArchivoUnicoHandler[T any](svc service.ArchivoUnicoService[T], subidas Subidas) *ArchivoUnicoHandler[T] {
	return &ArchivoUnicoHandler[T]{svc: svc, subidas: subidas}
}

// Subir POST /api/{coleccion}/:id/{archivo}  multipart field "file"
func (h *ArchivoUnicoHandler[T]) Subir(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, cerrar, ok := h.subidas.archivo(c)
	if !ok {
		return
	}
	defer cerrar()

	resp, err := h.svc.SubirArchivo(c.Request.Context(), id, a)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar DELETE /api/{coleccion}/:id/{archivo}
func (h *ArchivoUnicoHandler[T]) Quitar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.QuitarArchivo(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Registrar mounts POST and DELETE for ruta on g.
func (h *ArchivoUnicoHandler[T]) Registrar(g *gin.RouterGroup, ruta string) {
	g.POST("/:id/"+ruta, h.Subir)
	g.DELETE("/:id/"+ruta, h.Quitar)
}

// ── Adjuntos de Base ─────────────────────────────────────────────────────────

type BaseAdjuntosHandler struct {
	svc     service.BaseService
	subidas Subidas
}

func NewBaseAdjuntosHandler(svc service.BaseService, subidas Subidas) *BaseAdjuntosHandler {
	return &BaseAdjuntosHandler{svc: svc, subidas: subidas}
}

// Agregar POST /api/bases/:id/:categoria  multipart "files" (+ "nombres")
// categoria is fichas or tizados; anything else is rejected by the service.
func (h *BaseAdjuntosHandler) Agregar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	archivos, nombres, cerrar, ok := h.subidas.archivos(c, "files")
	if !ok {
		return
	}
	defer cerrar()

	resp, err := h.svc.AgregarAdjuntos(c.Request.Context(), id, c.Param("categoria"), archivos, nombres)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar DELETE /api/bases/:id/:categoria/:indice
func (h *BaseAdjuntosHandler) Quitar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	indice, err := strconv.Atoi(c.Param("indice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("indice invalido: "+c.Param("indice")))
		return
	}
	resp, err := h.svc.QuitarAdjunto(c.Request.Context(), id, c.Param("categoria"), indice)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Checklist GET /api/bases/:id/checklist?tipo=fichas|tizados
func (h *BaseAdjuntosHandler) Checklist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tipo := c.DefaultQuery("tipo", model.AdjuntoFichas)
	pdf, nombre, err := h.svc.GenerarChecklist(c.Request.Context(), id, tipo)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+nombre+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Registrar mounts the attachment routes on the bases group.
func (h *BaseAdjuntosHandler) Registrar(g *gin.RouterGroup) {
	g.POST("/:id/:categoria", h.Agregar)
	g.DELETE("/:id/:categoria/:indice", h.Quitar)
	g.GET("/:id/checklist", h.Checklist)
}

// ── Archivos sueltos ─────────────────────────────────────────────────────────

type ArchivosHandler struct {
	svc     service.ArchivoService
	subidas Subidas
}

func NewArchivosHandler(svc service.ArchivoService, subidas Subidas) *ArchivosHandler {
	return &ArchivosHandler{svc: svc, subidas: subidas}
}

// Subir POST /api/archivos/:categoria  multipart field "file"
func (h *ArchivosHandler) Subir(c *gin.Context) {
	a, cerrar, ok := h.subidas.archivo(c)
	if !ok {
		return
	}
	defer cerrar()

	resp, err := h.svc.Subir(c.Request.Context(), c.Param("categoria"), a)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /api/archivos/*clave
// Object stores answer with a redirect to a signed URL; local disk streams.
func (h *ArchivosHandler) Obtener(c *gin.Context) {
	clave := strings.TrimPrefix(c.Param("clave"), "/")
	d, err := h.svc.Obtener(c.Request.Context(), clave)
	if err != nil {
		responderError(c, err)
		return
	}
	if d.URL != "" {
		c.Redirect(http.StatusTemporaryRedirect, d.URL)
		return
	}
	defer d.Contenido.Close()
	c.Header("Content-Type", d.ContentType)
	if d.Tamano > 0 {
		c.Header("Content-Length", strconv.FormatInt(d.Tamano, 10))
	}
	c.Status(http.StatusOK)
	io.Copy(c.Writer, d.Contenido)
}
