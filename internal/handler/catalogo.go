package handler

import (
	"net/http"

	"github.com/angelous0/muestras/internal/apierror"
	"github.com/angelous0/muestras/internal/dto"
	"github.com/angelous0/muestras/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogoHandler serves the CRUD endpoints shared by every collection.
type CatalogoHandler[T any, C any, U any] struct {
	svc service.CatalogoService[T, C, U]
}

func NewCatalogoHandler[T any, C any, U any](svc service.CatalogoService[T, C, U]) *CatalogoHandler[T, C, U] {
	return &CatalogoHandler[T, C, U]{svc: svc}
}

// Crear POST /api/{coleccion}
func (h *CatalogoHandler[T, C, U]) Crear(c *gin.Context) {
	var req C
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar GET /api/{coleccion}?search=&activo=&limit=&skip=
func (h *CatalogoHandler[T, C, U]) Listar(c *gin.Context) {
	f, ok := bindFiltro(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Contar GET /api/{coleccion}/count
func (h *CatalogoHandler[T, C, U]) Contar(c *gin.Context) {
	f, ok := bindFiltro(c)
	if !ok {
		return
	}
	n, err := h.svc.Contar(c.Request.Context(), f)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ConteoResponse{Count: n})
}

// Obtener GET /api/{coleccion}/:id
func (h *CatalogoHandler[T, C, U]) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /api/{coleccion}/:id
func (h *CatalogoHandler[T, C, U]) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req U
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /api/{coleccion}/:id
func (h *CatalogoHandler[T, C, U]) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type loteReorden struct {
	Items []dto.ReordenItem `validate:"dive"`
}

// Reordenar PUT /api/{coleccion}/reorder  body: [{"id": "...", "orden": 0}, ...]
func (h *CatalogoHandler[T, C, U]) Reordenar(c *gin.Context) {
	var items []dto.ReordenItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return
	}
	if !validar(c, &loteReorden{Items: items}) {
		return
	}
	resp, err := h.svc.Reordenar(c.Request.Context(), items)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Registrar mounts the CRUD routes on g. Reorder is only mounted for ordered
// collections.
func (h *CatalogoHandler[T, C, U]) Registrar(g *gin.RouterGroup, ordenado bool) {
	g.POST("", h.Crear)
	g.GET("", h.Listar)
	g.GET("/count", h.Contar)
	if ordenado {
		g.PUT("/reorder", h.Reordenar)
	}
	g.GET("/:id", h.Obtener)
	g.PUT("/:id", h.Actualizar)
	g.DELETE("/:id", h.Eliminar)
}
