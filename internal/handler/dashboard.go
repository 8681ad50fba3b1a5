package handler

import (
	"net/http"

	"github.com/angelous0/muestras/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats GET /api/dashboard/stats
//
//	@Summary	Conteo de registros por coleccion
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	map[string]int64
//	@Router		/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Estadisticas(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Root GET /api/
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "API Módulo Muestras Textil"})
}
