package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetOverview returns the aggregates for the caller's dashboard landing
// page. The role comes from the path, already checked against the
// caller's own role by the area guard.
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	role := models.UserRole(c.Param("role"))

	overview, err := h.dashboardService.GetOverview(c.Request.Context(), role, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}
