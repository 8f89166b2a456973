package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OK4UK/academy-service/internal/models"
	"github.com/OK4UK/academy-service/internal/services"
	"github.com/OK4UK/academy-service/internal/utils"
)

type NavigationHandler struct {
	BaseHandler
	navigationService services.NavigationService
}

func NewNavigationHandler(navigationService services.NavigationService, logger utils.Logger) *NavigationHandler {
	return &NavigationHandler{
		BaseHandler:       NewBaseHandler(logger),
		navigationService: navigationService,
	}
}

// GetNav returns the menu for the caller's role area. The optional
// "section" query names the section currently on screen so the matching
// entry comes back marked active.
func (h *NavigationHandler) GetNav(c *gin.Context) {
	role := models.UserRole(c.Param("role"))
	section := c.Query("section")

	nav, err := h.navigationService.GetNav(c.Request.Context(), role, section)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, nav)
}

// GetSection resolves a dashboard section to its renderable surface.
// Unknown sections resolve to the under-construction placeholder rather
// than an error, so the client always has something to show.
func (h *NavigationHandler) GetSection(c *gin.Context) {
	role := models.UserRole(c.Param("role"))
	section := c.Param("section")

	resolved, err := h.navigationService.ResolveSection(c.Request.Context(), role, section)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resolved)
}
