package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	appService service.ApplicationService
}

func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ApplicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	apps := router.Group("/api/applications")
	{
		apps.GET("", middleware.RequireAuth(), h.ListApplications)
		apps.POST("", middleware.RequireAdmin(), h.CreateApplication)
		apps.PUT("/:id", middleware.RequireAdmin(), h.UpdateApplication)
		apps.DELETE("/:id", middleware.RequireAdmin(), h.DeleteApplication)
	}
}

// ListApplications returns the catalog ordered by name with department tags embedded
// @Summary      List applications
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ApplicationResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/applications [get]
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	apps, err := h.appService.ListApplications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, apps))
}

// CreateApplication creates a new catalog entry with department associations
// @Summary      Create application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateApplicationRequest  true  "Application"
// @Success      201      {object}  response.Response{data=service.ApplicationResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/applications [post]
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req service.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	app, err := h.appService.CreateApplication(c.Request.Context(), req, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, app))
}

// UpdateApplication partially updates a catalog entry; departmentIds, when
// present, replaces the association set
// @Summary      Update application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Application ID"
// @Param        payload  body      service.UpdateApplicationRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.ApplicationResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/applications/{id} [put]
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req service.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	app, err := h.appService.UpdateApplication(c.Request.Context(), c.Param("id"), req, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, app))
}

// DeleteApplication removes a catalog entry
// @Summary      Delete application
// @Tags         applications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Application ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/applications/{id} [delete]
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.appService.DeleteApplication(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
