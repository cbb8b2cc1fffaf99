package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AppListHandler struct {
	listService service.AppListService
}

func NewAppListHandler(listService service.AppListService) *AppListHandler {
	return &AppListHandler{listService: listService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AppListHandler) RegisterRoutes(router *gin.RouterGroup) {
	myApps := router.Group("/api/my-applications", middleware.RequireAuth())
	{
		myApps.GET("", h.ListMyApplications)
		myApps.POST("", h.AddToMyList)
		myApps.DELETE("", h.RemoveFromMyList)
		myApps.PUT("/reorder", h.Reorder)
	}
}

type myApplicationPayload struct {
	ApplicationID string `json:"applicationId" binding:"required"`
}

type reorderPayload struct {
	OrderedApplicationIDs []string `json:"orderedApplicationIds" binding:"required"`
}

// ListMyApplications returns the caller's personal list in stored order
// @Summary      List my applications
// @Tags         my-applications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ApplicationResponse}
// @Router       /api/my-applications [get]
func (h *AppListHandler) ListMyApplications(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	apps, err := h.listService.ListMyApplications(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, apps))
}

// AddToMyList appends an application to the caller's personal list
func (h *AppListHandler) AddToMyList(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req myApplicationPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Application ID is required"))
		return
	}

	if err := h.listService.AddToMyList(c.Request.Context(), identity.UserID, req.ApplicationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"success": true}))
}

// RemoveFromMyList drops an application from the caller's personal list
func (h *AppListHandler) RemoveFromMyList(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	applicationID := c.Query("applicationId")
	if applicationID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Application ID is required"))
		return
	}

	if err := h.listService.RemoveFromMyList(c.Request.Context(), identity.UserID, applicationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"success": true}))
}

// Reorder rewrites the personal list order to the submitted id sequence
// @Summary      Reorder my applications
// @Description  Accepts the full ordered id list and rewrites order_index to each id's position. The list must be a permutation of the current membership.
// @Tags         my-applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      reorderPayload  true  "Ordered application ids"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/my-applications/reorder [put]
func (h *AppListHandler) Reorder(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req reorderPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid data format"))
		return
	}

	if err := h.listService.Reorder(c.Request.Context(), identity.UserID, req.OrderedApplicationIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"success": true}))
}
