package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favService service.FavoriteService
}

func NewFavoriteHandler(favService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favService: favService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/api/favorites", middleware.RequireAuth())
	{
		favorites.GET("", h.ListFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.DELETE("", h.RemoveFavorite)
	}
}

type favoritePayload struct {
	ApplicationID string `json:"applicationId" binding:"required"`
}

// ListFavorites returns the caller's favorited application ids
// @Summary      List favorites
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	favorites, err := h.favService.ListFavorites(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, favorites))
}

// AddFavorite marks an application as favorited
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req favoritePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Application ID is required"))
		return
	}

	if err := h.favService.AddFavorite(c.Request.Context(), identity.UserID, req.ApplicationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"success": true}))
}

// RemoveFavorite unmarks a favorited application; applicationId comes as a
// query parameter to mirror the DELETE call shape the portal issues
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	applicationID := c.Query("applicationId")
	if applicationID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Application ID is required"))
		return
	}

	if err := h.favService.RemoveFavorite(c.Request.Context(), identity.UserID, applicationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"success": true}))
}
