package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	reqService service.RequestService
}

func NewRequestHandler(reqService service.RequestService) *RequestHandler {
	return &RequestHandler{reqService: reqService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/application-requests")
	{
		requests.GET("", middleware.RequireAuth(), h.ListRequests)
		requests.POST("", middleware.RequireAuth(), h.CreateRequest)
		requests.PUT("/:id", middleware.RequireAdmin(), h.UpdateRequest)
		requests.DELETE("/:id", middleware.RequireAdmin(), h.RejectRequest)
	}
}

// ListRequests returns all requests for admins, only the caller's own otherwise
// @Summary      List application requests
// @Tags         application-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.RequestResponse}
// @Failure      401  {object}  response.Response
// @Router       /api/application-requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	requests, err := h.reqService.ListRequests(c.Request.Context(), identity.UserID, identity.IsAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, requests))
}

// CreateRequest submits a new application request in pending status
// @Summary      Submit application request
// @Tags         application-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Request"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/application-requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	request, err := h.reqService.CreateRequest(c.Request.Context(), identity.UserID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, request))
}

// UpdateRequest edits a pending request, or — with approve set — promotes it
// into a catalog application
// @Summary      Update or approve application request
// @Description  Without approve this is a partial field edit. With approve=true the stored request is promoted into a catalog application in one transaction and the response carries the new application.
// @Tags         application-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Request ID"
// @Param        payload  body      service.UpdateRequestDTO  true  "Fields to update, or approve switch"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/application-requests/{id} [put]
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	var req service.UpdateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if req.Approve {
		app, err := h.reqService.ApproveRequest(c.Request.Context(), c.Param("id"), req.AdminNotes, identity.UserID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, app))
		return
	}

	request, err := h.reqService.UpdateRequest(c.Request.Context(), c.Param("id"), req, identity.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, request))
}

// RejectRequest deletes the request outright; nothing enters the catalog
// @Summary      Reject application request
// @Tags         application-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/application-requests/{id} [delete]
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	identity, ok := mustIdentity(c)
	if !ok {
		return
	}

	if err := h.reqService.RejectRequest(c.Request.Context(), c.Param("id"), identity.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"rejected": true}))
}
