package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/doctor/login", h.LoginDoctor)
		authGroup.POST("/admin/login", h.LoginAdmin)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(token))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}

func (h *Handler) LoginDoctor(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.LoginDoctor(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.service.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(token))
}
