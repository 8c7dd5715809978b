package admin

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/model"
	adminsvc "github.com/medibook/booking-api/internal/service/admin"
	appointmentsvc "github.com/medibook/booking-api/internal/service/appointment"
	doctorsvc "github.com/medibook/booking-api/internal/service/doctor"
)

const maxImageSize = 5 << 20

// Handler serves the admin panel.
type Handler struct {
	admin        *adminsvc.Service
	doctors      *doctorsvc.Service
	appointments *appointmentsvc.Service
}

func NewHandler(admin *adminsvc.Service, doctors *doctorsvc.Service, appointments *appointmentsvc.Service) *Handler {
	return &Handler{
		admin:        admin,
		doctors:      doctors,
		appointments: appointments,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	adminGroup := rg.Group("/admin")
	{
		adminGroup.POST("/doctors", h.AddDoctor)
		adminGroup.GET("/doctors", h.ListDoctors)
		adminGroup.POST("/doctors/:id/availability", h.ToggleAvailability)
		adminGroup.GET("/appointments", h.ListAppointments)
		adminGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
		adminGroup.GET("/dashboard", h.Dashboard)
	}
}

func (h *Handler) AddDoctor(c *gin.Context) {
	var req model.AddDoctorRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	var (
		image     io.Reader
		imageSize int64
		imageType string
	)
	if file, header, err := c.Request.FormFile("image"); err == nil {
		defer file.Close()
		if header.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("image too large"))
			return
		}
		image = file
		imageSize = header.Size
		imageType = header.Header.Get("Content-Type")
	}

	doctor, err := h.admin.AddDoctor(c.Request.Context(), &req, image, imageSize, imageType)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(doctor))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.admin.ListDoctors(c.Request.Context())
	if err != nil {
		handler.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ToggleAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	available, err := h.doctors.ToggleAvailability(c.Request.Context(), doctorID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": available}))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	appointments, err := h.appointments.ListAll(c.Request.Context())
	if err != nil {
		handler.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.appointments.Cancel(c.Request.Context(), uuid.Nil, appointmentID, appointmentsvc.ActorAdmin); err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cancelled": true}))
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.admin.Dashboard(c.Request.Context())
	if err != nil {
		handler.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}
