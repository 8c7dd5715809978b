package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/model"
	appointmentsvc "github.com/medibook/booking-api/internal/service/appointment"
	doctorsvc "github.com/medibook/booking-api/internal/service/doctor"
)

// Handler serves the doctor panel and the public doctor listing.
type Handler struct {
	doctors      *doctorsvc.Service
	appointments *appointmentsvc.Service
}

func NewHandler(doctors *doctorsvc.Service, appointments *appointmentsvc.Service) *Handler {
	return &Handler{doctors: doctors, appointments: appointments}
}

// RegisterPublicRoutes registers the unauthenticated doctor listing.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/doctors", h.ListDoctors)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	doctorGroup := rg.Group("/doctor")
	{
		doctorGroup.GET("/appointments", h.ListAppointments)
		doctorGroup.POST("/appointments/:id/cancel", h.CancelAppointment)
		doctorGroup.POST("/appointments/:id/complete", h.CompleteAppointment)
		doctorGroup.GET("/profile", h.GetProfile)
		doctorGroup.PUT("/profile", h.UpdateProfile)
		doctorGroup.POST("/availability", h.ToggleAvailability)
		doctorGroup.GET("/dashboard", h.Dashboard)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.ListPublic(c.Request.Context())
	if err != nil {
		handler.RenderError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	appointments, err := h.appointments.ListForDoctor(c.Request.Context(), doctorID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.appointments.Cancel(c.Request.Context(), doctorID, appointmentID, appointmentsvc.ActorDoctor); err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cancelled": true}))
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.appointments.Complete(c.Request.Context(), doctorID, appointmentID); err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"completed": true}))
}

func (h *Handler) GetProfile(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	doctor, err := h.doctors.GetProfile(c.Request.Context(), doctorID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	var req model.UpdateDoctorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.doctors.UpdateProfile(c.Request.Context(), doctorID, &req); err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"updated": true}))
}

func (h *Handler) ToggleAvailability(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	available, err := h.doctors.ToggleAvailability(c.Request.Context(), doctorID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"available": available}))
}

func (h *Handler) Dashboard(c *gin.Context) {
	doctorID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	dashboard, err := h.doctors.Dashboard(c.Request.Context(), doctorID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(dashboard))
}
