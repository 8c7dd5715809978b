package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/model"
	appointmentsvc "github.com/medibook/booking-api/internal/service/appointment"
	paymentsvc "github.com/medibook/booking-api/internal/service/payment"
	usersvc "github.com/medibook/booking-api/internal/service/user"
)

const maxImageSize = 5 << 20

// Handler serves the patient-facing surface: profile, bookings and
// payments.
type Handler struct {
	users        *usersvc.Service
	appointments *appointmentsvc.Service
	payments     *paymentsvc.Service
}

func NewHandler(users *usersvc.Service, appointments *appointmentsvc.Service, payments *paymentsvc.Service) *Handler {
	return &Handler{
		users:        users,
		appointments: appointments,
		payments:     payments,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.PUT("/profile", h.UpdateProfile)
	rg.POST("/profile/image", h.UploadImage)

	rg.POST("/appointments", h.BookAppointment)
	rg.GET("/appointments", h.ListAppointments)
	rg.POST("/appointments/:id/cancel", h.CancelAppointment)

	rg.POST("/payments/:provider/order", h.CreatePaymentOrder)
	rg.POST("/payments/:provider/verify", h.VerifyPayment)
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	user, err := h.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), userID, &req); err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"updated": true}))
}

func (h *Handler) UploadImage(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("image file required"))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("image too large"))
		return
	}

	url, err := h.users.UploadImage(c.Request.Context(), userID, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"image": url}))
}

func (h *Handler) BookAppointment(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	apt, err := h.appointments.Book(c.Request.Context(), userID, doctorID, req.SlotDate, req.SlotTime)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	appointments, err := h.appointments.ListForUser(c.Request.Context(), userID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.appointments.Cancel(c.Request.Context(), userID, appointmentID, appointmentsvc.ActorUser); err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cancelled": true}))
}

func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	userID, err := handler.SubjectID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid subject"))
		return
	}

	var req model.PaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	appointmentID, err := uuid.Parse(req.AppointmentID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	order, err := h.payments.CreateOrder(c.Request.Context(), userID, appointmentID, c.Param("provider"))
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(order))
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req model.PaymentVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.payments.Verify(c.Request.Context(), c.Param("provider"), req.ChargeID)
	if err != nil {
		handler.RenderError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}
