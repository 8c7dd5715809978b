package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/booking-api/pkg/apperror"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RenderError maps a service error to an HTTP response. Domain errors
// surface their message; anything else becomes an opaque 500.
func RenderError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message := appErr.Message
		if appErr.Kind == apperror.KindInternal {
			message = "internal server error"
		}
		c.JSON(appErr.StatusCode(), NewErrorResponse(message))
		return
	}
	c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
}
