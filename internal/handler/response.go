package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/patient-records/pkg/errors"
)

type Response struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Kind    apperrors.Kind `json:"kind,omitempty"`
	Data    interface{}    `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(err error) *Response {
	message := "internal server error"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}
	return &Response{
		Status:  "error",
		Kind:    apperrors.KindOf(err),
		Message: message,
	}
}

// StatusForKind maps the error taxonomy onto HTTP status codes. The
// mapping lives at the transport boundary only; the core never deals
// in HTTP statuses.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the typed error kind and message back to the
// caller unchanged.
func RespondError(c *gin.Context, err error) {
	c.JSON(StatusForKind(apperrors.KindOf(err)), NewErrorResponse(err))
}
