package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskvault/internal/adapter/http/validation"
	"taskvault/internal/core/domain"
	"taskvault/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	resp := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		resp.Message = message[0]
	}

	c.JSON(statusCode, resp)
}

func SendError(c *gin.Context, statusCode int, code string, errs []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errs,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

func SendValidationError(c *gin.Context, err error) {
	validationErrors := validation.FormatValidationErrors(err)
	SendError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErrors)
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errs := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", errs, details...)
}

func SendUnauthorizedError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", errs)
}

func SendForbiddenError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{
			Field:   "auth",
			Message: message,
		},
	}

	SendError(c, http.StatusForbidden, "FORBIDDEN", errs)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errs := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, "BAD_REQUEST", errs)
}

func SendNotFoundError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, "NOT_FOUND", errs)
}

func SendConflictError(c *gin.Context, message string) {
	errs := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusConflict, "CONFLICT", errs)
}

// SendDomainError maps a service error onto an HTTP status through the
// domain sentinels. Anything unclassified is a 500 with a generic message
// so internals never leak to clients.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		SendBadRequestError(c, "request", err.Error())
	case errors.Is(err, domain.ErrConflict):
		SendConflictError(c, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		SendUnauthorizedError(c, "Invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		SendForbiddenError(c, "Access denied")
	default:
		SendInternalError(c, "Internal server error")
	}
}
