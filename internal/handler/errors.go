package handler

import (
	"errors"
	"net/http"

	"tasktracker/internal/logger"
	"tasktracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// respondError maps a service error onto an HTTP status. Errors outside the
// service taxonomy are logged and reported without their text.
func respondError(c *gin.Context, err error) {
	var forbidden *service.ForbiddenError
	switch {
	case errors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden", Reason: string(forbidden.Reason)})
	case errors.Is(err, service.ErrUnknownActor):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unknown user"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrTransactionFailed):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Operation failed, nothing was changed"})
	default:
		logger.FromContext(c.Request.Context(), zap.L()).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
