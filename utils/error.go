package utils

import (
	"errors"
	"net/http"

	"kommunity/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.Request.URL.Path))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

var statusByKind = []struct {
	kind   error
	status int
}{
	{models.ErrInvalidInput, http.StatusBadRequest},
	{models.ErrInvalidRange, http.StatusBadRequest},
	{models.ErrNotServiceman, http.StatusBadRequest},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrRequestNotFound, http.StatusNotFound},
	{models.ErrSlotNotFound, http.StatusNotFound},
	{models.ErrOverlap, http.StatusConflict},
	{models.ErrSlotUnavailable, http.StatusConflict},
	{models.ErrBookingMismatch, http.StatusConflict},
	{models.ErrInvalidTransition, http.StatusConflict},
	{models.ErrConcurrentUpdate, http.StatusConflict},
	{models.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// RespondError renders a service error. Unknown errors are logged and hidden.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	var se *models.ScheduleError
	if status == http.StatusInternalServerError || !errors.As(err, &se) {
		GetLogger().Error("Unexpected error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		c.AbortWithStatusJSON(status, ErrorResponse{Message: "Internal Server Error"})
		return
	}
	if status == http.StatusServiceUnavailable {
		GetLogger().Warn("Storage unavailable", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Message: se.Message, Code: se.Code})
}
