package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekalavya-cmd/studbud-backend/internal/planner"
	"github.com/ekalavya-cmd/studbud-backend/internal/services"
)

// respondError maps a domain error to the flat {"error", "detail"} shape
// the client expects.
func respondError(c *gin.Context, message string, err error) {
	c.JSON(statusFor(err), gin.H{"error": message, "detail": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, planner.ErrInvalidInput),
		errors.Is(err, planner.ErrUnknownTheme),
		errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, planner.ErrThemeLocked),
		errors.Is(err, planner.ErrThemeUnlocked),
		errors.Is(err, planner.ErrInsufficientPoints):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
