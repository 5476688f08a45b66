package handlers

import (
	"errors"
	"net/http"

	"fabtech_dashboard/internal/catalog"
	"fabtech_dashboard/internal/services"
	"fabtech_dashboard/internal/wizard"
	"fabtech_dashboard/pkg/backend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// statusFor maps a failure to its HTTP status. The body is the same for all
// of them: the error message.
func statusFor(err error) int {
	var backendErr *backend.Error
	switch {
	case errors.Is(err, services.ErrReadOnly):
		return http.StatusConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrUnknownTable),
		errors.Is(err, services.ErrUnknownFolder),
		errors.Is(err, services.ErrParentRequired),
		errors.Is(err, wizard.ErrUnknownStep),
		errors.Is(err, catalog.ErrUnknownDesign),
		errors.Is(err, catalog.ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.As(err, &backendErr):
		switch {
		case backendErr.StatusCode == http.StatusUnauthorized || backendErr.StatusCode == http.StatusForbidden:
			return http.StatusUnauthorized
		case backendErr.StatusCode >= 400 && backendErr.StatusCode < 500:
			return http.StatusBadRequest
		}
	}
	return http.StatusBadGateway
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusBadGateway {
		logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
