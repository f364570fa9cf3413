package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/logger"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Error sends a JSON error response.
// AppErrors carry their own status code. Backend failures pass 4xx statuses
// through and turn everything else into 502. Anything else is a 500 and is
// logged, since the message is not exposed to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Details: appErr.Details})
		return
	}

	var beErr *backend.Error
	if errors.As(err, &beErr) {
		logger.FromContext(c).Warn("backend call failed",
			zap.Int("status", beErr.Status),
			zap.String("path", beErr.Path),
			zap.String("message", beErr.Message),
		)
		if beErr.Status >= 400 && beErr.Status < 500 {
			c.JSON(beErr.Status, ErrorResponse{Error: beErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream service unavailable"})
		return
	}

	logger.FromContext(c).Error("unhandled error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
