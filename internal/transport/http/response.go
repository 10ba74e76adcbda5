package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodvision-server-go/internal/platform/errors"
)

// APIResponse is the uniform error envelope returned by the API. Successful
// responses keep their endpoint-specific shape.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// RespondError writes a failure envelope.
func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	resp := APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	}

	c.JSON(httpStatus, resp)
}

// RespondStageError maps a pipeline error onto an HTTP status by its kind
// and writes the failure envelope.
func RespondStageError(c *gin.Context, err error) {
	RespondError(c, StatusForKind(errors.KindOf(err)), err.Error(), nil)
}

// StatusForKind maps error kinds onto HTTP statuses: client mistakes are
// 400, upstream service failures 502, everything else 500.
func StatusForKind(kind errors.Kind) int {
	switch kind {
	case errors.KindImage, errors.KindTransport:
		return http.StatusBadRequest
	case errors.KindDetection, errors.KindInfo, errors.KindVideo:
		return http.StatusBadGateway
	case errors.KindReport, errors.KindNarration, errors.KindConfig:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
