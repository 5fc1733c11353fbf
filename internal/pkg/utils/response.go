package utils

import (
	"errors"
	"mediconnect-service/internal/pkg/constvars"
	"mediconnect-service/internal/pkg/dto/responses"
	"mediconnect-service/internal/pkg/exceptions"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	writeJSON(w, code, responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// BuildErrorResponse maps err onto its CustomError status, falling back to 500.
// The request ID is read back from the response header set by the request ID
// middleware.
func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	requestID := w.Header().Get(constvars.HeaderXRequestID)
	response := responses.ErrorResponseDTO{
		StatusCode: constvars.StatusInternalServerError,
		Message:    constvars.ErrClientSomethingWrongWithApplication,
		RequestID:  requestID,
	}

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		response.StatusCode = customErr.StatusCode
		response.Message = customErr.ClientMessage
		log.Error(customErr.DevMessage,
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, customErr.StatusCode),
			zap.Any(constvars.LoggingErrorLocationsKey, customErr.Locations),
		)
		if GetEnvString("APP_ENV", "development") != "production" {
			response.DevMessage = customErr.DevMessage
			response.Locations = customErr.Locations
		}
	} else {
		log.Error(err.Error(), zap.String(constvars.LoggingRequestIDKey, requestID))
	}

	writeJSON(w, response.StatusCode, response)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
