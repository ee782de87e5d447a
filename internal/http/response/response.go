package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"admithub/internal/common"
)

// Envelope is the uniform response shape: {message, data}. Bulk
// operations put a BulkData in Data so callers can reconcile partial
// success without treating the batch as failed.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type BulkData struct {
	InvalidIDs []common.UUID `json:"invalidIds"`
	Items      any           `json:"items"`
}

func JSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Message: message, Data: data})
}

type errorBody struct {
	Error   common.Code       `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Error(w http.ResponseWriter, err error) {
	var typed *common.Error
	if !errors.As(err, &typed) {
		typed = common.NewError(common.CodeInternal, "internal error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(typed.Code))
	_ = json.NewEncoder(w).Encode(errorBody{Error: typed.Code, Message: typed.Message, Fields: typed.Fields})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
