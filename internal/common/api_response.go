package common

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"carclub/paddock/internal/constants"
	"carclub/paddock/internal/logging"
	"carclub/paddock/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: responseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response. The status code
// and error kind come from the error itself; internal errors are not
// echoed to the caller.
func RespondError(w http.ResponseWriter, initTime time.Time, err error) {
	code := HTTPStatus(err)
	kind := KindOf(err)

	msg := "internal server error"
	if kind != KindInternal {
		msg = err.Error()
	} else {
		logging.Error("Request failed", "error", err.Error())
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ErrorKind:    string(kind),
		ResponseTime: responseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondBadRequest rejects malformed input before it reaches a service.
func RespondBadRequest(w http.ResponseWriter, initTime time.Time, message string) {
	RespondError(w, initTime, BadRequest(message))
}

// RespondUnauthorized is used when no actor could be resolved.
func RespondUnauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, dtos.APIResponse{
		Status:  string(constants.APIStatusError),
		Message: message,
	})
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err.Error())
	}
}

func responseTime(init time.Time) string {
	return fmt.Sprintf("%dms", time.Since(init).Milliseconds())
}
