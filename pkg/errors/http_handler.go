package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// WriteError maps err onto its status code and writes the public error body.
// Errors that are not AppErrors become a generic 500.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)

	w.Header().Set("Content-Type", "application/json")
	if appErr.Code == CodeTooManyRequests {
		if secs, ok := appErr.Details[DetailRetryAfter].(int); ok {
			w.Header().Set("Retry-After", strconv.Itoa(secs))
		}
	}
	w.WriteHeader(appErr.StatusCode())

	return json.NewEncoder(w).Encode(appErr.response())
}
