// Package respond centralizes JSON responses and the mapping from boundary
// errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/errs"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[WARNING] encode response: %v", err)
	}
}

// Error writes the error message with the status its category maps to:
// company not found -> 404, data unavailable -> 404, source format -> 502,
// connectivity -> 503, anything else -> 500.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrCompanyNotFound), errors.Is(err, errs.ErrDataUnavailable):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrSourceFormat):
		status = http.StatusBadGateway
	case errors.Is(err, errs.ErrConnectivity):
		status = http.StatusServiceUnavailable
	}
	JSON(w, status, errorBody{Error: err.Error()})
}

// CORS sets the permissive headers used during local development.
func CORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
