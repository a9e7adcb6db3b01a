package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
)

// maxBodyBytes caps request bodies read by readJSON.
const maxBodyBytes = 1 << 20

// envelope is the uniform response wrapper: success, message, and any
// payload keys such as result, response or token.
type envelope map[string]any

// writeJSON sends a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write JSON response", "error", err)
	}
}

// writeSuccess sends a success envelope. payload may be nil.
func writeSuccess(w http.ResponseWriter, status int, message string, payload envelope) {
	body := envelope{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

// writeError sends a failure envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// writeInternalError logs err and sends a generic 500 envelope.
func writeInternalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
}

// readJSON decodes the request body, which must hold exactly one JSON
// value, into the given destination. Numbers decode as json.Number so
// documents keep their exact values.
func readJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}
