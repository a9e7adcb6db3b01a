package handler

import (
	"net/http"
	"time"
)

// HandleHome reports that the server is up.
// GET /
func HandleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		"message":   "Server is running smoothly",
		"timestamp": time.Now().UTC(),
	})
}

// HandleNotFound answers any unmatched route with a JSON 404.
func HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found.")
}
