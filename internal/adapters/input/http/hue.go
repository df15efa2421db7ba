package http

import (
	"encoding/json"
	"net/http"
)

// Hue API error types.
const (
	hueErrUnauthorized     = 1
	hueErrInvalidJSON      = 2
	hueErrNotAvailable     = 3
	hueErrMethodNotAllowed = 4
	hueErrInvalidValue     = 7
	hueErrNotModifiable    = 8
	hueErrInternal         = 901
)

type hueError struct {
	Type        int    `json:"type"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// writeHueError answers with HTTP 200, as the bridge does; clients read the
// error from the body.
func writeHueError(w http.ResponseWriter, typ int, address, description string) {
	writeJSON(w, []map[string]hueError{{"error": {Type: typ, Address: address, Description: description}}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
