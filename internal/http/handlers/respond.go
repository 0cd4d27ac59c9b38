package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/openfence/fence-quote-api/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps err to the uniform failure envelope. Only the public
// message crosses the wire.
func writeError(w http.ResponseWriter, err error) {
	status, msg := apperr.Public(err)
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
