package api

import (
	"encoding/json"
	"net/http"

	"github.com/rodrigoscoelho/ClaudeSync/internal/openai"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, openai.ErrorResponse{Error: msg})
}
