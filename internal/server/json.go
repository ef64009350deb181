package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode JSON response", "error", err)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type match struct {
	Filename   string  `json:"filename"`
	Similarity float64 `json:"similarity"`
}

type searchResponse struct {
	Matches []match `json:"matches"`
}
