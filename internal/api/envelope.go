package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// The response envelope carries ok plus exactly one of transcript/error.

type transcriptEnvelope struct {
	OK         bool     `json:"ok"`
	Transcript []string `json:"transcript"`
}

type errorEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeTranscript(w http.ResponseWriter, segments []string) {
	if segments == nil {
		segments = []string{}
	}
	writeJSON(w, http.StatusOK, transcriptEnvelope{OK: true, Transcript: segments})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{OK: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response write failed", "error", err)
	}
}
