// Package web holds HTTP helpers shared by REST handlers.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// ParseName extracts the item name from the {name} path parameter.
// Returns the decoded name and a boolean indicating success.
func ParseName(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (string, bool) {
	raw := chi.URLParam(r, "name")
	name := raw
	// chi matches on RawPath when it is set, so only then is the parameter still escaped
	if r.URL.RawPath != "" {
		var err error
		if name, err = url.PathUnescape(raw); err != nil {
			name = ""
		}
	}
	if strings.TrimSpace(name) == "" {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid item name: %q", raw))
		return "", false
	}
	return name, true
}
