package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"monetto/internal/core"
)

const maxBodyBytes = 64 << 10 // 64KB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// periodFromQuery reads the filter period, defaulting to Month. Unknown
// values are rejected rather than silently bucketed.
func periodFromQuery(r *http.Request) (core.Period, error) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return core.Month, nil
	}
	p := core.Period(raw)
	if err := core.ValidateLimitPeriod(p); err != nil {
		return "", fmt.Errorf("period %q: %w", raw, err)
	}
	return p, nil
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
