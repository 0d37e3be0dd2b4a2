package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
	"github.com/twiced-technology-gmbh/pivotboard/internal/output"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, output.ErrorResponse{Error: msg, Code: code})
}

// writeError maps coded errors onto their HTTP status. Anything else is an
// internal error.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ce *clierr.Error
	if errors.As(err, &ce) {
		writeJSON(w, ce.HTTPStatus(), output.ErrorFrom(ce))
		return
	}
	h.logger.Error("request failed", "id", requestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, output.ErrorFrom(err))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return clierr.Newf(clierr.InvalidInput, "invalid request body: %v", err)
	}
	if dec.More() {
		return clierr.New(clierr.InvalidInput, "invalid request body: trailing data")
	}
	return nil
}

func badQuery(name, value string, err error) error {
	return clierr.Newf(clierr.InvalidInput, "invalid %s %q: %v", name, value, err).
		WithDetails(map[string]any{"param": name, "value": value})
}
