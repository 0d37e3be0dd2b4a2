package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/twiced-technology-gmbh/pivotboard/internal/clierr"
)

// JSON writes data as indented JSON to the given writer.
func JSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ErrorResponse is the JSON envelope for errors on stdout and over HTTP.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorFrom builds the envelope for err. Errors without a code are reported
// as INTERNAL_ERROR.
func ErrorFrom(err error) ErrorResponse {
	var ce *clierr.Error
	if errors.As(err, &ce) {
		return ErrorResponse{Error: ce.Message, Code: ce.Code, Details: ce.Details}
	}
	return ErrorResponse{Error: err.Error(), Code: clierr.InternalError}
}

// JSONError writes err to w as an ErrorResponse.
func JSONError(w io.Writer, err error) {
	_ = JSON(w, ErrorFrom(err))
}

// BatchResult is the outcome for one ID of a multi-ID command.
type BatchResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Code  string `json:"code,omitempty"`
}

// NewBatchResult records the outcome of the operation on id.
func NewBatchResult(id string, err error) BatchResult {
	if err == nil {
		return BatchResult{ID: id, OK: true}
	}
	resp := ErrorFrom(err)
	r := BatchResult{ID: id, Error: resp.Error}
	if resp.Code != clierr.InternalError {
		r.Code = resp.Code
	}
	return r
}
