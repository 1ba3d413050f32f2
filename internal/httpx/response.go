// Package httpx writes JSON API responses.
package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is the body of every non-2xx API response. Error is a stable
// snake_case code; Details is optional context.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON encodes payload before touching w, so an encoding failure turns into a
// clean 500 instead of a truncated body.
func JSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		buf.Reset()
		buf.WriteString(`{"error":"encode_error"}` + "\n")
		status = http.StatusInternalServerError
	}
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// JSONError writes an ErrorResponse with the given status and code.
func JSONError(w http.ResponseWriter, status int, code string, details any) {
	JSON(w, status, ErrorResponse{Error: code, Details: details})
}
