package httputil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/bubblepack/pkg/errors"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is given.
const DefaultMaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. Unknown fields, trailing
// data and bodies over maxBytes are rejected with INVALID_INPUT. An empty
// body leaves dst untouched.
func DecodeJSON(r *http.Request, dst any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if int64(len(data)) > maxBytes {
		return errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if dec.More() {
		return errors.New(errors.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
