package httputil

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/bubblepack/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidColumns, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidTransition, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeSessionNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeConverging, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeSessionLimit, "x"), http.StatusServiceUnavailable},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errors.New(errors.ErrCodeInvalidGroups, "group count must be >= 1, got 0"))
	if status != http.StatusBadRequest || rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d / %d, want 400", status, rec.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Code != errors.ErrCodeInvalidGroups || !strings.Contains(resp.Error.Message, "group count") {
		t.Errorf("body = %+v", resp)
	}
}

func TestWriteErrorHidesUncoded(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.New("dial tcp 10.0.0.3:6379: connection refused"))
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Errorf("internal error text leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Columns int `json:"columns"`
	}
	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"valid", `{"columns": 4}`, 4, false},
		{"empty", ``, 0, false},
		{"unknown field", `{"rows": 4}`, 0, true},
		{"trailing", `{"columns": 4} {}`, 0, true},
		{"malformed", `{"columns":`, 0, true},
		{"too large", `{"columns": 4, "pad": "` + strings.Repeat("x", 100) + `"}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.in))
			var b body
			err := DecodeJSON(r, &b, 64)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
			if !tt.wantErr && b.Columns != tt.want {
				t.Errorf("Columns = %d, want %d", b.Columns, tt.want)
			}
		})
	}
}
