package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", New(ErrInvalidInput, "bad extension"), http.StatusBadRequest},
		{"document parse", New(ErrDocumentParse, "corrupt PDF"), http.StatusBadRequest},
		{"archive", New(ErrArchive, "bad magic"), http.StatusBadRequest},
		{"analysis parse", New(ErrAnalysisParse, "no JSON"), http.StatusInternalServerError},
		{"model", New(ErrModel, "timeout"), http.StatusInternalServerError},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrap_keepsClassAndCause(t *testing.T) {
	cause := errors.New("xref table truncated")
	err := Wrap(ErrDocumentParse, "open PDF", cause)
	if !errors.Is(err, ErrDocumentParse) {
		t.Error("wrapped error should match its class")
	}
	if errors.Is(err, ErrArchive) {
		t.Error("wrapped error should not match other classes")
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "xref table truncated") {
		t.Errorf("message should carry the underlying cause: %q", err.Error())
	}
}

func TestWrap_survivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("invoice a.pdf: %w", Wrap(ErrDocumentParse, "open PDF", errors.New("bad header")))
	if !errors.Is(err, ErrDocumentParse) {
		t.Error("class should survive fmt.Errorf wrapping")
	}
	if Status(err) != http.StatusBadRequest {
		t.Errorf("Status() = %d, want 400", Status(err))
	}
}

func TestNew_message(t *testing.T) {
	err := New(ErrInvalidInput, "HR policy must be a PDF file")
	if err.Error() != "HR policy must be a PDF file" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Error("New should have no cause")
	}
}
