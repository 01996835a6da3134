package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrAlreadyConsumed, http.StatusBadRequest},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthorized, http.StatusForbidden},
		{ErrInvalidTransition, http.StatusUnprocessableEntity},
		{ErrConflict, http.StatusConflict},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "order %s", "ORD-00001")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrapped error lost its sentinel: %v", err)
	}
	if err.Error() != "not found: order ORD-00001" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}
