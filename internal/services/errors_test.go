package services_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"spyglass/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrUnavailable, "media", "browse", "fetch events", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"media", "browse", "fetch events"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToInternal(t *testing.T) {
	err := services.Wrap(nil, "media", "browse", "", nil)
	if !errors.Is(err, services.ErrInternal) {
		t.Fatalf("expected internal marker, got %v", err)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid identifier", services.Wrap(services.ErrInvalidIdentifier, "media", "browse", "bad path", nil), http.StatusBadRequest},
		{"validation", services.Wrap(services.ErrValidation, "api", "events", "bad limit", nil), http.StatusBadRequest},
		{"unresolvable", services.Wrap(services.ErrUnresolvable, "media", "resolve", "empty", nil), http.StatusNotFound},
		{"not found", services.Wrap(services.ErrNotFound, "bookmarks", "get", "missing", nil), http.StatusNotFound},
		{"unavailable", services.Wrap(services.ErrUnavailable, "frigate", "summary", "down", errors.New("dial")), http.StatusBadGateway},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "bad url", nil), http.StatusInternalServerError},
		{"unclassified", errors.New("surprise"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := services.HTTPStatus(tc.err); got != tc.status {
			t.Fatalf("%s: HTTPStatus = %d, want %d", tc.name, got, tc.status)
		}
	}
}
