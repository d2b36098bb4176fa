package services_test

import (
	"errors"
	"strings"
	"testing"

	"wordcore/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrTransient, "store", "insert word", "busy", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"store", "insert word", "busy"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestErrorKindRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		marker error
		kind   string
	}{
		{"validation", services.ErrValidation, services.KindValidation},
		{"not found", services.ErrNotFound, services.KindNotFound},
		{"duplicate", services.ErrDuplicateLemma, services.KindDuplicateLemma},
		{"collision", services.ErrLemmaCollision, services.KindLemmaCollision},
		{"batch", services.ErrInvalidBatch, services.KindInvalidBatch},
		{"transient", services.ErrTransient, services.KindTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := services.Wrap(tc.marker, "component", "op", "detail", nil)
			if got := services.ErrorKind(err); got != tc.kind {
				t.Fatalf("ErrorKind = %q, want %q", got, tc.kind)
			}
			if marker := services.MarkerForKind(tc.kind); marker != tc.marker {
				t.Fatalf("MarkerForKind(%q) = %v, want %v", tc.kind, marker, tc.marker)
			}
		})
	}
	if kind := services.ErrorKind(errors.New("plain")); kind != services.KindInternal {
		t.Fatalf("expected internal kind for plain error, got %q", kind)
	}
	if kind := services.ErrorKind(nil); kind != "" {
		t.Fatalf("expected empty kind for nil, got %q", kind)
	}
	if services.MarkerForKind("bogus") != nil {
		t.Fatal("expected nil marker for unknown kind")
	}
}

func TestIsRetryable(t *testing.T) {
	if !services.IsRetryable(services.Wrap(services.ErrTransient, "store", "commit", "", errors.New("locked"))) {
		t.Fatal("expected transient error to be retryable")
	}
	if services.IsRetryable(services.Validation("srs", "apply", "bad result")) {
		t.Fatal("expected validation error to be final")
	}
}
