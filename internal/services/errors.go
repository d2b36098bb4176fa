package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateLemma = errors.New("duplicate lemma")
	ErrLemmaCollision = errors.New("lemma collision")
	ErrInvalidBatch   = errors.New("invalid batch")
	ErrTransient      = errors.New("transient store error")
	ErrConfiguration  = errors.New("configuration error")
)

// Error kinds exchanged across process boundaries.
const (
	KindValidation     = "validation"
	KindNotFound       = "not_found"
	KindDuplicateLemma = "duplicate_lemma"
	KindLemmaCollision = "lemma_collision"
	KindInvalidBatch   = "invalid_batch"
	KindTransient      = "transient"
	KindConfiguration  = "configuration"
	KindInternal       = "internal"
)

var kindMarkers = []struct {
	kind   string
	marker error
}{
	{KindValidation, ErrValidation},
	{KindNotFound, ErrNotFound},
	{KindDuplicateLemma, ErrDuplicateLemma},
	{KindLemmaCollision, ErrLemmaCollision},
	{KindInvalidBatch, ErrInvalidBatch},
	{KindTransient, ErrTransient},
	{KindConfiguration, ErrConfiguration},
}

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Validation is shorthand for Wrap(ErrValidation, ...) without a cause.
func Validation(component, operation, message string) error {
	return Wrap(ErrValidation, component, operation, message, nil)
}

// NotFound is shorthand for Wrap(ErrNotFound, ...) without a cause.
func NotFound(component, operation, message string) error {
	return Wrap(ErrNotFound, component, operation, message, nil)
}

// ErrorKind classifies err by the first sentinel it wraps. Unclassified errors
// report KindInternal; nil reports an empty string.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, km := range kindMarkers {
		if errors.Is(err, km.marker) {
			return km.kind
		}
	}
	return KindInternal
}

// MarkerForKind returns the sentinel for a kind produced by ErrorKind, or nil
// when the kind is unknown.
func MarkerForKind(kind string) error {
	for _, km := range kindMarkers {
		if km.kind == kind {
			return km.marker
		}
	}
	return nil
}

// IsRetryable reports whether the caller may resubmit the same request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
