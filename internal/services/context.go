package services

import "context"

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	wordIDKey    contextKey = "word_id"
	batchIDKey   contextKey = "batch_id"
	requestIDKey contextKey = "request_id"
)

// WithUserID annotates context with the learner identifier.
func WithUserID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the learner identifier if present.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, userIDKey)
}

// WithWordID annotates context with the word identifier.
func WithWordID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, wordIDKey, id)
}

// WordIDFromContext extracts the word identifier if present.
func WordIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, wordIDKey)
}

// WithBatchID annotates context with the import batch identifier.
func WithBatchID(ctx context.Context, id int64) context.Context {
	if id <= 0 {
		return ctx
	}
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext extracts the import batch identifier if present.
func BatchIDFromContext(ctx context.Context) (int64, bool) {
	return int64Value(ctx, batchIDKey)
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

func int64Value(ctx context.Context, key contextKey) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	switch val := ctx.Value(key).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}
