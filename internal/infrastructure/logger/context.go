package logger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type ctxKey struct{}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return L()
}

// WithOperation tags every line logged through ctx with the operation name
// and a short random id so the lines of one run can be grepped together.
func WithOperation(ctx context.Context, operation string) context.Context {
	logger := FromContext(ctx).With(
		"operation", operation,
		"op_id", generateShortID(),
	)
	return ContextWithLogger(ctx, logger)
}

func WithDomain(ctx context.Context, domainName string) context.Context {
	return ContextWithLogger(ctx, FromContext(ctx).With("domain", domainName))
}

func generateShortID() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
