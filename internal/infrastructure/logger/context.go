package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	operatorKey  contextKey = "operator"
	companyKey   contextKey = "company_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID stores the request ID and returns a context carrying an enriched logger
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("request_id", requestID)))
}

// WithOperator stores the logged-in operator email
func WithOperator(ctx context.Context, email string) context.Context {
	ctx = context.WithValue(ctx, operatorKey, email)
	return WithContext(ctx, FromContext(ctx).With(zap.String("operator", email)))
}

// WithCompany stores the selected company id
func WithCompany(ctx context.Context, companyID string) context.Context {
	ctx = context.WithValue(ctx, companyKey, companyID)
	return WithContext(ctx, FromContext(ctx).With(zap.String("company_id", companyID)))
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// GetOperator retrieves the operator email from context
func GetOperator(ctx context.Context) string {
	op, _ := ctx.Value(operatorKey).(string)
	return op
}

// GetCompanyID retrieves the selected company id from context
func GetCompanyID(ctx context.Context) string {
	id, _ := ctx.Value(companyKey).(string)
	return id
}

// L returns the context logger with trace_id/span_id attached when a span is active.
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return l
	}
	return l.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
