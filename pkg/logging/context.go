package logging

import (
	"context"
)

type contextKey string

const (
	traceIDKey     contextKey = "trace_id"
	messageIDKey   contextKey = "message_id"
	serviceNameKey contextKey = "service_name"
	requestIDKey   contextKey = "request_id"
	clientIPKey    contextKey = "client_ip"
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, messageIDKey, messageID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, serviceNameKey, serviceName)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithClientIP(ctx context.Context, clientIP string) context.Context {
	return context.WithValue(ctx, clientIPKey, clientIP)
}

func GetTraceID(ctx context.Context) string {
	return stringValue(ctx, traceIDKey)
}

func GetMessageID(ctx context.Context) string {
	return stringValue(ctx, messageIDKey)
}

func GetServiceName(ctx context.Context) string {
	return stringValue(ctx, serviceNameKey)
}

func GetRequestID(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// GetClientIP returns the caller address captured by the HTTP layer.
// The audit trail records it; log lines do not.
func GetClientIP(ctx context.Context) string {
	return stringValue(ctx, clientIPKey)
}

func stringValue(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 8)

	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}

	if messageID := GetMessageID(ctx); messageID != "" {
		fields = append(fields, "message_id", messageID)
	}

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if serviceName := GetServiceName(ctx); serviceName != "" {
		fields = append(fields, "service_name", serviceName)
	}

	return fields
}
