package logging

import (
	"context"
	"log/slog"

	"spyglass/internal/services"
)

// Shared field names keep log output consistent across packages.
const (
	// FieldComponent labels the subsystem that emitted the record.
	FieldComponent = "component"
	// FieldRequestID carries the correlation identifier of an API request.
	FieldRequestID = "request_id"
	// FieldIdentifier carries the media identifier being browsed or resolved.
	FieldIdentifier = "identifier"
	// FieldCamera carries the camera a record is scoped to.
	FieldCamera = "camera"
)

// ContextFields extracts known context values as log attributes.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]Attr, 0, 3)
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, String(FieldRequestID, requestID))
	}
	if identifier, ok := services.IdentifierFromContext(ctx); ok {
		fields = append(fields, String(FieldIdentifier, identifier))
	}
	if camera, ok := services.CameraFromContext(ctx); ok {
		fields = append(fields, String(FieldCamera, camera))
	}
	return fields
}

// WithContext returns a logger pre-populated with the context fields.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
