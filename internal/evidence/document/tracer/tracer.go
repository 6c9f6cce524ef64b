// Package tracer provides a lightweight tracing abstraction for the document
// module. Services depend on the Tracer interface, not on OpenTelemetry, so
// tests can run with NoopTracer while production wires OTelTracer.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context contains the new span and should be passed to child operations.
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanDecode,
	//       tracer.Bool(tracer.AttrRegulatedMode, true),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int creates an int attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the document module.
const (
	SpanDecode      = "document.decode"
	SpanDecodeBatch = "document.decode_batch"
	SpanLookup      = "document.lookup"
	SpanStoreSave   = "document.store.save"
)

// Attribute keys used by the document module. Document numbers are only ever
// attached as a hash (AttrDocumentRef).
const (
	AttrFormat        = "mrz.format"
	AttrRejectReason  = "mrz.reject_reason"
	AttrRejectField   = "mrz.reject_field"
	AttrDocumentRef   = "document.ref"
	AttrDocumentID    = "document.id"
	AttrRegulatedMode = "regulated_mode"
	AttrBatchSize     = "batch.size"
	AttrBatchRejected = "batch.rejected"
)

// Event names used by the document module.
const (
	EventAuditEmitted = "audit.emitted"
)
