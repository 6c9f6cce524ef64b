package audit

import (
	"context"
	"log/slog"
	"time"

	"mrzgate/pkg/platform/privacy"
	"mrzgate/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger provides structured audit logging with optional event emission.
// Use this in services to standardize audit logging patterns.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger.
// textLogger is used for structured logging; emitter is optional for event persistence.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Log records event under action. It fills the category, the timestamp and
// the request enrichment (request ID, client ID, anonymized IP, platform
// class) from ctx when the caller left them empty. Emission failures are
// logged, never returned: auditing must not fail a decode.
func (l *Logger) Log(ctx context.Context, action AuditEvent, event Event) {
	if l == nil {
		return
	}
	event.Action = string(action)
	event.Category = action.Category()
	enrich(ctx, &event)

	l.logToText(ctx, event)
	l.emitToAudit(ctx, event)
}

func enrich(ctx context.Context, event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientID.IsNil() {
		event.ClientID = requestcontext.ClientID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = privacy.AnonymizeIP(requestcontext.ClientIP(ctx))
	}
	if event.Platform == "" {
		event.Platform = ClassifyPlatform(requestcontext.UserAgent(ctx))
	}
}

func (l *Logger) logToText(ctx context.Context, event Event) {
	if l.textLogger == nil {
		return
	}
	args := []any{
		"event", event.Action,
		"log_type", "audit",
		"category", string(event.Category),
		"request_id", event.RequestID,
		"client_ip", event.ClientIP,
		"platform", event.Platform,
		"timestamp", event.Timestamp.UTC().Format(time.RFC3339),
	}
	if !event.ClientID.IsNil() {
		args = append(args, "client_id", event.ClientID.String())
	}
	if event.DocumentID != "" {
		args = append(args, "document_id", event.DocumentID)
	}
	if event.DocumentRef != "" {
		args = append(args, "document_ref", event.DocumentRef)
	}
	if event.Format != "" {
		args = append(args, "format", event.Format)
	}
	if event.Reason != "" {
		args = append(args, "reason", event.Reason)
	}
	l.textLogger.InfoContext(ctx, event.Action, args...)
}

func (l *Logger) emitToAudit(ctx context.Context, event Event) {
	if l.emitter == nil {
		return
	}
	if err := l.emitter.Emit(ctx, event); err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", event.Action,
		)
	}
}
