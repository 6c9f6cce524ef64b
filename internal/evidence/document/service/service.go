// Package service decodes MRZ text into stored verification records.
//
// A decode runs the MRZ engine at a reference date, builds the Verification
// aggregate, minimizes it in regulated mode, persists the record and audits
// the outcome. Engine failures are translated into domain error codes here
// and nowhere else.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"mrzgate/internal/evidence/document/domain"
	"mrzgate/internal/evidence/document/metrics"
	"mrzgate/internal/evidence/document/models"
	"mrzgate/internal/evidence/document/store"
	"mrzgate/internal/evidence/document/tracer"
	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/mrz"
	"mrzgate/pkg/platform/audit"
	"mrzgate/pkg/platform/privacy"
	"mrzgate/pkg/requestcontext"
)

const (
	defaultRetention   = 15 * time.Minute
	defaultConcurrency = 4
)

// Store persists decoded records.
type Store interface {
	Save(ctx context.Context, record *models.DocumentRecord) error
	FindByID(ctx context.Context, docID id.DocumentID, now time.Time) (*models.DocumentRecord, error)
}

// AuditLogger records audit events. Satisfied by *audit.Logger.
type AuditLogger interface {
	Log(ctx context.Context, action audit.AuditEvent, event audit.Event)
}

// Service coordinates decoding, persistence and auditing.
type Service struct {
	store         Store
	regulated     bool
	retention     time.Duration
	referenceDate time.Time
	concurrency   int
	logger        *slog.Logger
	auditor       AuditLogger
	tracer        tracer.Tracer
	metrics       *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditLogger(auditor AuditLogger) Option {
	return func(s *Service) {
		s.auditor = auditor
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithRetention bounds how long a decoded record can be read back.
func WithRetention(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithReferenceDate pins the date two-digit years, age and expiry are
// resolved against. Without it the request time is used.
func WithReferenceDate(t time.Time) Option {
	return func(s *Service) {
		s.referenceDate = t
	}
}

// WithBatchConcurrency limits how many batch items decode at once.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a document service. In regulated mode holder data is dropped
// before anything is stored or returned.
func New(store Store, regulated bool, opts ...Option) *Service {
	s := &Service{
		store:       store,
		regulated:   regulated,
		retention:   defaultRetention,
		concurrency: defaultConcurrency,
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Decode parses text, stores the resulting record and returns it.
func (s *Service) Decode(ctx context.Context, text string) (*models.DocumentRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDecode,
		tracer.Bool(tracer.AttrRegulatedMode, s.regulated),
	)
	started := time.Now()

	record, doc, err := s.decode(ctx, text)
	if err != nil {
		s.recordRejection(ctx, span, err, started)
		span.End(err)
		return nil, err
	}

	ref := privacy.HashDocumentNumber(doc.IssuingState(), doc.DocumentNumber())
	span.SetAttributes(
		tracer.String(tracer.AttrFormat, record.Format),
		tracer.String(tracer.AttrDocumentID, record.ID),
		tracer.String(tracer.AttrDocumentRef, ref),
	)
	if s.metrics != nil {
		s.metrics.RecordDecoded(record.Format, time.Since(started))
	}
	s.auditEvent(ctx, span, audit.EventDocumentDecoded, audit.Event{
		DocumentID:  record.ID,
		DocumentRef: ref,
		Format:      record.Format,
	})
	s.logger.InfoContext(ctx, "document decoded",
		"request_id", requestcontext.RequestID(ctx),
		"document_id", record.ID,
		"format", record.Format,
		"document_number", privacy.RedactDocumentNumber(doc.DocumentNumber()),
		"minimized", record.Minimized,
	)
	span.End(nil)
	return record, nil
}

func (s *Service) decode(ctx context.Context, text string) (*models.DocumentRecord, *mrz.Document, error) {
	checkedAt := requestcontext.Now(ctx)
	refDate := s.referenceFor(checkedAt)

	doc, err := mrz.Parse(text, refDate)
	if err != nil {
		return nil, nil, translateParseError(err)
	}

	v, err := domain.NewVerification(id.NewDocumentID(), requestcontext.ClientID(ctx), doc, refDate, checkedAt)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build verification")
	}
	if s.regulated {
		v = v.Minimized()
	}

	record := models.NewDocumentRecord(v, checkedAt.Add(s.retention))
	if err := s.save(ctx, record); err != nil {
		return nil, nil, err
	}
	return record, doc, nil
}

func (s *Service) save(ctx context.Context, record *models.DocumentRecord) error {
	ctx, span := s.tracer.Start(ctx, tracer.SpanStoreSave,
		tracer.String(tracer.AttrDocumentID, record.ID),
	)
	err := s.store.Save(ctx, record)
	span.End(err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save document",
			"request_id", requestcontext.RequestID(ctx),
			"document_id", record.ID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save document")
	}
	return nil
}

// referenceFor returns the pinned reference date, or the calendar date of
// checkedAt in UTC.
func (s *Service) referenceFor(checkedAt time.Time) time.Time {
	if !s.referenceDate.IsZero() {
		return s.referenceDate
	}
	y, m, d := checkedAt.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) recordRejection(ctx context.Context, span tracer.Span, err error, started time.Time) {
	code := dErrors.CodeOf(err)
	if !code.IsDocumentRejection() {
		return
	}
	format, field := "unknown", ""
	var mErr *mrz.Error
	if errors.As(err, &mErr) {
		field = mErr.Field
		if mErr.Format != mrz.FormatUnknown {
			format = mErr.Format.String()
		}
	}
	span.SetAttributes(
		tracer.String(tracer.AttrRejectReason, string(code)),
		tracer.String(tracer.AttrFormat, format),
		tracer.String(tracer.AttrRejectField, field),
	)
	if s.metrics != nil {
		s.metrics.RecordRejected(string(code), format, time.Since(started))
	}
	event := audit.Event{Reason: string(code)}
	if format != "unknown" {
		event.Format = format
	}
	s.auditEvent(ctx, span, audit.EventDocumentRejected, event)
	s.logger.InfoContext(ctx, "document rejected",
		"request_id", requestcontext.RequestID(ctx),
		"reason", string(code),
		"format", format,
		"field", field,
	)
}

func (s *Service) auditEvent(ctx context.Context, span tracer.Span, action audit.AuditEvent, event audit.Event) {
	if s.auditor == nil {
		return
	}
	s.auditor.Log(ctx, action, event)
	span.AddEvent(tracer.EventAuditEmitted, tracer.String("action", string(action)))
}

// translateParseError maps engine failures onto domain codes. The engine
// error stays in the chain so transports can report format and field.
func translateParseError(err error) error {
	var mErr *mrz.Error
	if !errors.As(err, &mErr) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to decode document")
	}
	var code dErrors.Code
	switch {
	case errors.Is(err, mrz.ErrUnknownFormat):
		code = dErrors.CodeUnrecognizedFormat
	case errors.Is(err, mrz.ErrInvalidFormat):
		code = dErrors.CodeMalformedDocument
	case errors.Is(err, mrz.ErrMissingBirthDate):
		code = dErrors.CodeMissingBirthDate
	case errors.Is(err, mrz.ErrCheckDigit):
		code = dErrors.CodeChecksumMismatch
	default:
		code = dErrors.CodeInternal
	}
	return dErrors.Wrap(err, code, mErr.Error())
}

// DecodeBatch decodes every item independently, at most the configured
// number at a time. Results keep the request order; a rejected item does not
// affect the others.
func (s *Service) DecodeBatch(ctx context.Context, items []string) ([]models.BatchResult, error) {
	if len(items) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "items is required")
	}
	ctx, span := s.tracer.Start(ctx, tracer.SpanDecodeBatch,
		tracer.Int(tracer.AttrBatchSize, len(items)),
		tracer.Bool(tracer.AttrRegulatedMode, s.regulated),
	)
	if s.metrics != nil {
		s.metrics.ObserveBatchSize(len(items))
	}

	results := make([]models.BatchResult, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, text := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = models.BatchResult{Err: dErrors.Wrap(err, dErrors.CodeTimeout, "batch cancelled")}
				return nil
			}
			record, err := s.Decode(gctx, text)
			results[i] = models.BatchResult{Record: record, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		err = dErrors.Wrap(err, dErrors.CodeTimeout, "batch decode cancelled")
		span.End(err)
		return nil, err
	}

	rejected := 0
	for _, r := range results {
		if r.Err != nil {
			rejected++
		}
	}
	span.SetAttributes(tracer.Int(tracer.AttrBatchRejected, rejected))
	span.End(nil)
	return results, nil
}

// Get returns a stored record. Records owned by another client are reported
// as missing.
func (s *Service) Get(ctx context.Context, docID id.DocumentID) (*models.DocumentRecord, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLookup,
		tracer.String(tracer.AttrDocumentID, docID.String()),
	)

	record, err := s.store.FindByID(ctx, docID, requestcontext.Now(ctx))
	if err == nil && !ownedBy(record, requestcontext.ClientID(ctx)) {
		record, err = nil, store.ErrNotFound
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			if s.metrics != nil {
				s.metrics.RecordLookup(false)
			}
			err = dErrors.New(dErrors.CodeNotFound, "document not found")
			span.End(nil)
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to load document",
			"request_id", requestcontext.RequestID(ctx),
			"document_id", docID.String(),
			"error", err,
		)
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to load document")
		span.End(err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordLookup(true)
	}
	s.auditEvent(ctx, span, audit.EventDocumentViewed, audit.Event{
		DocumentID: record.ID,
		Format:     record.Format,
	})
	span.End(nil)
	return record, nil
}

// ownedBy reports whether caller may read record. Anonymous records are
// readable by anyone; client-bound ones only by their client.
func ownedBy(record *models.DocumentRecord, caller id.ClientID) bool {
	return record.ClientID.IsNil() || record.ClientID == caller
}

// Formats lists the supported layouts.
func (s *Service) Formats() []models.FormatInfo {
	formats := mrz.Formats()
	out := make([]models.FormatInfo, 0, len(formats))
	for _, f := range formats {
		out = append(out, models.FormatInfo{
			Name:       f.String(),
			Lines:      f.Lines(),
			LineWidths: f.LineWidths(),
		})
	}
	return out
}
