package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mrzgate/internal/evidence/document/models"
	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/platform/httputil"
	"mrzgate/pkg/requestcontext"
)

// Service defines the document operations used by the handlers.
type Service interface {
	Decode(ctx context.Context, text string) (*models.DocumentRecord, error)
	DecodeBatch(ctx context.Context, items []string) ([]models.BatchResult, error)
	Get(ctx context.Context, docID id.DocumentID) (*models.DocumentRecord, error)
	Formats() []models.FormatInfo
}

// Batch item statuses.
const (
	StatusDecoded  = "decoded"
	StatusRejected = "rejected"
	StatusFailed   = "failed"
)

// Handler serves the document endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
	decode  []func(http.Handler) http.Handler
	read    []func(http.Handler) http.Handler
}

// HandlerOption configures the Handler.
type HandlerOption func(*Handler)

// WithDecodeGuard runs mw in front of the decoding routes.
func WithDecodeGuard(mw ...func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		h.decode = append(h.decode, mw...)
	}
}

// WithReadGuard runs mw in front of the record lookup route.
func WithReadGuard(mw ...func(http.Handler) http.Handler) HandlerOption {
	return func(h *Handler) {
		h.read = append(h.read, mw...)
	}
}

func New(service Service, logger *slog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.With(h.decode...).Post("/documents/mrz", h.HandleDecode)
	r.With(h.decode...).Post("/documents/mrz/batch", h.HandleDecodeBatch)
	r.With(h.read...).Get("/documents/mrz/{id}", h.HandleGet)
	r.Get("/documents/formats", h.HandleFormats)
}

// BatchItemResponse is the outcome of one batch item. Failure members mirror
// the single decode error body.
type BatchItemResponse struct {
	Index            int                    `json:"index"`
	Status           string                 `json:"status"`
	Document         *models.DocumentRecord `json:"document,omitempty"`
	Error            string                 `json:"error,omitempty"`
	ErrorDescription string                 `json:"error_description,omitempty"`
	Format           string                 `json:"format,omitempty"`
	Field            string                 `json:"field,omitempty"`
}

// BatchResponse is the body of a batch decode answer.
type BatchResponse struct {
	Items    []BatchItemResponse `json:"items"`
	Decoded  int                 `json:"decoded"`
	Rejected int                 `json:"rejected"`
	Failed   int                 `json:"failed"`
}

// FormatsResponse lists the supported layouts.
type FormatsResponse struct {
	Formats []models.FormatInfo `json:"formats"`
}

// HandleDecode handles POST /documents/mrz.
func (h *Handler) HandleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[models.DecodeRequest](w, r, h.logger)
	if !ok {
		return
	}

	record, err := h.service.Decode(ctx, req.MRZ)
	if err != nil {
		h.logFailure(ctx, "document decode failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}

// HandleDecodeBatch handles POST /documents/mrz/batch. Item rejections are
// reported per item; the request itself succeeds.
func (h *Handler) HandleDecodeBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.DecodeAndPrepare[models.BatchRequest](w, r, h.logger)
	if !ok {
		return
	}

	results, err := h.service.DecodeBatch(ctx, req.Items)
	if err != nil {
		h.logFailure(ctx, "batch decode failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toBatchResponse(results))
}

func toBatchResponse(results []models.BatchResult) BatchResponse {
	resp := BatchResponse{Items: make([]BatchItemResponse, 0, len(results))}
	for i, res := range results {
		item := BatchItemResponse{Index: i}
		switch {
		case res.Err == nil:
			item.Status = StatusDecoded
			item.Document = res.Record
			resp.Decoded++
		default:
			_, body := httputil.NewErrorResponse(res.Err)
			item.Error = body.Error
			item.ErrorDescription = body.ErrorDescription
			item.Format = body.Format
			item.Field = body.Field
			if dErrors.CodeOf(res.Err).IsDocumentRejection() {
				item.Status = StatusRejected
				resp.Rejected++
			} else {
				item.Status = StatusFailed
				resp.Failed++
			}
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

// HandleGet handles GET /documents/mrz/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	record, err := h.service.Get(ctx, docID)
	if err != nil {
		h.logFailure(ctx, "document lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

// HandleFormats handles GET /documents/formats.
func (h *Handler) HandleFormats(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FormatsResponse{Formats: h.service.Formats()})
}

// logFailure logs infrastructure failures. Rejections and misses are
// expected outcomes and already recorded by the service.
func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
