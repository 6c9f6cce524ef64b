// Package admin serves the operator endpoints over the audit trail.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mrzgate/internal/admin/types"
	id "mrzgate/pkg/domain"
	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/platform/audit"
	"mrzgate/pkg/platform/httputil"
	"mrzgate/pkg/requestcontext"
)

// AdminService is the handler's view of Service.
type AdminService interface {
	GetRecentAuditEvents(ctx context.Context, limit int) ([]audit.Event, error)
	GetClientAuditEvents(ctx context.Context, clientID id.ClientID) ([]audit.Event, error)
	GetStats(ctx context.Context) (*Stats, error)
}

// Handler handles admin monitoring endpoints.
type Handler struct {
	service AdminService
	logger  *slog.Logger
	guard   []func(http.Handler) http.Handler
}

// New creates an admin handler. Guard middleware runs before every route.
func New(service AdminService, logger *slog.Logger, guard ...func(http.Handler) http.Handler) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		guard:   guard,
	}
}

// Register registers admin routes with the router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard...)
		r.Get("/admin/stats", h.HandleGetStats)
		r.Get("/admin/audit/recent", h.HandleGetRecentAuditEvents)
		r.Get("/admin/audit/clients/{client_id}", h.HandleGetClientAuditEvents)
	})
}

func (h *Handler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.service.GetStats(ctx)
	if err != nil {
		h.logFailure(ctx, "failed to get stats", err)
		httputil.WriteError(w, err)
		return
	}

	resp := &types.StatsResponse{
		Window:     stats.Window,
		ByAction:   stats.ByAction,
		ByCategory: stats.ByCategory,
		Rejections: stats.Rejections,
		Timestamp:  stats.Timestamp,
	}
	if !stats.Since.IsZero() {
		resp.Since = &stats.Since
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetRecentAuditEvents returns recent audit events. limit defaults to
// DefaultLimit and is capped at MaxLimit.
func (h *Handler) HandleGetRecentAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	events, err := h.service.GetRecentAuditEvents(ctx, limit)
	if err != nil {
		h.logFailure(ctx, "failed to get recent audit events", err)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "admin audit events retrieved",
		"request_id", requestcontext.RequestID(ctx),
		"count", len(events),
	)
	httputil.WriteJSON(w, http.StatusOK, types.ToAuditEventsResponse(events))
}

func (h *Handler) HandleGetClientAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	clientID, err := id.ParseClientID(chi.URLParam(r, "client_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.service.GetClientAuditEvents(ctx, clientID)
	if err != nil {
		h.logFailure(ctx, "failed to get client audit events", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, types.ToAuditEventsResponse(events))
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
