// Package httptransport assembles the public HTTP surface: middleware chain,
// health and metrics endpoints, and the document routes.
package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mrzgate/internal/admin"
	"mrzgate/internal/evidence/document/handler"
	jwttoken "mrzgate/internal/jwt_token"
	"mrzgate/internal/platform/health"
	"mrzgate/pkg/platform/middleware/auth"
	"mrzgate/pkg/platform/middleware/metadata"
	"mrzgate/pkg/platform/middleware/request"
)

// Deps are the collaborators of the router. Documents and Logger are
// required; a nil TokenValidator leaves the document routes open. Admin
// routes are mounted only behind token auth.
type Deps struct {
	Logger         *slog.Logger
	Documents      handler.Service
	Admin          admin.AdminService
	Health         *health.Handler
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *request.Metrics
	TokenValidator auth.JWTValidator
	AuthOptions    []auth.Option
	TrustedProxies []netip.Prefix
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(metadata.NewMiddleware(d.TrustedProxies).Handler)
	r.Use(request.Recovery(d.Logger))
	r.Use(request.Logger(d.Logger))
	r.Use(request.Latency(d.HTTPMetrics))

	if d.Health != nil {
		d.Health.Register(r)
	}
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = request.DefaultMaxBodyBytes
	}

	r.Group(func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(request.Timeout(d.RequestTimeout))
		}
		r.Use(request.BodyLimit(maxBody))
		r.Use(request.ContentTypeJSON)

		var opts []handler.HandlerOption
		if d.TokenValidator != nil {
			r.Use(auth.RequireAuth(d.TokenValidator, d.Logger, d.AuthOptions...))
			opts = append(opts,
				handler.WithDecodeGuard(auth.RequireScope(jwttoken.ScopeDecode, d.Logger)),
				handler.WithReadGuard(auth.RequireScope(jwttoken.ScopeRead, d.Logger)),
			)
		}
		handler.New(d.Documents, d.Logger, opts...).Register(r)

		if d.Admin != nil && d.TokenValidator != nil {
			admin.New(d.Admin, d.Logger, auth.RequireScope(jwttoken.ScopeAdmin, d.Logger)).Register(r)
		}
	})

	return r
}
