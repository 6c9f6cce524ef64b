// Package auth authenticates API clients with bearer JWTs and requires
// scopes per route.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	id "mrzgate/pkg/domain"
	"mrzgate/pkg/platform/audit"
	"mrzgate/pkg/requestcontext"
)

// JWTValidator validates a raw bearer token.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the claims the middleware relies on.
type JWTClaims struct {
	ClientID string
	Scopes   []string
	JTI      string
}

// FailureRecorder counts rejected authentication attempts by reason.
type FailureRecorder interface {
	IncrementAuthFailures(reason string)
}

// Option configures RequireAuth.
type Option func(*options)

// AuditLogger records security events. Satisfied by *audit.Logger.
type AuditLogger interface {
	Log(ctx context.Context, action audit.AuditEvent, event audit.Event)
}

type options struct {
	recorder FailureRecorder
	auditor  AuditLogger
}

// WithFailureRecorder reports every rejection to rec.
func WithFailureRecorder(rec FailureRecorder) Option {
	return func(o *options) { o.recorder = rec }
}

// WithAuditLogger records every rejection as an auth_failed audit event.
func WithAuditLogger(a AuditLogger) Option {
	return func(o *options) { o.auditor = a }
}

// Rejection reasons passed to FailureRecorder.
const (
	ReasonMissingToken    = "missing_token"
	ReasonInvalidToken    = "invalid_token"
	ReasonInvalidClientID = "invalid_client_id"
)

type scopesKey struct{}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and stores the client ID and its
// scopes on the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	reject := func(ctx context.Context, reason string) {
		if o.recorder != nil {
			o.recorder.IncrementAuthFailures(reason)
		}
		if o.auditor != nil {
			o.auditor.Log(ctx, audit.EventAuthFailed, audit.Event{Reason: reason})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				reject(ctx, ReasonMissingToken)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				reject(ctx, ReasonInvalidToken)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			clientID, err := id.ParseClientID(claims.ClientID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed client_id claim",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				reject(ctx, ReasonInvalidClientID)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithClientID(ctx, clientID)
			ctx = withScopes(ctx, claims.Scopes)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireScope rejects authenticated requests whose token lacks scope. It
// must run after RequireAuth.
func RequireScope(scope string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			scopes, _ := ctx.Value(scopesKey{}).([]string)
			if !slices.Contains(scopes, scope) {
				logger.WarnContext(ctx, "forbidden - missing scope",
					"scope", scope,
					"client_id", requestcontext.ClientID(ctx).String(),
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Token lacks the required scope")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
