package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/requestcontext"
)

// DecodeJSON reads exactly one JSON object from the request body. Unknown
// fields, an empty body and trailing data are bad requests; a body cut by
// the body limit middleware is answered with 413. On failure the response
// is written and ok is false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(&req)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err == nil {
		return &req, true
	}

	ctx := r.Context()
	logger.WarnContext(ctx, "failed to decode request body",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)

	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		WriteJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:            "request_too_large",
			ErrorDescription: "request body exceeds the size limit",
		})
	case errors.Is(err, io.EOF):
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is empty"))
	default:
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
	}
	return nil, false
}

var errTrailingData = errors.New("unexpected data after JSON object")

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// Sanitizable is implemented by request types that support sanitization.
type Sanitizable interface {
	Sanitize()
}

// PrepareRequest runs Sanitize, Normalize and Validate, in that order, for
// whichever of them req implements. Plain validation errors are wrapped as
// CodeValidation; domain errors keep their code.
func PrepareRequest(req any) error {
	if s, ok := req.(Sanitizable); ok {
		s.Sanitize()
	}
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	v, ok := req.(Validatable)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.New(dErrors.CodeValidation, err.Error())
}

// DecodeAndPrepare combines JSON decoding with request preparation.
//
//	req, ok := httputil.DecodeAndPrepare[models.DecodeRequest](w, r, h.logger)
//	if !ok {
//	    return
//	}
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger)
	if !ok {
		return nil, false
	}
	if err := PrepareRequest(req); err != nil {
		ctx := r.Context()
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
