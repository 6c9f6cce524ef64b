package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/mrz"
)

// ErrorResponse is the body of every error answer. Format and Field are set
// when an MRZ was rejected.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	Format           string `json:"format,omitempty"`
	Field            string `json:"field,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates a domain error into an HTTP answer. Anything that is
// not a domain error is reported as an opaque internal error.
func WriteError(w http.ResponseWriter, err error) {
	status, resp := NewErrorResponse(err)
	WriteJSON(w, status, resp)
}

// NewErrorResponse builds the status and body WriteError would send. Batch
// endpoints use it to report per-item failures inside a 200 answer.
func NewErrorResponse(err error) (int, ErrorResponse) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, ErrorResponse{Error: DomainCodeToHTTPCode(dErrors.CodeInternal)}
	}

	resp := ErrorResponse{
		Error:            DomainCodeToHTTPCode(domainErr.Code),
		ErrorDescription: domainErr.Message,
	}
	if domainErr.Code == dErrors.CodeInternal {
		resp.ErrorDescription = ""
	}
	var mrzErr *mrz.Error
	if errors.As(err, &mrzErr) {
		if mrzErr.Format != mrz.FormatUnknown {
			resp.Format = mrzErr.Format.String()
		}
		resp.Field = mrzErr.Field
	}
	return DomainCodeToHTTPStatus(domainErr.Code), resp
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeUnrecognizedFormat, dErrors.CodeMalformedDocument,
		dErrors.CodeMissingBirthDate, dErrors.CodeChecksumMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the "error" member
// of the JSON body.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation:
		return "validation_error"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodeTimeout:
		return "timeout"
	case dErrors.CodeUnrecognizedFormat, dErrors.CodeMalformedDocument,
		dErrors.CodeMissingBirthDate, dErrors.CodeChecksumMismatch:
		return string(code)
	default:
		return "internal_error"
	}
}
