package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "mrzgate/pkg/domain-errors"
	"mrzgate/pkg/mrz"
)

func TestWriteError(t *testing.T) {
	t.Run("checksum rejection carries format and field", func(t *testing.T) {
		cause := &mrz.Error{Kind: mrz.ErrCheckDigit, Format: mrz.FormatTD3, Field: "document number"}
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(cause, dErrors.CodeChecksumMismatch, cause.Error()))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeBody(t, w)
		assert.Equal(t, "checksum_mismatch", resp.Error)
		assert.Equal(t, "Invalid document number check digit in TD3 document", resp.ErrorDescription)
		assert.Equal(t, "TD3", resp.Format)
		assert.Equal(t, "document number", resp.Field)
	})

	t.Run("unknown format has no format member", func(t *testing.T) {
		cause := &mrz.Error{Kind: mrz.ErrUnknownFormat}
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(cause, dErrors.CodeUnrecognizedFormat, cause.Error()))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"error":"unrecognized_format","error_description":"Unknown document format"}`, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, fmt.Errorf("lookup: %w", dErrors.New(dErrors.CodeNotFound, "document not found")))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeBody(t, w).Error)
	})

	t.Run("internal errors hide their message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("dial tcp: refused"), dErrors.CodeInternal, "store unavailable"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
	})

	t.Run("plain errors are internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
	})
}

func TestDomainCodeToHTTPStatus(t *testing.T) {
	tests := map[dErrors.Code]int{
		dErrors.CodeUnrecognizedFormat: http.StatusUnprocessableEntity,
		dErrors.CodeMalformedDocument:  http.StatusUnprocessableEntity,
		dErrors.CodeMissingBirthDate:   http.StatusUnprocessableEntity,
		dErrors.CodeChecksumMismatch:   http.StatusUnprocessableEntity,
		dErrors.CodeValidation:         http.StatusBadRequest,
		dErrors.CodeUnauthorized:       http.StatusUnauthorized,
		dErrors.CodeForbidden:          http.StatusForbidden,
		dErrors.CodeTimeout:            http.StatusGatewayTimeout,
		dErrors.Code("unheard_of"):     http.StatusInternalServerError,
	}
	for code, status := range tests {
		assert.Equal(t, status, DomainCodeToHTTPStatus(code), string(code))
	}
}
