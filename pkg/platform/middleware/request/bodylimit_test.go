package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	var readErr error
	handler := BodyLimit(64)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("body under the limit is readable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/mrz", strings.NewReader(`{"mrz":"x"}`))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		assert.NoError(t, readErr)
	})

	t.Run("body over the limit fails to read", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/mrz", strings.NewReader(strings.Repeat("<", 65)))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, readErr, &maxErr)
	})
}
