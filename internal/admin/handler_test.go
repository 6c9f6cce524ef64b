package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrzgate/internal/admin/types"
	id "mrzgate/pkg/domain"
	"mrzgate/pkg/platform/audit"
	auditmemory "mrzgate/pkg/platform/audit/store/memory"
)

func newTestRouter(t *testing.T, guard ...func(http.Handler) http.Handler) (http.Handler, id.ClientID) {
	t.Helper()
	store := auditmemory.NewInMemoryStore()
	client := id.ClientID(uuid.New())
	ts := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(context.Background(), audit.Event{
		Action:      string(audit.EventDocumentDecoded),
		Category:    audit.CategoryCompliance,
		ClientID:    client,
		DocumentRef: "ref-1",
		Timestamp:   ts,
	}))
	require.NoError(t, store.Append(context.Background(), audit.Event{
		Action:    string(audit.EventDocumentRejected),
		Category:  audit.CategorySecurity,
		Reason:    "checksum_mismatch",
		Timestamp: ts.Add(time.Minute),
	}))

	r := chi.NewRouter()
	New(NewService(store), slog.New(slog.DiscardHandler), guard...).Register(r)
	return r, client
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandleGetRecentAuditEvents(t *testing.T) {
	h, client := newTestRouter(t)

	t.Run("newest first", func(t *testing.T) {
		rec := get(h, "/admin/audit/recent")
		require.Equal(t, http.StatusOK, rec.Code)

		var body types.AuditEventsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, 2, body.Total)
		assert.Equal(t, "document_rejected", body.Events[0].Action)
		assert.Empty(t, body.Events[0].ClientID)
		assert.Equal(t, client.String(), body.Events[1].ClientID)
		assert.Equal(t, "ref-1", body.Events[1].DocumentRef)
	})

	t.Run("limit", func(t *testing.T) {
		rec := get(h, "/admin/audit/recent?limit=1")
		require.Equal(t, http.StatusOK, rec.Code)

		var body types.AuditEventsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 1, body.Total)
	})

	t.Run("bad limit", func(t *testing.T) {
		for _, q := range []string{"abc", "0", "-1"} {
			rec := get(h, "/admin/audit/recent?limit="+q)
			assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		}
	})
}

func TestHandleGetClientAuditEvents(t *testing.T) {
	h, client := newTestRouter(t)

	rec := get(h, "/admin/audit/clients/"+client.String())
	require.Equal(t, http.StatusOK, rec.Code)
	var body types.AuditEventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)

	rec = get(h, "/admin/audit/clients/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetStats(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := get(h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body types.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Window)
	assert.Equal(t, 1, body.Rejections["checksum_mismatch"])
	require.NotNil(t, body.Since)
	assert.Equal(t, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC), body.Since.UTC())
}

func TestGuardRunsBeforeRoutes(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}
	h, _ := newTestRouter(t, deny)

	for _, path := range []string{"/admin/stats", "/admin/audit/recent"} {
		assert.Equal(t, http.StatusForbidden, get(h, path).Code, path)
	}
}
