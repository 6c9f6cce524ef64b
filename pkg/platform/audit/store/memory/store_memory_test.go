package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "mrzgate/pkg/domain"
	audit "mrzgate/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	a, b := id.ClientID(uuid.New()), id.ClientID(uuid.New())

	for i, client := range []id.ClientID{a, b, a} {
		require.NoError(t, store.Append(ctx, audit.Event{ClientID: client, DocumentID: string(rune('1' + i))}))
	}

	byA, err := store.ListByClient(ctx, a)
	require.NoError(t, err)
	require.Len(t, byA, 2)
	assert.Equal(t, "1", byA[0].DocumentID)
	assert.Equal(t, "3", byA[1].DocumentID)

	recent, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "3", recent[0].DocumentID)
	assert.Equal(t, "2", recent[1].DocumentID)

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	store.Clear()
	all, err = store.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, all)
}
