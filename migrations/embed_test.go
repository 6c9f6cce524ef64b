package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpFiles(t *testing.T) {
	files, err := UpFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_documents.up.sql",
		"000002_create_audit_events.up.sql",
	}, files)
}

func TestEveryUpHasADown(t *testing.T) {
	files, err := UpFiles()
	require.NoError(t, err)
	for _, up := range files {
		down := up[:len(up)-len(".up.sql")] + ".down.sql"
		_, err := fs.Stat(FS, down)
		assert.NoError(t, err, down)
	}
}
