package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsHaveUpAndDown(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.Len(t, files, 5)

	for _, name := range files {
		raw, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		body := string(raw)
		assert.True(t, strings.Contains(body, "-- +goose Up"), name)
		assert.True(t, strings.Contains(body, "-- +goose Down"), name)
	}
}
