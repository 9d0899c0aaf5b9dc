// internal/adapters/db/migrations_test.go
package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceVersions(t *testing.T) {
	t.Run("embedded_migrations", func(t *testing.T) {
		src, name, err := openSource(MigrationConfig{})
		require.NoError(t, err)
		defer src.Close()

		assert.Equal(t, "iofs", name)
		versions, err := sourceVersions(src)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2, 3}, versions)
	})

	t.Run("directory_override", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []string{"000010_a.up.sql", "000010_a.down.sql", "000012_b.up.sql", "000012_b.down.sql"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("SELECT 1;"), 0o600))
		}

		src, name, err := openSource(MigrationConfig{SourcePath: dir})
		require.NoError(t, err)
		defer src.Close()

		assert.Equal(t, "file", name)
		versions, err := sourceVersions(src)
		require.NoError(t, err)
		assert.Equal(t, []uint{10, 12}, versions)
	})

	t.Run("empty_directory", func(t *testing.T) {
		src, _, err := openSource(MigrationConfig{SourcePath: t.TempDir()})
		require.NoError(t, err)
		defer src.Close()

		versions, err := sourceVersions(src)
		require.NoError(t, err)
		assert.Empty(t, versions)
	})
}
