package postgres

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securematch/securematch/infrastructure/service/logger"
)

func TestParseMigrationName(t *testing.T) {
	tests := []struct {
		filename  string
		version   int
		name      string
		direction string
		wantErr   bool
	}{
		{"001_create_auditors.up.sql", 1, "create_auditors", "up", false},
		{"002_create_search_audit_records.down.sql", 2, "create_search_audit_records", "down", false},
		{"010_seed.sql", 10, "seed", "up", false},
		{"README.md", 0, "", "", true},
		{"abc_create.up.sql", 0, "", "", true},
		{"000_zero.up.sql", 0, "", "", true},
		{"003_.up.sql", 0, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, direction, err := ParseMigrationName(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMigrationName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.version, version)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.direction, direction)
		})
	}
}

func TestMigrator_Load(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"002_b.up.sql", "002_b.down.sql", "001_a.up.sql", "001_a.down.sql", "notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.up.sql"), 0o700))

	files, err := NewMigrator(nil, dir, logger.NewDiscardLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, 1, files[0].Version)
	assert.Equal(t, 1, files[1].Version)
	assert.Equal(t, 2, files[3].Version)
}

func TestMigrator_RepositoryMigrationsParse(t *testing.T) {
	files, err := NewMigrator(nil, filepath.Join("..", "..", "..", "migrations"), logger.NewDiscardLogger()).Load(context.Background())
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, f := range files {
		if f.Direction == "up" {
			ups++
		} else {
			downs++
		}
	}
	assert.Equal(t, ups, downs, "every up migration needs a down migration")
	assert.GreaterOrEqual(t, ups, 3)
}
