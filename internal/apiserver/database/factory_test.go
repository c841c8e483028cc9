package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scentory/scentory/internal/common/config"
)

func TestNewDatabase_Unsupported(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Type: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewDatabase_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scentory.db")
	db, err := NewDatabase(&config.DatabaseConfig{Type: "sqlite", DBName: path}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, db.Close())
	assert.FileExists(t, path)
}

func TestDialectorFor(t *testing.T) {
	for typ, name := range map[string]string{"postgres": "postgres", "mysql": "mysql", "sqlite": "sqlite"} {
		d, err := dialectorFor(&config.DatabaseConfig{Type: typ, DBName: ":memory:"})
		require.NoError(t, err, typ)
		assert.Equal(t, name, d.Name())
	}
}
