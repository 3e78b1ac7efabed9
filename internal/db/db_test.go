package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gordonShanwey/automate-interior-ai-service/internal/config"
	"github.com/gordonShanwey/automate-interior-ai-service/internal/models"
)

func TestDialectorSelection(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(config.DatabaseConfig{Driver: driver, Path: "x.db"})
		require.NoError(t, err)
		assert.Equal(t, driver, d.Name())
	}

	_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitSqliteMigrates(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "ledger.db")}

	conn, err := Init(cfg)
	require.NoError(t, err)

	assert.True(t, conn.Migrator().HasTable(&models.ProcessingRecord{}))
	assert.True(t, conn.Migrator().HasTable(&models.AttemptLog{}))
}
