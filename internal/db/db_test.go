package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoWebAPP/GoWebAPP/internal/config"
	"github.com/GoWebAPP/GoWebAPP/internal/db/models"
)

func TestOpenSQLiteMemory(t *testing.T) {
	cfg := &config.Config{DB: config.DB{GormEngine: config.EngineSQLite, Path: ":memory:"}}

	db, err := Open(cfg)
	require.NoError(t, err)

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}

	assert.True(t, db.Migrator().HasTable("analytics_events"))
	assert.True(t, db.Migrator().HasTable("post_categories"))
}

func TestOpenNilConfig(t *testing.T) {
	_, err := Open(nil)
	require.ErrorIs(t, err, ErrConfigNil)
}

func TestDialectorName(t *testing.T) {
	testCases := []struct {
		engine string
		name   string
	}{
		{engine: config.EngineSQLite, name: "sqlite"},
		{engine: config.EngineMySQL, name: "mysql"},
		{engine: config.EnginePostgres, name: "postgres"},
	}

	for _, tc := range testCases {
		t.Run(tc.engine, func(t *testing.T) {
			cfg := &config.Config{DB: config.DB{GormEngine: tc.engine}}
			assert.Equal(t, tc.name, Dialector(cfg).Name())
		})
	}
}
