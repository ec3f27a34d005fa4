package store

import (
	"path/filepath"
	"testing"

	"github.com/haltia/conveyor/internal/settings"
	"github.com/stretchr/testify/assert"

	_ "modernc.org/sqlite"
)

func TestStore_InitDatabase(t *testing.T) {
	t.Run("write pool applies pragmas and single connection", func(t *testing.T) {
		// arrange
		settings.Settings = &settings.AppSettings{
			SQLiteDatabase: "file:" + filepath.Join(t.TempDir(), "db.sqlite"),
		}

		// act
		db := InitDatabase(false)
		defer db.Close()

		// assert
		var foreignKeys int
		err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
		assert.NoError(t, err)
		assert.Equal(t, 1, foreignKeys)

		var busyTimeout int
		err = db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout)
		assert.NoError(t, err)
		assert.Equal(t, 5000, busyTimeout)

		assert.Equal(t, 1, db.Stats().MaxOpenConnections)
	})
}
