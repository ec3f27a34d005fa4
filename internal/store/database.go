package store

import (
	"database/sql"
	"log"
	"runtime"

	"github.com/haltia/conveyor/internal/settings"
)

// InitDatabase opens one of the two sqlite pools. The read-only pool serves
// the API handlers; the read-write pool is held to a single connection so
// run-output appends from the queue workers and API writes serialize instead
// of hitting SQLITE_BUSY.
func InitDatabase(readonly bool) *sql.DB {
	db, err := sql.Open("sqlite", settings.Settings.SQLiteDbString(readonly))
	if err != nil {
		log.Fatal("fatal error opening sqlite database:", err)
	}

	if readonly {
		db.SetMaxOpenConns(max(4, runtime.NumCPU()))
		return db
	}

	for _, pragma := range []string{
		"PRAGMA temp_store=memory",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			log.Fatal(err)
		}
	}
	db.SetMaxOpenConns(1)

	return db
}
