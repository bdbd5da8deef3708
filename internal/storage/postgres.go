package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// NewPostgres opens the database backing the round-result recorder and
// verifies the connection before handing it out.
func NewPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}
