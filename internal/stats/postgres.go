package stats

import (
	"context"
	"database/sql"
	"strings"
)

type Postgres struct {
	db *sql.DB
}

var _ Recorder = (*Postgres)(nil)

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS round_results (
			id       SERIAL PRIMARY KEY,
			room_id  TEXT        NOT NULL,
			result   TEXT        NOT NULL,
			winners  TEXT        NOT NULL,
			ended_at TIMESTAMPTZ NOT NULL
		)`)
	return err
}

func (p *Postgres) RecordRound(ctx context.Context, r RoundResult) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO round_results (room_id, result, winners, ended_at) VALUES ($1, $2, $3, $4)`,
		r.RoomID, r.Result, strings.Join(r.Winners, ","), r.EndedAt)
	return err
}
