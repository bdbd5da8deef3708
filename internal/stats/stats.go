package stats

import (
	"context"
	"time"
)

// RoundResult is what the engine hands to the scoreboard boundary once a
// round resolves. Room state itself is never persisted.
type RoundResult struct {
	RoomID  string
	Result  string // folded | showdown
	Winners []string
	EndedAt time.Time
}

type Recorder interface {
	RecordRound(ctx context.Context, r RoundResult) error
}

// Noop is the default recorder when no database is configured.
type Noop struct{}

func (Noop) RecordRound(context.Context, RoundResult) error { return nil }
