// internal/store/store.go
//
// Archive of finished games.
// The bot records every finished game best-effort; the HTTP surface reads
// leaderboards and recent games back. The live session itself is never
// stored here.

package store

import (
	"context"
	"time"
)

// Game is one finished game.
type Game struct {
	ThreadID   uint64    `json:"threadId"`
	Date       string    `json:"date"` // YYYY-MM-DD (UTC) the game started
	Answer     string    `json:"answer"`
	Outcome    string    `json:"outcome"` // "won" | "lost"
	Tries      int       `json:"tries"`
	Winner     string    `json:"winner,omitempty"`
	WinnerPost uint64    `json:"winnerPost,omitempty"`
	FinishedAt time.Time `json:"finishedAt"`
}

// LeaderRow is one player's standing in a thread.
type LeaderRow struct {
	Player   string  `json:"player"`
	Wins     int     `json:"wins"`
	AvgTries float64 `json:"avgTries"`
}

// Store defines the persistence interface for finished games.
// Implementations may be backed by memory (memory.go) or SQLite (sqlite.go).
type Store interface {
	// Record persists a finished game.
	Record(ctx context.Context, g Game) error

	// Leaderboard ranks winners of a thread: most wins first, then fewer
	// average tries, then name.
	Leaderboard(ctx context.Context, threadID uint64, limit int) ([]LeaderRow, error)

	// Recent returns the latest finished games of a thread, newest first.
	Recent(ctx context.Context, threadID uint64, limit int) ([]Game, error)

	Close() error
}

// defaultLimit applies when callers pass limit <= 0.
const defaultLimit = 20
