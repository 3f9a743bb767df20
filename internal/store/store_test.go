package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{"memory": NewMemoryStore(), "sqlite": sq}
}

func seed(t *testing.T, s Store) {
	t.Helper()
	base := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	games := []Game{
		{ThreadID: 1, Date: "2026-10-15", Answer: "crane", Outcome: "won", Tries: 4, Winner: "alice", WinnerPost: 11},
		{ThreadID: 1, Date: "2026-10-15", Answer: "slate", Outcome: "won", Tries: 2, Winner: "bob", WinnerPost: 12},
		{ThreadID: 1, Date: "2026-10-15", Answer: "pride", Outcome: "lost", Tries: 6},
		{ThreadID: 1, Date: "2026-10-15", Answer: "plant", Outcome: "won", Tries: 3, Winner: "alice", WinnerPost: 13},
		{ThreadID: 2, Date: "2026-10-15", Answer: "fling", Outcome: "won", Tries: 1, Winner: "carol", WinnerPost: 14},
	}
	for i, g := range games {
		g.FinishedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Record(context.Background(), g))
	}
}

func TestLeaderboard(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			rows, err := s.Leaderboard(context.Background(), 1, 10)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, LeaderRow{Player: "alice", Wins: 2, AvgTries: 3.5}, rows[0])
			assert.Equal(t, LeaderRow{Player: "bob", Wins: 1, AvgTries: 2}, rows[1])

			rows, err = s.Leaderboard(context.Background(), 1, 1)
			require.NoError(t, err)
			assert.Len(t, rows, 1)

			rows, err = s.Leaderboard(context.Background(), 99, 0)
			require.NoError(t, err)
			assert.Empty(t, rows)
		})
	}
}

func TestRecent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			games, err := s.Recent(context.Background(), 1, 2)
			require.NoError(t, err)
			require.Len(t, games, 2)
			assert.Equal(t, "plant", games[0].Answer)
			assert.Equal(t, "pride", games[1].Answer)
			assert.Empty(t, games[1].Winner)
			assert.Equal(t, uint64(13), games[0].WinnerPost)
			assert.Equal(t, time.Date(2026, 10, 15, 8, 3, 0, 0, time.UTC), games[0].FinishedAt.UTC())
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Game{ThreadID: 1, Date: "d", Answer: "crane", Outcome: "lost", Tries: 6, FinishedAt: time.Now()}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	games, err := s.Recent(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}
