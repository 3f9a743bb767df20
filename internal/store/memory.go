// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when no DB_PATH is configured and in tests.
//
// Characteristics:
//   - Keeps finished games in insertion order.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// memory is an in-memory slice-based Store implementation.
type memory struct {
	mu    sync.RWMutex // guards games
	games []Game
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{}
}

// Record appends the game.
func (m *memory) Record(ctx context.Context, g Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = append(m.games, g)
	return nil
}

// Leaderboard aggregates wins per player.
func (m *memory) Leaderboard(ctx context.Context, threadID uint64, limit int) ([]LeaderRow, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	type agg struct{ wins, tries int }
	byPlayer := map[string]*agg{}
	for _, g := range m.games {
		if g.ThreadID != threadID || g.Outcome != "won" || g.Winner == "" {
			continue
		}
		a := byPlayer[g.Winner]
		if a == nil {
			a = &agg{}
			byPlayer[g.Winner] = a
		}
		a.wins++
		a.tries += g.Tries
	}

	out := make([]LeaderRow, 0, len(byPlayer))
	for p, a := range byPlayer {
		out = append(out, LeaderRow{Player: p, Wins: a.wins, AvgTries: float64(a.tries) / float64(a.wins)})
	}
	slices.SortFunc(out, func(a, b LeaderRow) int {
		if c := cmp.Compare(b.Wins, a.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(a.AvgTries, b.AvgTries); c != 0 {
			return c
		}
		return cmp.Compare(a.Player, b.Player)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Recent returns the newest games first.
func (m *memory) Recent(ctx context.Context, threadID uint64, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Game, 0, limit)
	for i := len(m.games) - 1; i >= 0 && len(out) < limit; i-- {
		if m.games[i].ThreadID == threadID {
			out = append(out, m.games[i])
		}
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
