// internal/httpserver/routes_archive.go
//
// HTTP routes for finished games:
//   - GET /leaderboard?limit=n   → players by wins, then fewest average tries
//   - GET /games/recent?limit=n  → latest finished games, newest first
//
// limit defaults to 20 and is capped at 100.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/store"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

func (s *Server) mountArchive(r chi.Router) {
	r.Get("/leaderboard", s.handleLeaderboard)
	r.Get("/games/recent", s.handleRecent)
}

type lbRes struct {
	ThreadID uint64            `json:"threadId"`
	Top      []store.LeaderRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	rows, err := s.opts.Archive.Leaderboard(r.Context(), s.opts.ThreadID, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []store.LeaderRow{}
	}
	_ = json.NewEncoder(w).Encode(lbRes{ThreadID: s.opts.ThreadID, Top: rows})
}

type recentRes struct {
	ThreadID uint64       `json:"threadId"`
	Games    []store.Game `json:"games"`
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	games, err := s.opts.Archive.Recent(r.Context(), s.opts.ThreadID, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("recent games")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	if games == nil {
		games = []store.Game{}
	}
	_ = json.NewEncoder(w).Encode(recentRes{ThreadID: s.opts.ThreadID, Games: games})
}

// parseLimit reads ?limit=, writing a 400 when it is not a positive integer.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	q := r.URL.Query().Get("limit")
	if q == "" {
		return defaultLimit, true
	}
	n, err := strconv.Atoi(q)
	if err != nil || n < 1 {
		http.Error(w, `{"error":"invalid_limit"}`, http.StatusBadRequest)
		return 0, false
	}
	return min(n, maxLimit), true
}
