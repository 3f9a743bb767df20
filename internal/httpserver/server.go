// internal/httpserver/server.go
//
// Read-only HTTP surface for the thread bot.
// Responsibilities:
//   - Router + middleware (JSON, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "/session".
//   - Results archive: "/leaderboard", "/games/recent".
//   - Admin: POST /admin/login issues a JWT, GET /admin/session shows the answer.
//
// Notes:
//   - Handlers only read the snapshot the bot publishes; nothing here mutates
//     the game.
//   - The answer is hidden from public views until the game is finished.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/bot"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/game"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/store"
)

// SnapshotSource is the bot state the server reports on.
type SnapshotSource interface {
	Snapshot() bot.Snapshot
}

// WordStats reports dictionary sizes.
type WordStats interface {
	Stats() (answers int, allowed int)
}

// Options are the server's collaborators. Archive, Gatherer and Words may be
// nil; their endpoints then answer 404.
type Options struct {
	ThreadID uint64
	Archive  store.Store
	Gatherer prometheus.Gatherer
	Words    WordStats
	Admin    Admin
	Logger   zerolog.Logger
}

// Server bundles the router and its read-only dependencies.
type Server struct {
	r    *chi.Mux
	src  SnapshotSource
	opts Options
	log  zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(src SnapshotSource, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), src: src, opts: opts, log: opts.Logger}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)

	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"thread-bot","endpoints":["/health","/metrics","/session","/leaderboard","/games/recent","POST /admin/login","/admin/session"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if opts.Gatherer != nil {
		s.r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Words != nil {
		s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			a, g := opts.Words.Stats()
			_ = json.NewEncoder(w).Encode(map[string]int{"answers": a, "allowed": g})
		})
	}

	s.r.Get("/session", s.handleSession)
	if opts.Archive != nil {
		s.mountArchive(s.r)
	}
	s.mountAdmin(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]string{"error": "not_found", "path": r.URL.Path})
		http.Error(w, string(body), http.StatusNotFound)
	})
	return s
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// sessionRes is the JSON shape of a session view.
type sessionRes struct {
	ThreadID  uint64                `json:"threadId"`
	Cursor    uint64                `json:"cursor"`
	GameID    string                `json:"gameId,omitempty"`
	State     game.State            `json:"state"`
	Outcome   game.Outcome          `json:"outcome,omitempty"`
	Day       string                `json:"day,omitempty"`
	Round     int                   `json:"round,omitempty"`
	Tries     int                   `json:"tries"`
	MaxTries  int                   `json:"maxTries"`
	History   []game.GuessResult    `json:"history"`
	Hints     map[string]game.Match `json:"hints"`
	Answer    string                `json:"answer,omitempty"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func toSessionRes(snap bot.Snapshot, reveal bool) sessionRes {
	v := snap.Game
	res := sessionRes{
		ThreadID:  snap.ThreadID,
		Cursor:    snap.Cursor,
		GameID:    v.ID,
		State:     v.State,
		Outcome:   v.Outcome,
		Day:       v.Day,
		Round:     v.Round,
		Tries:     v.Tries(),
		MaxTries:  game.MaxGuesses,
		History:   v.History,
		Hints:     map[string]game.Match{},
		UpdatedAt: snap.UpdatedAt,
	}
	if res.History == nil {
		res.History = []game.GuessResult{}
	}
	for i, m := range v.Hints {
		if m != game.Unknown {
			res.Hints[string(rune('a'+i))] = m
		}
	}
	if reveal || v.State == game.Finished {
		res.Answer = v.Target
	}
	return res
}

// handleSession returns the public view of the current game.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(toSessionRes(s.src.Snapshot(), false))
}
