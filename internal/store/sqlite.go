// internal/store/sqlite.go
//
// SQLite implementation of the Store interface.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying the embedded migrations (idempotent, recorded in _migrations).
//   - Recording finished games and answering leaderboard/recent queries.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/thread-bot/assets"
)

// timeLayout is fixed-width so TEXT ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000Z"

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite database file and
// applies the embedded migrations.
func OpenSQLite(dsn string) (Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// openDB opens a SQLite database file.
//
// - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
// - Configures busy timeout and WAL journaling mode.
// - Enforces foreign keys.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	// One writer; the bot records at most a game at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies *.sql files from fsys in lexical order, each inside its
// own transaction, skipping files already listed in _migrations.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Record inserts a finished game row.
func (s *sqliteStore) Record(ctx context.Context, g Game) error {
	var winner, winnerPost any
	if g.Winner != "" {
		winner, winnerPost = g.Winner, int64(g.WinnerPost)
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO games
            (thread_id, date, answer, outcome, tries, winner, winner_post, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(g.ThreadID), g.Date, g.Answer, g.Outcome, g.Tries, winner, winnerPost,
		g.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

// Leaderboard aggregates won games per winner.
func (s *sqliteStore) Leaderboard(ctx context.Context, threadID uint64, limit int) ([]LeaderRow, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT winner, COUNT(1) AS wins, AVG(tries) AS avg_tries
        FROM games
        WHERE thread_id=? AND outcome='won' AND winner IS NOT NULL
        GROUP BY winner
        ORDER BY wins DESC, avg_tries ASC, winner ASC
        LIMIT ?`, int64(threadID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderRow, 0, limit)
	for rows.Next() {
		var r LeaderRow
		if err := rows.Scan(&r.Player, &r.Wins, &r.AvgTries); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Recent returns the newest finished games of a thread.
func (s *sqliteStore) Recent(ctx context.Context, threadID uint64, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT thread_id, date, answer, outcome, tries,
               COALESCE(winner, ''), COALESCE(winner_post, 0), finished_at
        FROM games
        WHERE thread_id=?
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, int64(threadID), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Game, 0, limit)
	for rows.Next() {
		var (
			g          Game
			tid, wpost int64
			finished   string
		)
		if err := rows.Scan(&tid, &g.Date, &g.Answer, &g.Outcome, &g.Tries, &g.Winner, &wpost, &finished); err != nil {
			return nil, err
		}
		g.ThreadID, g.WinnerPost = uint64(tid), uint64(wpost)
		g.FinishedAt, _ = time.Parse(timeLayout, finished)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error { return s.db.Close() }
