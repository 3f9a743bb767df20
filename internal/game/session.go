// internal/game/session.go
//
// The single game session bound to a thread.
// Responsibilities:
//   - Start a game with the day's seeded answer (reject while one is running).
//   - Validate guesses against the dictionary and score them.
//   - Track history and the alphabet hints.
//   - Finish the game: all Exact → Win, sixth miss → Lose.
//
// A Session has exactly one mutator; it is not safe for concurrent use.
// Readers on other goroutines should take a View and share that instead.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/command"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/daily"
)

// Dictionary is the word source a session needs.
type Dictionary interface {
	// IsValidGuess reports whether word may be guessed.
	IsValidGuess(word string) bool
	// DailyAnswer returns the answer for a seed, deterministically.
	DailyAnswer(seed string) string
}

var (
	// ErrAlreadyStarted is returned by Start while a game is in progress.
	ErrAlreadyStarted = errors.New("game already started")
	// ErrNotStarted is returned by Guess when no game is in progress.
	ErrNotStarted = errors.New("game not started")
)

// NotInDictionaryError rejects a well-formed guess the dictionary does not
// know. The guess does not use up a try.
type NotInDictionaryError struct {
	Word string
}

func (e *NotInDictionaryError) Error() string {
	return fmt.Sprintf("%q is not in the word list", e.Word)
}

// Event describes the effect of one Apply.
type Event struct {
	Action  command.Action
	Started bool         // a new game began
	Guess   *GuessResult // the accepted guess, if any
	Outcome Outcome      // set when this apply finished the game
}

// Won reports whether this event ended the game with a win.
func (e Event) Won() bool { return e.Outcome == Win }

// Finished reports whether this event ended the game.
func (e Event) Finished() bool { return e.Outcome != Undecided }

// View is an immutable copy of the session's visible state.
type View struct {
	ID      string        `json:"id,omitempty"`
	State   State         `json:"state"`
	Outcome Outcome       `json:"outcome,omitempty"`
	Target  string        `json:"target,omitempty"`
	Day     string        `json:"day,omitempty"`
	Round   int           `json:"round,omitempty"`
	History []GuessResult `json:"history"`
	Hints   Alphabet      `json:"hints"`
}

// Tries is the number of accepted guesses.
func (v View) Tries() int { return len(v.History) }

// Session holds the state of one thread's game.
type Session struct {
	dict  Dictionary
	clock func() time.Time

	id      string
	state   State
	outcome Outcome
	target  string
	history []GuessResult
	hints   Alphabet

	day   string // UTC date key of the current round counter
	round int    // games started on day
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now for daily seeding.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.clock = now }
}

// NewSession returns a session in the NotStarted state.
func NewSession(dict Dictionary, opts ...Option) *Session {
	s := &Session{dict: dict, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply runs one parsed action. Nop never changes state. author is the
// identity of the poster and is recorded with accepted guesses.
func (s *Session) Apply(a command.Action, author string) (Event, error) {
	ev := Event{Action: a}
	switch a.Kind {
	case command.Start:
		if err := s.Start(); err != nil {
			return ev, err
		}
		ev.Started = true
	case command.Guess:
		res, err := s.Guess(a.Word, author)
		if err != nil {
			return ev, err
		}
		ev.Guess = &res
		if s.state == Finished {
			ev.Outcome = s.outcome
		}
	}
	return ev, nil
}

// Start begins a new game from NotStarted or Finished. The answer comes from
// the dictionary seeded with "<UTC date>#<n>", n counting games started that
// day, so replays of a day pick the same sequence of answers.
func (s *Session) Start() error {
	if s.state == InProgress {
		return ErrAlreadyStarted
	}

	now := s.clock()
	if day := daily.DateKey(now); day != s.day {
		s.day, s.round = day, 0
	}
	s.round++

	s.id = randomID()
	s.target = strings.ToLower(s.dict.DailyAnswer(daily.Seed(now, s.round)))
	s.state = InProgress
	s.outcome = Undecided
	s.history = nil
	s.hints = Alphabet{}
	return nil
}

// Guess validates and scores word, mutating the session.
// Validation order: a game must be running, then the dictionary must know
// the word. Rejected guesses leave history untouched.
func (s *Session) Guess(word, author string) (GuessResult, error) {
	if s.state != InProgress {
		return GuessResult{}, ErrNotStarted
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if len(word) != WordLength || !isAlpha(word) || !s.dict.IsValidGuess(word) {
		return GuessResult{}, &NotInDictionaryError{Word: word}
	}

	res := GuessResult{Word: word, Author: author, Marks: Score(word, s.target)}
	s.history = append(s.history, res)
	s.hints.Merge(res)

	switch {
	case res.Solved():
		s.state, s.outcome = Finished, Win
	case len(s.history) >= MaxGuesses:
		s.state, s.outcome = Finished, Lose
	}
	return res, nil
}

// State reports the lifecycle stage.
func (s *Session) State() State { return s.state }

// View returns a copy of the visible state.
func (s *Session) View() View {
	v := View{
		ID:      s.id,
		State:   s.state,
		Outcome: s.outcome,
		Target:  s.target,
		Day:     s.day,
		Round:   s.round,
		History: make([]GuessResult, len(s.history)),
		Hints:   s.hints,
	}
	copy(v.History, s.history)
	return v
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
