// internal/game/types.go
//
// Core type definitions for the thread game.
// Defines:
//   - Match: per-letter classification of a guess (wrong/close/exact).
//   - GuessResult: one scored guess and who made it.
//   - Alphabet: cumulative best-known classification per letter.
//   - State/Outcome: session lifecycle.

package game

import "github.com/robalobadob/wordle/apps/thread-bot/internal/command"

const (
	// WordLength is the number of letters in targets and guesses.
	WordLength = command.WordLength
	// MaxGuesses is the number of tries in one game.
	MaxGuesses = 6
)

// Match is the evaluation of a single letter. Values are ordered by
// precedence: Exact > Close > Wrong > Unknown. Unknown only appears in an
// Alphabet, never in a scored guess.
type Match int

const (
	Unknown Match = iota
	Wrong
	Close
	Exact
)

func (m Match) String() string {
	switch m {
	case Wrong:
		return "wrong"
	case Close:
		return "close"
	case Exact:
		return "exact"
	default:
		return "unknown"
	}
}

// MarshalText lets Match render as its name in JSON views.
func (m Match) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// GuessResult is one accepted guess.
type GuessResult struct {
	Word   string            `json:"word"`
	Author string            `json:"author"`
	Marks  [WordLength]Match `json:"marks"`
}

// Solved reports whether every position is Exact.
func (r GuessResult) Solved() bool {
	for _, m := range r.Marks {
		if m != Exact {
			return false
		}
	}
	return true
}

// Alphabet holds the best classification seen for each letter a–z.
type Alphabet [26]Match

// Get returns the hint for a letter of either case; non-letters are Unknown.
func (a *Alphabet) Get(letter byte) Match {
	i := idx(lower(letter))
	if i < 0 || i >= 26 {
		return Unknown
	}
	return a[i]
}

// Merge folds a scored guess into the alphabet. A letter's hint only ever
// moves up the precedence order, so a later Wrong occurrence of a letter
// never hides an earlier Close or Exact.
func (a *Alphabet) Merge(r GuessResult) {
	for i := 0; i < len(r.Word) && i < WordLength; i++ {
		j := idx(r.Word[i])
		if j < 0 || j >= 26 {
			continue
		}
		if r.Marks[i] > a[j] {
			a[j] = r.Marks[i]
		}
	}
}

// State is the session lifecycle stage.
type State int

const (
	NotStarted State = iota
	InProgress
	Finished
)

func (s State) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "not_started"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Outcome is how a finished game ended.
type Outcome int

const (
	Undecided Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "won"
	case Lose:
		return "lost"
	default:
		return ""
	}
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }
