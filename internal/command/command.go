// internal/command/command.go
//
// Command grammar for thread replies.
//
//   /start          → Start
//   /guess <word>   → Guess(word), word = 5 ASCII letters, lowercased
//   anything else   → Nop (chatter) unless it starts with "/", in which case
//                     the leading token is an unsupported action.
//
// Parsing is pure; every error is a user-facing input error.

package command

import (
	"errors"
	"fmt"
	"strings"
)

// WordLength is the number of letters a guess must have.
const WordLength = 5

// Kind tags an Action.
type Kind int

const (
	Nop Kind = iota
	Start
	Guess
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Guess:
		return "guess"
	default:
		return "nop"
	}
}

// Action is the parsed intent of one post. Word is set only for Guess.
type Action struct {
	Kind Kind
	Word string
}

func (a Action) String() string {
	switch a.Kind {
	case Start:
		return "/start"
	case Guess:
		return "/guess " + a.Word
	default:
		return "nop"
	}
}

// ErrEmptyWord is returned for "/guess" without a word.
var ErrEmptyWord = errors.New("guess word is empty")

// InvalidWordError reports a guess that is not five alphabetic letters.
type InvalidWordError struct {
	Word string
}

func (e *InvalidWordError) Error() string {
	return fmt.Sprintf("invalid word %q", e.Word)
}

// UnsupportedActionError reports an unknown slash command. Token has the
// leading slash stripped.
type UnsupportedActionError struct {
	Token string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("unsupported action /%s", e.Token)
}

// Parse translates post text into an Action.
func Parse(text string) (Action, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || !strings.HasPrefix(tokens[0], "/") {
		return Action{Kind: Nop}, nil
	}

	switch tokens[0] {
	case "/start":
		return Action{Kind: Start}, nil
	case "/guess":
		if len(tokens) < 2 {
			return Action{}, ErrEmptyWord
		}
		word := tokens[1]
		if !isWord(word) {
			return Action{}, &InvalidWordError{Word: word}
		}
		return Action{Kind: Guess, Word: strings.ToLower(word)}, nil
	default:
		return Action{}, &UnsupportedActionError{Token: strings.TrimPrefix(tokens[0], "/")}
	}
}

// isWord reports whether s is exactly WordLength ASCII letters of either case.
func isWord(s string) bool {
	if len(s) != WordLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
