// internal/words/words.go
//
// Word list management for the game session.
//
// Responsibilities:
//   - Load answer and allowed guess lists from files or fall back to the
//     embedded assets.
//   - Maintain a set for quick guess validation (answers ∪ allowed).
//   - Pick the answer for a seed via daily.Index.
//
// Load behavior:
//   1. AnswersFile and AllowedFile both set → answers from the first, extra
//      guesses from the second.
//   2. Only AllowedFile set → that file is both answers and guesses.
//   3. Neither set → embedded assets/answers.txt and assets/allowed.txt.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z).
//   • Lists are normalized to lowercase.

package words

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/thread-bot/assets"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/daily"
)

// fallbackAnswer is used when no answers are loaded.
const fallbackAnswer = "crane"

// Options selects word list sources. Empty paths use the embedded lists.
type Options struct {
	AnswersFile string
	AllowedFile string
	Salt        string
}

// Dictionary validates guesses and picks seeded answers.
type Dictionary struct {
	answers    []string
	allowedSet map[string]struct{} // answers ∪ guesses
	salt       string
}

// Load builds a Dictionary from opts.
// Returns an error if the answers list ends up empty.
func Load(opts Options) (*Dictionary, error) {
	var ansList, allowList []string
	var err error

	switch {
	// Case 1: both lists provided
	case opts.AnswersFile != "" && opts.AllowedFile != "":
		if ansList, err = readWordFile(opts.AnswersFile); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided → use for both
	case opts.AllowedFile != "":
		if allowList, err = readWordFile(opts.AllowedFile); err != nil {
			return nil, err
		}
		ansList = allowList

	// Case 3: only answers file provided → embedded extra guesses
	case opts.AnswersFile != "":
		if ansList, err = readWordFile(opts.AnswersFile); err != nil {
			return nil, err
		}
		raw, err := assets.AllowedList()
		if err != nil {
			return nil, err
		}
		allowList = raw

	// Case 4: embedded assets
	default:
		raw, err := assets.AnswersList()
		if err != nil {
			return nil, err
		}
		ansList = normalize(raw)
		raw, err = assets.AllowedList()
		if err != nil {
			return nil, err
		}
		allowList = normalize(raw)
	}

	return New(ansList, allowList, opts.Salt)
}

// New builds a Dictionary from in-memory lists. Answers are always allowed.
func New(answers, allowed []string, salt string) (*Dictionary, error) {
	answers = normalize(answers)
	if len(answers) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	set := toSet(answers)
	for _, w := range normalize(allowed) {
		set[w] = struct{}{}
	}
	return &Dictionary{answers: answers, allowedSet: set, salt: salt}, nil
}

// IsValidGuess reports whether w is a valid guess (answers ∪ guesses).
func (d *Dictionary) IsValidGuess(w string) bool {
	_, ok := d.allowedSet[strings.ToLower(w)]
	return ok
}

// DailyAnswer returns the answer for seed, deterministically.
func (d *Dictionary) DailyAnswer(seed string) string {
	if len(d.answers) == 0 {
		return fallbackAnswer
	}
	return d.answers[daily.Index(seed, d.salt, len(d.answers))]
}

// Stats returns counts of loaded words: (answers, allowed).
func (d *Dictionary) Stats() (answersCount int, allowedCount int) {
	return len(d.answers), len(d.allowedSet)
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only valid 5-letter alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w, ok := clean(sc.Text()); ok {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// normalize keeps the valid 5-letter words of list, lowercased, without
// duplicates and in first-seen order.
func normalize(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, line := range list {
		w, ok := clean(line)
		if !ok {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

func clean(s string) (string, bool) {
	w := strings.TrimSpace(strings.ToLower(s))
	return w, len(w) == 5 && isAlpha(w)
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
