// internal/reply/reply.go
//
// Rendering of bot replies. Output is thread markdown:
//   ***x***  exact letter
//   x        close letter
//   ~~x~~    wrong letter
//
// Every function is pure; the same session view, author and result always
// render the same text.

package reply

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/thread-bot/internal/command"
	"github.com/robalobadob/wordle/apps/thread-bot/internal/game"
)

// lettersPerRow is the alphabet grid width.
const lettersPerRow = 7

const (
	welcome = "🚀  Wordle started! Reply `/guess <word>` to guess. The answer is a 5-letter word, " +
		"everyone shares 6 tries and the first correct guess wins.\n\n" +
		"Each reply shows the guess history and the alphabet:\n\n" +
		"+ 🟩 the letter is in the right spot, shown ***bold italic***\n\n" +
		"+ 🟨 the letter is in the answer but in another spot\n\n" +
		"+ ⬛ the letter is not in the answer, shown ~~struck~~\n\n" +
		"In the alphabet ***X*** is placed, **X** is in the answer, ~~X~~ is not in the answer."
	alreadyStarted = "❌  A game is already running, reply `/guess <word>` to guess"
	notStarted     = "❌  No game is running, reply `/start` to begin"
)

// ParseError renders a command parse failure.
func ParseError(err error) string {
	var invalid *command.InvalidWordError
	var unsupported *command.UnsupportedActionError
	switch {
	case errors.Is(err, command.ErrEmptyWord):
		return "❌  The guess is empty, reply `/guess <word>` with a 5-letter English word"
	case errors.As(err, &invalid):
		return fmt.Sprintf("❌  `%s` is not a valid word, a guess must be 5 English letters", invalid.Word)
	case errors.As(err, &unsupported):
		return fmt.Sprintf("❌  `/%s` is not supported, reply `/start` or `/guess <word>`", unsupported.Token)
	default:
		return "❌  " + err.Error()
	}
}

// Response renders the reply to one applied action. v is the session view
// after the apply, author the poster, ev and err what Apply returned.
// It returns "" when nothing should be posted.
func Response(v game.View, author string, ev game.Event, err error) string {
	var nid *game.NotInDictionaryError
	switch {
	case errors.Is(err, game.ErrAlreadyStarted):
		return alreadyStarted
	case errors.Is(err, game.ErrNotStarted):
		return notStarted
	case errors.As(err, &nid):
		return fmt.Sprintf("❌  `%s` is not in the word list, no try was used", nid.Word)
	case err != nil:
		return "❌  " + err.Error()
	}

	switch {
	case ev.Started:
		return welcome
	case ev.Guess != nil:
		return guessReply(v, author)
	default:
		return ""
	}
}

func guessReply(v game.View, author string) string {
	var b strings.Builder
	if v.State == game.Finished {
		fmt.Fprintf(&b, "## %s %d/%d", strings.ToUpper(v.Target), v.Tries(), game.MaxGuesses)
	}
	writeHistory(&b, v.History)

	if v.State != game.Finished {
		b.WriteString("\n\n___\n\n")
		b.WriteString(Alphabet(v.Hints))
		return b.String()
	}

	if v.Outcome == game.Win {
		fmt.Fprintf(&b, "\n\nCongratulations @%s, the prize is yours 🎉", author)
	} else {
		b.WriteString("\n\nGame over, better luck next time 💪")
	}
	return b.String()
}

func writeHistory(b *strings.Builder, history []game.GuessResult) {
	for _, r := range history {
		b.WriteString("\n\n")
		b.WriteString(GuessLine(r))
	}
}

// GuessLine renders one guess: squares, letters and the guesser.
func GuessLine(r game.GuessResult) string {
	var b strings.Builder
	for _, m := range r.Marks {
		b.WriteString(square(m))
	}
	for i := 0; i < len(r.Word) && i < game.WordLength; i++ {
		b.WriteByte(' ')
		b.WriteString(letter(r.Word[i], r.Marks[i]))
	}
	fmt.Fprintf(&b, "    @%s", r.Author)
	return b.String()
}

// Alphabet renders the 26 letter hints in rows of seven.
func Alphabet(a game.Alphabet) string {
	var b strings.Builder
	for i, m := range a {
		if i > 0 {
			if i%lettersPerRow == 0 {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		ch := string(rune('A' + i))
		switch m {
		case game.Exact:
			b.WriteString("***" + ch + "***")
		case game.Close:
			b.WriteString("**" + ch + "**")
		case game.Wrong:
			b.WriteString("~~" + ch + "~~")
		default:
			b.WriteString(ch)
		}
	}
	return b.String()
}

func square(m game.Match) string {
	switch m {
	case game.Exact:
		return "🟩"
	case game.Close:
		return "🟨"
	default:
		return "⬛"
	}
}

func letter(c byte, m game.Match) string {
	switch m {
	case game.Exact:
		return "***" + string(c) + "***"
	case game.Wrong:
		return "~~" + string(c) + "~~"
	default:
		return string(c)
	}
}
