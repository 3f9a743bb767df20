// internal/game/match.go
//
// Two-pass scoring of a guess against the target.
//
// Pass 1:
//   - Mark exact matches as Exact.
//   - Count remaining (non-exact) target letters.
//
// Pass 2:
//   - For each unmarked guess letter: if there is remaining count for that
//     letter, mark Close and decrement; otherwise mark Wrong.
//
// The number of Close+Exact marks for a letter never exceeds its number of
// occurrences in the target.

package game

// Score compares guess against target. Both must be WordLength lowercase
// ASCII letters; callers validate before scoring.
func Score(guess, target string) [WordLength]Match {
	var res [WordLength]Match
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		if guess[i] == target[i] {
			res[i] = Exact
		} else {
			counts[idx(target[i])]++
		}
	}

	for i := 0; i < WordLength; i++ {
		if res[i] == Exact {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = Close
			counts[j]--
		} else {
			res[i] = Wrong
		}
	}
	return res
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c) - 'a' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
