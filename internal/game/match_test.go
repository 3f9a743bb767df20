package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		guess, target string
		want          [WordLength]Match
	}{
		{"alloy", "alloy", [WordLength]Match{Exact, Exact, Exact, Exact, Exact}},
		// Both l's are credited: one in place, one elsewhere; the target has two.
		{"lloyd", "alloy", [WordLength]Match{Close, Exact, Close, Close, Wrong}},
		{"crate", "crane", [WordLength]Match{Exact, Exact, Exact, Wrong, Exact}},
		// Only one e in "leant": the second e of "erase" is Wrong.
		{"erase", "leant", [WordLength]Match{Close, Wrong, Exact, Wrong, Wrong}},
		// An exact match consumes the letter before any close credit.
		{"eerie", "crane", [WordLength]Match{Wrong, Wrong, Close, Wrong, Exact}},
		{"zzzzz", "crane", [WordLength]Match{Wrong, Wrong, Wrong, Wrong, Wrong}},
	}
	for _, tt := range tests {
		t.Run(tt.guess+"/"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.guess, tt.target))
		})
	}
}

func TestScoreNeverOverCreditsLetters(t *testing.T) {
	// A small alphabet forces plenty of repeated letters.
	const letters = "abcde"
	rng := rand.New(rand.NewSource(42))
	word := func() string {
		b := make([]byte, WordLength)
		for i := range b {
			b[i] = letters[rng.Intn(len(letters))]
		}
		return string(b)
	}

	for n := 0; n < 5000; n++ {
		guess, target := word(), word()
		marks := Score(guess, target)

		credited := map[byte]int{}
		inTarget := map[byte]int{}
		for i := 0; i < WordLength; i++ {
			inTarget[target[i]]++
			if marks[i] != Wrong {
				credited[guess[i]]++
			}
			if marks[i] == Exact && guess[i] != target[i] {
				t.Fatalf("Score(%q,%q)[%d] marked exact on mismatch", guess, target, i)
			}
			if guess[i] == target[i] && marks[i] != Exact {
				t.Fatalf("Score(%q,%q)[%d] missed an exact match", guess, target, i)
			}
		}
		for c, got := range credited {
			if got > inTarget[c] {
				t.Fatalf("Score(%q,%q) credited %q %d times, target has %d", guess, target, c, got, inTarget[c])
			}
		}
	}
}
