package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Action
	}{
		{name: "chatter", text: "hello", want: Action{Kind: Nop}},
		{name: "empty", text: "", want: Action{Kind: Nop}},
		{name: "whitespace", text: " \n\t ", want: Action{Kind: Nop}},
		{name: "start", text: "/start", want: Action{Kind: Start}},
		{name: "start with trailing text", text: "  /start now please ", want: Action{Kind: Start}},
		{name: "guess", text: "/guess hello", want: Action{Kind: Guess, Word: "hello"}},
		{name: "guess is lowercased", text: "/guess CRANE", want: Action{Kind: Guess, Word: "crane"}},
		{name: "guess extra tokens ignored", text: "/guess crane because why not", want: Action{Kind: Guess, Word: "crane"}},
		{name: "slash mid text is chatter", text: "try /guess crane", want: Action{Kind: Nop}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEmptyWord(t *testing.T) {
	_, err := Parse("/guess")
	assert.ErrorIs(t, err, ErrEmptyWord)

	_, err = Parse("  /guess   ")
	assert.ErrorIs(t, err, ErrEmptyWord)
}

func TestParseInvalidWord(t *testing.T) {
	for _, word := range []string{"hi", "toolong", "cr4ne", "héllo", "cra-e"} {
		t.Run(word, func(t *testing.T) {
			_, err := Parse("/guess " + word)
			var invalid *InvalidWordError
			require.True(t, errors.As(err, &invalid), "got %v", err)
			assert.Equal(t, word, invalid.Word)
		})
	}
}

func TestParseUnsupportedAction(t *testing.T) {
	_, err := Parse("/foo")
	var unsupported *UnsupportedActionError
	require.True(t, errors.As(err, &unsupported), "got %v", err)
	assert.Equal(t, "foo", unsupported.Token)
	assert.Equal(t, "unsupported action /foo", err.Error())

	_, err = Parse("/Start")
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, "Start", unsupported.Token)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "nop", Action{}.String())
	assert.Equal(t, "/start", Action{Kind: Start}.String())
	assert.Equal(t, "/guess crane", Action{Kind: Guess, Word: "crane"}.String())
}
