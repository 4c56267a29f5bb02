package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Match(t *testing.T) {
	testCases := []struct {
		name     string
		r        Regex
		input    string
		expectOk bool
		expectAt int
	}{
		{
			name:     "exact",
			r:        Match("abc"),
			input:    "abc",
			expectOk: true,
			expectAt: 3,
		},
		{
			name:     "trailing text",
			r:        Match("abc"),
			input:    "abcdefg",
			expectOk: true,
			expectAt: 3,
		},
		{
			name:     "no match",
			r:        Match("abce"),
			input:    "abcdefg",
			expectOk: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			matchEnd, ok := tc.r.Match([]byte(tc.input), 0, len(tc.input))

			assert.Equal(tc.expectOk, ok)
			if tc.expectOk {
				assert.Equal(tc.expectAt, matchEnd)
			}
		})
	}
}

func Test_Alternatives(t *testing.T) {
	assert := assert.New(t)

	input := "jump up and down"
	r := Alternatives(Match("jump"), Match("sit"), Match("dance"))

	matchEnd, ok := r.Match([]byte(input), 0, len(input))
	assert.True(ok)
	assert.Equal(4, matchEnd)
}

func Test_Alternatives_nested(t *testing.T) {
	assert := assert.New(t)

	input := "jump up and down"
	r := Alternatives(Alternatives(Match("sit"), Match("jump")), Match("dance"))

	matchEnd, ok := r.Match([]byte(input), 0, len(input))
	assert.True(ok)
	assert.Equal(4, matchEnd)
}

func Test_Sequence(t *testing.T) {
	assert := assert.New(t)

	input := "hello world!"
	r := Sequence(Match("hell"), Match("o wo"), Match("rld!"))

	matchEnd, ok := r.Match([]byte(input), 0, len(input))
	assert.True(ok)
	assert.Equal(len(input), matchEnd)
}

func Test_Sequence_ofAlternatives(t *testing.T) {
	assert := assert.New(t)

	input := "heya everyone!"
	r := Sequence(
		Alternatives(Match("hello "), Match("heya "), Match("sup ")),
		Alternatives(Match("world"), Match("people"), Match("everyone")),
	)

	matchEnd, ok := r.Match([]byte(input), 0, len(input))
	assert.True(ok)
	assert.Equal(len(input)-1, matchEnd)
}

func Test_Maybe(t *testing.T) {
	assert := assert.New(t)

	r := Sequence(Match("hello world"), Maybe(Match("!")))

	text1 := "hello world!"
	matchEnd, ok := r.Match([]byte(text1), 0, len(text1))
	assert.True(ok)
	assert.Equal(len(text1), matchEnd)

	text2 := "hello world."
	matchEnd, ok = r.Match([]byte(text2), 0, len(text2))
	assert.True(ok)
	assert.Equal(len(text2)-1, matchEnd)
}

func Test_Between(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expectOk bool
		expectAt int
	}{
		{name: "too few", input: "xxyyyyyyyy", expectOk: false},
		{name: "at least", input: "xxxyyyyyyy", expectOk: true, expectAt: 3},
		{name: "in range", input: "xxxxxyyyyy", expectOk: true, expectAt: 5},
		{name: "at most", input: "xxxxxxxyyy", expectOk: true, expectAt: 7},
		{name: "more than most", input: "xxxxxxxxxy", expectOk: true, expectAt: 7},
	}

	r := Between(3, 7, Match("x"))

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			matchEnd, ok := r.Match([]byte(tc.input), 0, len(tc.input))
			assert.Equal(tc.expectOk, ok)
			if tc.expectOk {
				assert.Equal(tc.expectAt, matchEnd)
			}
		})
	}
}

func Test_Some_and_Kleene(t *testing.T) {
	assert := assert.New(t)

	some := Some(Digit)
	kleene := Kleene(Digit)

	_, ok := some.Match([]byte(""), 0, 0)
	assert.False(ok)

	matchEnd, ok := kleene.Match([]byte(""), 0, 0)
	assert.True(ok)
	assert.Equal(0, matchEnd)

	input := "12345abc"
	matchEnd, ok = some.Match([]byte(input), 0, len(input))
	assert.True(ok)
	assert.Equal(5, matchEnd)
}

func Test_AnyOf_and_Range(t *testing.T) {
	assert := assert.New(t)

	op := AnyOf("+-")
	matchEnd, ok := op.Match([]byte("+1"), 0, 2)
	assert.True(ok)
	assert.Equal(1, matchEnd)

	_, ok = op.Match([]byte("*1"), 0, 2)
	assert.False(ok)

	matchEnd, ok = Digit.Match([]byte("7"), 0, 1)
	assert.True(ok)
	assert.Equal(1, matchEnd)
}

func Test_Any(t *testing.T) {
	assert := assert.New(t)

	matchEnd, ok := Any.Match([]byte("x"), 0, 1)
	assert.True(ok)
	assert.Equal(1, matchEnd)

	_, ok = Any.Match([]byte(""), 0, 0)
	assert.False(ok)
}
