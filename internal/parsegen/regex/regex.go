// Package regex implements a small combinator library for building matchers
// over a stream of atoms (bytes, by default). Each combinator is a value type
// satisfying the Regex interface; composing them builds up larger matchers
// without any backing automaton or backtracking engine beyond what each
// combinator does on its own.
//
// This is deliberately not built on top of the standard library's regexp
// package: it is a from-scratch matcher expressed as composable Go values
// instead of a compiled automaton. The sibling lex package does not use it;
// lex compiles its patterns with regexp.
package regex

// Regex matches some prefix of the atoms between start and end (exclusive).
// On success it returns the index just past the end of the match and true. On
// failure it returns false; the returned index is meaningless.
//
// Matching always begins at start; Regex does not search forward looking for
// a match later in the stream, and this package does not scan across a set of
// Regex values for the longest match.
type Regex interface {
	Match(atoms []byte, start, end int) (matchEnd int, ok bool)
}

// Match matches exactly the literal byte sequence s.
func Match(s string) Regex {
	return matchLiteral(s)
}

type matchLiteral string

func (m matchLiteral) Match(atoms []byte, start, end int) (int, bool) {
	s := string(m)
	if start+len(s) > end {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if atoms[start+i] != s[i] {
			return 0, false
		}
	}
	return start + len(s), true
}

// Alternatives tries each of r in order and returns the first success. This is
// NOT longest-match among the alternatives; declaration order wins, same as
// the lexicon's declaration-order tiebreak does across lexemes.
func Alternatives(r ...Regex) Regex {
	return alternatives(r)
}

type alternatives []Regex

func (a alternatives) Match(atoms []byte, start, end int) (int, bool) {
	for _, sub := range a {
		if matchEnd, ok := sub.Match(atoms, start, end); ok {
			return matchEnd, true
		}
	}
	return 0, false
}

// Sequence requires every one of r to match contiguously, in order. It fails
// as soon as any sub-expression fails to match.
func Sequence(r ...Regex) Regex {
	return sequence(r)
}

type sequence []Regex

func (s sequence) Match(atoms []byte, start, end int) (int, bool) {
	head := start
	for _, sub := range s {
		next, ok := sub.Match(atoms, head, end)
		if !ok {
			return 0, false
		}
		head = next
	}
	return head, true
}

// Maybe matches zero or one occurrences of r. It never fails; when r does not
// match, the original start position is returned as the (empty) match.
func Maybe(r Regex) Regex {
	return maybe{r}
}

type maybe struct {
	sub Regex
}

func (m maybe) Match(atoms []byte, start, end int) (int, bool) {
	if matchEnd, ok := m.sub.Match(atoms, start, end); ok {
		return matchEnd, true
	}
	return start, true
}

// Between matches r greedily, least to most times. It succeeds once it has
// matched r at least `least` times, and stops trying once it has matched it
// `most` times. If fewer than `least` matches are found, the whole thing
// fails.
func Between(least, most int, r Regex) Regex {
	return between{least: least, most: most, sub: r}
}

type between struct {
	least, most int
	sub         Regex
}

func (b between) Match(atoms []byte, start, end int) (int, bool) {
	head := start
	count := 0
	for count < b.most {
		next, ok := b.sub.Match(atoms, head, end)
		if !ok {
			break
		}
		// a sub-expression that matches without consuming anything would
		// loop here forever; treat that as "no further progress possible"
		// and stop collecting repeats.
		if next == head {
			count++
			break
		}
		head = next
		count++
	}

	if count < b.least {
		return 0, false
	}
	return head, true
}

// AtLeast matches r greedily, at least L times, with no upper bound.
func AtLeast(least int, r Regex) Regex {
	return Between(least, maxRepeat, r)
}

// AtMost matches r greedily, at most M times (zero is always acceptable).
func AtMost(most int, r Regex) Regex {
	return Between(0, most, r)
}

// Exactly matches r greedily exactly N times.
func Exactly(n int, r Regex) Regex {
	return Between(n, n, r)
}

// Some matches r one or more times. Equivalent to AtLeast(1, r).
func Some(r Regex) Regex {
	return AtLeast(1, r)
}

// Kleene matches r zero or more times. Equivalent to AtLeast(0, r).
func Kleene(r Regex) Regex {
	return AtLeast(0, r)
}

const maxRepeat = int(^uint(0) >> 1)

// Any matches exactly one atom unconditionally; it fails only at end of
// input.
var Any Regex = anyAtom{}

type anyAtom struct{}

func (anyAtom) Match(atoms []byte, start, end int) (int, bool) {
	if start >= end {
		return 0, false
	}
	return start + 1, true
}

// AnyOf matches a single atom that is one of the bytes in set.
func AnyOf(set string) Regex {
	return anyOf(set)
}

type anyOf string

func (a anyOf) Match(atoms []byte, start, end int) (int, bool) {
	if start >= end {
		return 0, false
	}
	ch := atoms[start]
	for i := 0; i < len(a); i++ {
		if a[i] == ch {
			return start + 1, true
		}
	}
	return 0, false
}

// Range matches a single atom b such that lo <= b <= hi.
func Range(lo, hi byte) Regex {
	return byteRange{lo: lo, hi: hi}
}

type byteRange struct {
	lo, hi byte
}

func (r byteRange) Match(atoms []byte, start, end int) (int, bool) {
	if start >= end {
		return 0, false
	}
	ch := atoms[start]
	if ch < r.lo || ch > r.hi {
		return 0, false
	}
	return start + 1, true
}

// Named conveniences, matching the set dpl::lower/upper/digit/etc. provide in
// the combinator library this package is modeled on.
var (
	Lower      Regex = Range('a', 'z')
	Upper      Regex = Range('A', 'Z')
	Digit      Regex = Range('0', '9')
	HexDigit   Regex = Alternatives(Digit, Range('a', 'f'), Range('A', 'F'))
	Alpha      Regex = Alternatives(Lower, Upper)
	AlphaNum   Regex = Alternatives(Alpha, Digit)
	Whitespace Regex = AnyOf(" \t\r\n\v\f")
)
