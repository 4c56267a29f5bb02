package lex

import (
	"fmt"
	"io"
	"regexp"

	"github.com/dekarrin/parsegen/internal/parsegen/types"
)

type patAct struct {
	src string
	pat *regexp.Regexp
	act Action
}

// Lexer builds up a tokenizer from patterns and classes, then produces a
// types.TokenStream from an io.Reader. Whether Lex does its scanning
// immediately or lazily is fixed at construction time via NewLexer.
type Lexer interface {
	// Lex returns a token stream. If the lexer was created as immediate, all
	// input is scanned up front and any lexical error is returned here. If
	// lazy, scanning happens as the returned stream is consumed and a
	// lexical error surfaces as a token of class types.TokenError at the
	// point it occurs.
	Lex(input io.Reader) (types.TokenStream, error)

	// LazyLex always produces a stream that scans on demand.
	LazyLex(input io.Reader) (types.TokenStream, error)

	// ImmediatelyLex always scans all input up front.
	ImmediatelyLex(input io.Reader) (types.TokenStream, error)

	RegisterClass(cl types.TokenClass, forState string)
	AddPattern(pat string, action Action, forState string) error

	// StartingState returns the state the lexer begins in; the empty string
	// unless changed.
	StartingState() string

	// SetStartingState sets the state the lexer begins scanning in.
	SetStartingState(state string)
}

type lexerTemplate struct {
	lazy       bool
	patterns   map[string][]patAct
	startState string

	// classes by ID by state
	classes map[string]map[string]types.TokenClass
}

// NewLexer creates a new, empty Lexer. If lazy is true, the streams it
// produces scan tokens on demand; otherwise they scan all input as soon as
// Lex is called.
func NewLexer(lazy bool) Lexer {
	return &lexerTemplate{
		lazy:       lazy,
		patterns:   map[string][]patAct{},
		startState: "",
		classes:    map[string]map[string]types.TokenClass{},
	}
}

func (lx *lexerTemplate) Lex(input io.Reader) (types.TokenStream, error) {
	if lx.lazy {
		return lx.LazyLex(input)
	}
	return lx.ImmediatelyLex(input)
}

func (lx *lexerTemplate) StartingState() string {
	return lx.startState
}

func (lx *lexerTemplate) SetStartingState(state string) {
	lx.startState = state
}

// RegisterClass adds the given token class to the lexer. This will mark that
// token class as a lexable token class, and make it available for use in the
// Action of an AddPattern.
//
// If the given token class's ID() returns a string matching one already
// added, the provided one will replace the existing one.
func (lx *lexerTemplate) RegisterClass(cl types.TokenClass, forState string) {
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	stateClasses[cl.ID()] = cl
	lx.classes[forState] = stateClasses
}

func (lx *lexerTemplate) AddPattern(pat string, action Action, forState string) error {
	statePatterns, ok := lx.patterns[forState]
	if !ok {
		statePatterns = make([]patAct, 0)
	}
	stateClasses, ok := lx.classes[forState]
	if !ok {
		stateClasses = map[string]types.TokenClass{}
	}

	compiled, err := regexp.Compile(pat)
	if err != nil {
		return fmt.Errorf("cannot compile regex: %w", err)
	}

	if action.Type == ActionScan || action.Type == ActionScanAndState {
		// check class exists
		id := action.ClassID
		_, ok := stateClasses[id]
		if !ok {
			return fmt.Errorf("%q is not a defined token class on this lexer; add it with RegisterClass first", id)
		}
	}
	if action.Type == ActionState || action.Type == ActionScanAndState {
		if action.State == "" {
			return fmt.Errorf("action includes state shift but does not define state to shift to (cannot shift to empty state)")
		}
	}

	record := patAct{
		src: pat,
		pat: compiled,
		act: action,
	}
	statePatterns = append(statePatterns, record)

	lx.patterns[forState] = statePatterns
	// not modifying lx.classes so no need to set it again
	return nil
}
