// Package ictiobus contains the lexer and parser constructs that make up this
// parser-generator: given a grammar, it produces lexers and parsers capable of
// turning source text into a parse tree for that grammar. Semantic analysis
// (turning a parse tree into some other representation) is left to the
// caller; this package stops at the parse tree.
//
// It's based off of the name for the buffalo fish due to the buffalo's relation
// with bison. Naturally, bison due to its popularity as a parser-generator
// tool.
package ictiobus

// HACKING NOTE:
//
// https://jsmachines.sourceforge.net/machines/lalr1.html is an AMAZING tool for
// validating LALR(1) grammars quickly.

import (
	"io"
	"strings"

	"github.com/dekarrin/parsegen/internal/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/parsegen/lex"
	"github.com/dekarrin/parsegen/internal/parsegen/parse"
	"github.com/dekarrin/parsegen/internal/parsegen/types"
)

type Lexer interface {
	// Lex returns a token stream. The tokens may be lexed in a lazy fashion or
	// an immediate fashion; if it is immediate, errors will be returned at that
	// point. If it is lazy, then error token productions will be returned to
	// the callers of the returned TokenStream at the point where the error
	// occured.
	Lex(input io.Reader) (types.TokenStream, error)
	RegisterClass(cl types.TokenClass, forState string)
	AddPattern(pat string, action lex.Action, forState string) error

	SetStartingState(s string)
	StartingState() string
}

type Parser interface {
	// Parse parses input text and returns the parse tree built from it, or a
	// SyntaxError with the description of the problem.
	Parse(stream types.TokenStream) (types.ParseTree, error)
}

// NewLexer returns a lexer whose Lex method will immediately lex the entire
// input source, finding errors and reporting them and stopping as soon as the
// first lexing error is encountered or the input has been completely lexed.
//
// The TokenStream returned by the Lex function is guaranteed to not have any
// error tokens.
func NewLexer() Lexer {
	return lex.NewLexer(false)
}

// NewLazyLexer returns a Lexer whose Lex method will return a TokenStream that
// is lazily executed; that is to say, calling Next() on the token stream will
// perform only enough lexical analysis to produce the next token. Additionally,
// that TokenStream may produce an error token, which parsers would need to
// handle appropriately.
func NewLazyLexer() Lexer {
	return lex.NewLexer(true)
}

// NewParser returns what is the most flexible and efficient parser in this
// package. At this time, that is the LALR(1) parser. Returns an error if the
// grammar cannot be parsed by an LALR parser.
func NewParser(g grammar.Grammar) (Parser, error) {
	return NewLALR1Parser(g)
}

// NewLALR1Parser returns an LALR(1) parser that can generate parse trees for
// the given grammar. Returns an error if the grammar is not LALR(1).
func NewLALR1Parser(g grammar.Grammar, opts ...Option) (Parser, error) {
	return parse.GenerateLALR1Parser(g, buildConfig(opts))
}

// NewLR0Parser returns a parser built from g's LR(0) automaton, with no
// lookahead at all. Returns an error if g is not LR(0); most grammars that
// are SLR(1) or stronger are not, since LR(0)'s reduce rows have no FOLLOW
// set (or any other per-terminal information) to fall back on.
func NewLR0Parser(g grammar.Grammar, opts ...Option) (Parser, error) {
	return parse.GenerateLR0Parser(g, buildConfig(opts))
}

// NewSLRParser returns an SLR(1) parser that can generate parse trees for the
// given grammar. Returns an error if the grammar is not SLR(1). If allowAmbig
// is true, shift/reduce conflicts are resolved by preferring shift and any
// ambiguity found is returned as a warning rather than an error.
func NewSLRParser(g grammar.Grammar, allowAmbig bool, opts ...Option) (Parser, []string, error) {
	return parse.GenerateSimpleLRParser(g, allowAmbig, buildConfig(opts))
}

// NewLL1Parser returns an LL(1) parser that can generate parse trees for the
// given grammar. Returns an error if the grammar is not LL(1).
func NewLL1Parser(g grammar.Grammar, opts ...Option) (Parser, error) {
	return parse.GenerateLL1Parser(g, buildConfig(opts))
}

// NewCLRParser returns a canonical-LR(1) parser that can generate parse trees
// for the given grammar. Returns an error if the grammar is not CLR(1)
func NewCLRParser(g grammar.Grammar, opts ...Option) (Parser, error) {
	return parse.GenerateCanonicalLR1Parser(g, buildConfig(opts))
}

// Frontend is a lex-then-parse compiler front-end: it turns source text into
// a parse tree for the grammar its Parser was built from. It does not
// evaluate the tree; callers that need an intermediate representation walk
// the returned types.ParseTree themselves.
type Frontend struct {
	lx Lexer
	p  Parser
}

// NewFrontend creates a Frontend that lexes with lx and parses with p.
func NewFrontend(lx Lexer, p Parser) *Frontend {
	return &Frontend{lx: lx, p: p}
}

// AnalyzeString is the same as Analyze but accepts a string as input. It simply
// creates a Reader on s and passes it to Analyze; this method is provided for
// convenience.
func (fe *Frontend) AnalyzeString(s string) (types.ParseTree, error) {
	r := strings.NewReader(s)
	return fe.Analyze(r)
}

// Analyze takes the text in reader r and performs the phases necessary to
// produce a parse tree from it: first, lexical analysis turns r into a
// stream of tokens, then syntactic analysis consumes that stream to build
// the tree.
//
// If there is a problem with the input, it will be returned in a SyntaxError
// containing information about the location where it occured in the source text
// r.
func (fe *Frontend) Analyze(r io.Reader) (types.ParseTree, error) {
	tokStream, err := fe.lx.Lex(r)
	if err != nil {
		return types.ParseTree{}, err
	}

	return fe.p.Parse(tokStream)
}
