package lex

import (
	"io"

	"github.com/dekarrin/parsegen/internal/parsegen/icterrors"
	"github.com/dekarrin/parsegen/internal/parsegen/types"
)

type immediateTokenStream struct {
	tokens []types.Token
	cur    int
}

func (lx *lexerTemplate) ImmediatelyLex(input io.Reader) (types.TokenStream, error) {
	// an immediate lexer is simply a 'lazy' lexer that just, keeps going. so
	// make one of those.
	lazyCore, err := lx.LazyLex(input)
	if err != nil {
		return nil, err
	}

	lexedTokens := []types.Token{}

	for lazyCore.HasNext() {
		tok := lazyCore.Next()

		// if it's an error token, capture that and turn it into a LexError.
		// stop; do not allow panic mode to continue, lexing has failed.
		if tok.Class().ID() == types.TokenError.ID() {
			return nil, icterrors.NewLexError(tok.Lexeme(), tok.FullLine(), tok.Line(), tok.LinePos())
		}

		lexedTokens = append(lexedTokens, tok)
	}

	// and we are now done with the pre-lex.
	return &immediateTokenStream{tokens: lexedTokens}, nil
}

// Next returns the next token in the stream and advances the stream by one
// token. If at the end of the stream, this will return a token whose Class()
// is types.TokenEndOfText. The stream never holds a token whose Class() is
// types.TokenError; a lexing error makes ImmediatelyLex return a LexError
// instead of a stream.
func (lx *immediateTokenStream) Next() types.Token {
	n := lx.tokens[lx.cur]
	lx.cur++
	return n
}

// Peek returns the next token in the stream without advancing the stream.
func (lx *immediateTokenStream) Peek() types.Token {
	return lx.tokens[lx.cur]
}

// HasNext returns whether the stream has any additional tokens.
func (lx *immediateTokenStream) HasNext() bool {
	return lx.Remaining() > 0
}

func (lx *immediateTokenStream) Remaining() int {
	return len(lx.tokens) - lx.cur
}
