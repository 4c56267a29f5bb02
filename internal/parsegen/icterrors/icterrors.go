// Package icterrors holds the error types produced while building and
// running a generated parser: problems with the grammar itself, problems
// lexing source text, and problems parsing the resulting token stream.
package icterrors

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsegen/internal/parsegen/types"
)

// SyntaxError is an error in the syntax of a source text being parsed. It
// carries enough context about where in the source it occurred to produce a
// caret-pointing, human-readable message.
type SyntaxError struct {
	msg     string
	line    string
	lineNum int
	linePos int
	wrap    error
}

func (e *SyntaxError) Error() string {
	return e.msg
}

// Unwrap gives the error that the SyntaxError wraps, if any.
func (e *SyntaxError) Unwrap() error {
	return e.wrap
}

// FullMessage gives a multi-line message showing the offending line of
// source text with a caret under the position the error occurred at.
func (e *SyntaxError) FullMessage() string {
	if e.line == "" {
		return e.msg
	}

	pointer := strings.Repeat(" ", e.linePos-1) + "^"
	return fmt.Sprintf("line %d: %s\n%s\n%s", e.lineNum, e.msg, e.line, pointer)
}

// NewSyntaxError creates a new SyntaxError with the given message and source
// position info.
func NewSyntaxError(msg string, fullLine string, lineNum int, linePos int) *SyntaxError {
	return &SyntaxError{
		msg:     msg,
		line:    fullLine,
		lineNum: lineNum,
		linePos: linePos,
	}
}

// NewSyntaxErrorFromToken creates a new SyntaxError describing a problem
// found at the given token, using the token's recorded source position.
func NewSyntaxErrorFromToken(msg string, tok types.Token) *SyntaxError {
	return NewSyntaxError(msg, tok.FullLine(), tok.Line(), tok.LinePos())
}

// GrammarError is an error in the definition of a grammar, as opposed to an
// error in text being parsed by a parser built from one. It is returned by
// grammar validation and parser construction, never while parsing.
type GrammarError struct {
	msg  string
	wrap error
}

func (e *GrammarError) Error() string {
	return e.msg
}

func (e *GrammarError) Unwrap() error {
	return e.wrap
}

// NewGrammarError creates a new GrammarError with the given message.
func NewGrammarError(msg string) *GrammarError {
	return &GrammarError{msg: msg}
}

// NewGrammarErrorf is the same as NewGrammarError but builds the message from
// a format string and arguments.
func NewGrammarErrorf(format string, a ...interface{}) *GrammarError {
	return NewGrammarError(fmt.Sprintf(format, a...))
}

// WrapGrammarError is the same as NewGrammarError but wraps the given error.
func WrapGrammarError(e error, msg string) *GrammarError {
	return &GrammarError{msg: msg, wrap: e}
}

// LexError is an error encountered while lexing source text into tokens; it
// is distinct from a SyntaxError in that it describes a problem with the
// lexeme itself rather than where it sits relative to a grammar.
type LexError struct {
	msg     string
	line    string
	lineNum int
	linePos int
}

func (e *LexError) Error() string {
	return e.msg
}

// FullMessage gives a multi-line message showing the offending line of
// source text with a caret under the position the error occurred at.
func (e *LexError) FullMessage() string {
	if e.line == "" {
		return e.msg
	}

	pointer := strings.Repeat(" ", e.linePos-1) + "^"
	return fmt.Sprintf("line %d: %s\n%s\n%s", e.lineNum, e.msg, e.line, pointer)
}

// NewLexError creates a new LexError with the given message and source
// position info.
func NewLexError(msg string, fullLine string, lineNum int, linePos int) *LexError {
	return &LexError{
		msg:     msg,
		line:    fullLine,
		lineNum: lineNum,
		linePos: linePos,
	}
}

// NewLexErrorFromToken creates a new LexError describing a problem found at
// the given (error-class) token, using its recorded source position.
func NewLexErrorFromToken(msg string, tok types.Token) *LexError {
	return NewLexError(msg, tok.FullLine(), tok.Line(), tok.LinePos())
}
