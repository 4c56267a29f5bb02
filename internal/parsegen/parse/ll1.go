package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsegen/internal/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/parsegen/icterrors"
	"github.com/dekarrin/parsegen/internal/parsegen/types"
	"github.com/dekarrin/parsegen/internal/util"
)

type ll1Parser struct {
	table grammar.LL1Table
	g     grammar.Grammar
	cfg   types.Config
}

// GenerateLL1Parser generates a parser for LL1 grammar g. The grammar must
// already be LL1; it is used as given. An optional Config
// controls logging, diagnostics, and error_mode; omitting it uses
// types.DefaultConfig().
//
// The returned parser parses the input using LL(k) parsing rules on the
// context-free Grammar g (k=1). The grammar must already be LL(1); it will not
// be forced to it.
func GenerateLL1Parser(g grammar.Grammar, cfg ...types.Config) (ll1Parser, error) {
	M, err := g.LLParseTable()
	if err != nil {
		return ll1Parser{}, err
	}
	return ll1Parser{table: M, g: g.Copy(), cfg: resolveConfig(cfg)}, nil
}

func (ll1 ll1Parser) emit(d types.Diagnostic) {
	d.RunID = ll1.cfg.RunID
	if ll1.cfg.LogErrors {
		ll1.cfg.Sink.Emit(d)
	}
}

// recoverToFollow discards tokens from stream (which has already produced
// next as its current lookahead) until the lookahead is in FOLLOW(A) for
// some A remaining on stack, then pops stack and ptStack down to (and
// including the frame above) that A. Returns the new lookahead token and
// whether a synchronizing symbol was found before EOF.
func (ll1 ll1Parser) recoverToFollow(stack *util.Stack[string], ptStack *util.Stack[*types.ParseTree], stream types.TokenStream, next types.Token) (types.Token, bool) {
	for {
		termID := ll1.g.TermFor(next.Class())

		for _, sym := range stack.Of {
			if ll1.g.IsNonTerminal(sym) && ll1.g.FOLLOW(sym).Has(termID) {
				for stack.Peek() != sym {
					stack.Pop()
					ptStack.Pop()
				}
				return next, true
			}
		}

		if next.Class().ID() == types.TokenEndOfText.ID() {
			return next, false
		}

		next = stream.Next()
	}
}

func (ll1 ll1Parser) Parse(stream types.TokenStream) (types.ParseTree, error) {
	stack := util.Stack[string]{Of: []string{ll1.g.StartSymbol(), "$"}}
	next := stream.Peek()
	X := stack.Peek()
	pt := types.ParseTree{Value: ll1.g.StartSymbol()}
	ptStack := util.Stack[*types.ParseTree]{Of: []*types.ParseTree{&pt}}

	node := ptStack.Peek()
	for X != "$" { /* stack is not empty */
		if strings.ToLower(X) == X {
			stream.Next()

			// is terminals
			t := ll1.g.Term(X)
			if next.Class().ID() == t.ID() {
				node.Terminal = true
				node.Source = next
				stack.Pop()
				X = stack.Peek()
				ptStack.Pop()
				node = ptStack.Peek()
			} else {
				msg := fmt.Sprintf("There should be a %s here, but it was %q!", t.Human(), next.Lexeme())
				resolved, handled, err := ll1.handleSyntaxError(&stack, &ptStack, stream, next, msg)
				if !handled {
					return pt, err
				}
				if err != nil {
					return pt, nil
				}
				next = resolved
				X = stack.Peek()
				node = ptStack.Peek()
				continue
			}

			next = stream.Peek()
		} else {
			nextProd := ll1.table.Get(X, ll1.g.TermFor(next.Class()))
			if nextProd.Equal(grammar.Error) {
				msg := fmt.Sprintf("It doesn't make any sense to put a %q here!", next.Class().Human())
				resolved, handled, err := ll1.handleSyntaxError(&stack, &ptStack, stream, next, msg)
				if !handled {
					return pt, err
				}
				if err != nil {
					return pt, nil
				}
				next = resolved
				X = stack.Peek()
				node = ptStack.Peek()
				continue
			}

			stack.Pop()
			ptStack.Pop()
			for i := len(nextProd) - 1; i >= 0; i-- {
				if nextProd[i] != grammar.Epsilon[0] {
					stack.Push(nextProd[i])
				}

				child := &types.ParseTree{Value: nextProd[i]}
				if nextProd[i] == grammar.Epsilon[0] {
					child.Terminal = true
				}
				node.Children = append([]*types.ParseTree{child}, node.Children...)

				if nextProd[i] != grammar.Epsilon[0] {
					ptStack.Push(child)
				}
			}

			X = stack.Peek()

			// node stack will always be one smaller than symbol stack bc
			// glub, we dont put a node onto the stack for "$".
			if X != "$" {
				node = ptStack.Peek()
			}
		}
	}

	return pt, nil
}

// handleSyntaxError applies ll1.cfg.ErrorMode to a syntax error found with
// next as the offending lookahead. It returns (updatedNext, handled, err):
//   - handled=false means the caller must return (pt, err) immediately
//     (stop-at-first, or recovery failed to find a sync point).
//   - handled=true, err=nil means the caller should resume its loop with
//     updatedNext as the new lookahead and the stacks already adjusted.
//   - handled=true, err!=nil means ErrorModeIgnore: the caller should return
//     (pt, nil), halting without reporting further.
func (ll1 ll1Parser) handleSyntaxError(stack *util.Stack[string], ptStack *util.Stack[*types.ParseTree], stream types.TokenStream, next types.Token, msg string) (types.Token, bool, error) {
	synErr := icterrors.NewSyntaxErrorFromToken(msg, next)
	ll1.emit(types.Diagnostic{
		Kind:     types.DiagSyntax,
		Position: &types.Position{Line: next.Line(), Col: next.LinePos()},
		Found:    next.Lexeme(),
		Message:  msg,
	})

	switch ll1.cfg.ErrorMode {
	case types.ErrorModeIgnore:
		return next, true, synErr
	case types.ErrorModeRecoverOnFollow, types.ErrorModeRepairOnFollow:
		resolved, ok := ll1.recoverToFollow(stack, ptStack, stream, next)
		if !ok {
			return next, false, synErr
		}
		if ll1.cfg.ErrorMode == types.ErrorModeRepairOnFollow {
			if top := ptStack.Peek(); top != nil {
				top.Children = append(top.Children, &types.ParseTree{Value: "error", Terminal: true})
			}
		}
		return resolved, true, nil
	default: // ErrorModeStopAtFirst and unset
		return next, false, synErr
	}
}
