package parse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/parsegen/internal/parsegen/automaton"
	"github.com/dekarrin/parsegen/internal/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/parsegen/types"
	"github.com/dekarrin/parsegen/internal/util"
)

// GenerateLR0Parser returns a parser built from g's LR(0) automaton alone,
// with no lookahead of any kind. Returns an error if g is not LR(0).
//
// Unlike SLR(1), whose reduce rows are populated from FOLLOW sets, an LR(0)
// table has no symbol to consult when deciding whether to reduce: a state
// that contains a complete item reduces on every terminal, not just the ones
// in some follow set. Consequently a state may not contain both a complete
// item and a shiftable item (that would be a shift/reduce conflict with no
// way to resolve it), nor may it contain more than one complete item (a
// reduce/reduce conflict). Most grammars usable by SLR(1) are rejected here;
// §8 scenario 4 is the canonical example of a grammar SLR(1) accepts that
// LR(0) must reject.
func GenerateLR0Parser(g grammar.Grammar, cfg ...types.Config) (*lrParser, error) {
	table, err := constructLR0ParseTable(g)
	if err != nil {
		return &lrParser{}, err
	}

	return &lrParser{table: table, parseType: types.ParserLR0, gram: g, cfg: resolveConfig(cfg)}, nil
}

// constructLR0ParseTable builds the LR(0) table for g: one "default" action
// (reduce or accept) per state, used regardless of lookahead, plus shift
// actions found by following the viable-prefix automaton's transitions.
func constructLR0ParseTable(g grammar.Grammar) (LRParseTable, error) {
	lr0Automaton := automaton.NewLR0ViablePrefixNFA(g).ToDFA()
	lr0Automaton.NumberStates()

	table := &lr0Table{
		gPrime:    g.Augmented(),
		gStart:    g.StartSymbol(),
		gTerms:    g.Terminals(),
		gNonTerms: g.NonTerminals(),
		lr0:       *lr0Automaton,
		itemCache: map[string]grammar.LR0Item{},
		wildcard:  map[string]LRAction{},
	}

	for _, item := range table.gPrime.LR0Items() {
		table.itemCache[item.String()] = item
	}

	for i := range lr0Automaton.States() {
		itemSet := table.lr0.GetValue(i)

		var hasShiftable bool
		var reduceItem *grammar.LR0Item
		var acceptHere bool

		for itemStr := range itemSet {
			item := table.itemCache[itemStr]
			A := item.NonTerminal
			alpha := item.Left
			beta := item.Right

			if len(beta) > 0 && table.gPrime.IsTerminal(beta[0]) {
				hasShiftable = true
			}

			if len(beta) == 0 {
				if A == table.gPrime.StartSymbol() && len(alpha) == 1 && alpha[0] == table.gStart {
					acceptHere = true
					continue
				}
				if reduceItem != nil {
					return nil, fmt.Errorf("grammar is not LR(0): state has more than one complete item with no lookahead to choose between them (%s and %s)", reduceItem.String(), item.String())
				}
				itemCopy := item
				reduceItem = &itemCopy
			}
		}

		if acceptHere && (hasShiftable || reduceItem != nil) {
			return nil, fmt.Errorf("grammar is not LR(0): state has an accept item alongside another action with no lookahead to choose between them")
		}
		if hasShiftable && reduceItem != nil {
			return nil, fmt.Errorf("grammar is not LR(0): state has both a shiftable item and the complete item %s -> %s with no lookahead to choose between shifting and reducing", reduceItem.NonTerminal, grammar.Production(reduceItem.Left).String())
		}

		if acceptHere {
			table.wildcard[i] = LRAction{Type: LRAccept}
		} else if reduceItem != nil {
			table.wildcard[i] = LRAction{Type: LRReduce, Symbol: reduceItem.NonTerminal, Production: grammar.Production(reduceItem.Left)}
		}
	}

	return table, nil
}

// lr0Table is an LRParseTable whose reduce/accept action, once a state is
// determined to have one, is returned for any input symbol: there is exactly
// one non-shift column, not one per terminal.
type lr0Table struct {
	gPrime    grammar.Grammar
	gStart    string
	lr0       automaton.DFA[util.SVSet[grammar.LR0Item]]
	itemCache map[string]grammar.LR0Item
	gTerms    []string
	gNonTerms []string

	// wildcard holds, for each state that has one, the single reduce or
	// accept action that applies regardless of the lookahead symbol. States
	// without an entry here have only shift actions (or none at all).
	wildcard map[string]LRAction
}

func (t *lr0Table) GetDFA() automaton.DFA[string] {
	trans := automaton.TransformDFA(&t.lr0, func(old util.SVSet[grammar.LR0Item]) string {
		names := old.Elements()
		sort.Strings(names)

		var sb strings.Builder
		for idx, name := range names {
			if idx > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(old.Get(name).String())
		}
		return sb.String()
	})
	return *trans
}

func (t *lr0Table) Initial() string {
	return t.lr0.Start
}

func (t *lr0Table) Goto(state, symbol string) (string, error) {
	newState := t.lr0.Next(state, symbol)
	if newState == "" {
		return "", fmt.Errorf("GOTO[%q, %q] is an error entry", state, symbol)
	}
	return newState, nil
}

// Action ignores a when state has a wildcard entry; the whole point of a
// pure LR(0) table is that its reduce/accept rows have a single column, not
// one per terminal.
func (t *lr0Table) Action(state, a string) LRAction {
	if act, ok := t.wildcard[state]; ok {
		return act
	}

	if t.gPrime.IsTerminal(a) {
		j, err := t.Goto(state, a)
		if err == nil {
			return LRAction{Type: LRShift, State: j}
		}
	}

	return LRAction{Type: LRError}
}

func (t *lr0Table) String() string {
	stateRefs := map[string]string{}

	stateNames := t.lr0.States().Elements()
	sort.Strings(stateNames)

	for i := range stateNames {
		if stateNames[i] == t.lr0.Start {
			old := stateNames[0]
			stateNames[0] = stateNames[i]
			stateNames[i] = old
			break
		}
	}
	for i := range stateNames {
		stateRefs[stateNames[i]] = fmt.Sprintf("%d", i)
	}

	data := [][]string{}
	headers := []string{"S", "|", "A:*", "|"}
	for _, nt := range t.gNonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}
	data = append(data, headers)

	for stateIdx := range stateNames {
		i := stateNames[stateIdx]
		row := []string{stateRefs[i], "|"}

		cell := ""
		if act, ok := t.wildcard[i]; ok {
			switch act.Type {
			case LRAccept:
				cell = "acc"
			case LRReduce:
				cell = fmt.Sprintf("r%s -> %s", act.Symbol, act.Production.String())
			}
		} else {
			shifts := []string{}
			for _, term := range t.gTerms {
				if j, err := t.Goto(i, term); err == nil {
					shifts = append(shifts, fmt.Sprintf("%s:s%s", term, stateRefs[j]))
				}
			}
			cell = strings.Join(shifts, " ")
		}
		row = append(row, cell, "|")

		for _, nt := range t.gNonTerms {
			cell := ""
			if gotoState, err := t.Goto(i, nt); err == nil {
				cell = stateRefs[gotoState]
			}
			row = append(row, cell)
		}

		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
