// Package grammar implements representation and analysis of context-free
// grammars: productions, FIRST/FOLLOW set computation, the classic
// normalization passes (epsilon removal, unit production removal, left
// recursion removal, left factoring), and the LR(0)/LR(1) item machinery
// shared by the bottom-up table generators in package parse.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsegen/internal/parsegen/icterrors"
	"github.com/dekarrin/parsegen/internal/parsegen/types"
	"github.com/dekarrin/parsegen/internal/util"
)

// Production is the right-hand side of a rule: an ordered sequence of
// terminal and non-terminal symbols. An epsilon production is represented as
// Production{""} (equal to Epsilon), never as a nil/empty slice.
type Production []string

// Epsilon is the production representing the empty string.
var Epsilon = Production{""}

// Error is a sentinel Production returned by parse table lookups to signal
// "no entry here". It is distinguishable from Epsilon by length.
var Error Production = nil

func (p Production) String() string {
	if len(p) == 0 {
		return "ε"
	}
	if len(p) == 1 && p[0] == "" {
		return "ε"
	}
	return strings.Join(p, " ")
}

// Equal compares p to another Production (or a value convertible to one).
func (p Production) Equal(o any) bool {
	other, ok := o.(Production)
	if !ok {
		otherPtr, ok := o.(*Production)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Rule is the set of productions (alternatives) for a single non-terminal.
type Rule struct {
	NonTerminal string
	Productions []Production
}

func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.NonTerminal)
	sb.WriteString(" -> ")
	for i, p := range r.Productions {
		if i > 0 {
			sb.WriteString(" | ")
		}
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Equal compares r to another Rule, order-sensitive on Productions (priority
// between alternatives matters to an LL/LR driver, so two rules whose
// alternatives are merely a reordering of each other are NOT considered
// equal here).
func (r Rule) Equal(o any) bool {
	other, ok := o.(Rule)
	if !ok {
		otherPtr, ok := o.(*Rule)
		if !ok {
			return false
		}
		if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if r.NonTerminal != other.NonTerminal {
		return false
	}
	if len(r.Productions) != len(other.Productions) {
		return false
	}
	for i := range r.Productions {
		if !r.Productions[i].Equal(other.Productions[i]) {
			return false
		}
	}
	return true
}

// Assoc is the associativity declared for a terminal, used to break
// shift/reduce conflicts that arise between productions and terminals of
// equal precedence.
type Assoc string

const (
	// AssocNone means the terminal has no declared associativity. A
	// shift/reduce conflict at equal precedence with AssocNone cannot be
	// resolved and is reported as a grammar error.
	AssocNone Assoc = "none"

	// AssocLeft resolves an equal-precedence shift/reduce conflict in favor
	// of reducing, so operators of that precedence group to the left.
	AssocLeft Assoc = "left"

	// AssocRight resolves an equal-precedence shift/reduce conflict in favor
	// of shifting, so operators of that precedence group to the right.
	AssocRight Assoc = "right"
)

// termPrec is a single precedence declaration: a level (higher binds
// tighter) plus the associativity to use when two items of that level
// collide.
type termPrec struct {
	level int
	assoc Assoc
}

// Grammar is a context-free grammar: an ordered sequence of rules over a set
// of declared terminals. The zero value is an empty grammar ready for use.
// The start symbol is always the non-terminal of the first rule added.
type Grammar struct {
	rules         []Rule
	rulesByName   map[string]int
	terminals     map[string]types.TokenClass
	terminalOrder []string

	// precedence holds the declared precedence/associativity of terminals,
	// as set by SetTerminalPrecedence. Terminals absent from this map have
	// no declared precedence.
	precedence map[string]termPrec

	// prodPrecOverride holds explicit %prec-style overrides keyed by
	// precedenceKey(nonTerminal, production); it takes priority over the
	// rightmost-terminal inference ProductionPrecedence otherwise performs.
	prodPrecOverride map[string]termPrec
}

// precedenceKey builds the map key used by prodPrecOverride.
func precedenceKey(nonTerminal string, p Production) string {
	return nonTerminal + " -> " + p.String()
}

// SetTerminalPrecedence declares the precedence level and associativity of
// terminal. Higher levels bind tighter. Calling this again for the same
// terminal overwrites the previous declaration.
func (g *Grammar) SetTerminalPrecedence(terminal string, level int, assoc Assoc) {
	if g.precedence == nil {
		g.precedence = map[string]termPrec{}
	}
	g.precedence[terminal] = termPrec{level: level, assoc: assoc}
}

// TerminalPrecedence returns the declared precedence level and associativity
// of terminal. ok is false if terminal has no declared precedence.
func (g Grammar) TerminalPrecedence(terminal string) (level int, assoc Assoc, ok bool) {
	tp, ok := g.precedence[terminal]
	if !ok {
		return 0, AssocNone, false
	}
	return tp.level, tp.assoc, true
}

// SetProductionPrecedence overrides the precedence used by ProductionPrecedence
// for the given nonTerminal -> production rule, corresponding to yacc's
// "%prec" directive. Use this when a production's precedence should not be
// inferred from its rightmost terminal (e.g. unary minus).
func (g *Grammar) SetProductionPrecedence(nonTerminal string, p Production, level int, assoc Assoc) {
	if g.prodPrecOverride == nil {
		g.prodPrecOverride = map[string]termPrec{}
	}
	g.prodPrecOverride[precedenceKey(nonTerminal, p)] = termPrec{level: level, assoc: assoc}
}

// ProductionPrecedence returns the precedence and associativity used to
// resolve a reduce of nonTerminal -> p against a competing shift, per §4.8:
// an explicit SetProductionPrecedence override takes priority; otherwise the
// precedence of the rightmost terminal in p is used, yacc-style. ok is false
// if neither an override nor a terminal in p carries declared precedence.
func (g Grammar) ProductionPrecedence(nonTerminal string, p Production) (level int, assoc Assoc, ok bool) {
	if tp, has := g.prodPrecOverride[precedenceKey(nonTerminal, p)]; has {
		return tp.level, tp.assoc, true
	}
	for i := len(p) - 1; i >= 0; i-- {
		if tp, has := g.precedence[p[i]]; has && g.IsTerminal(p[i]) {
			return tp.level, tp.assoc, true
		}
	}
	return 0, AssocNone, false
}

// AddTerm declares a terminal with the given ID and token class. Calling it
// again with an ID already present overwrites the associated class but does
// not change declaration order.
func (g *Grammar) AddTerm(id string, class types.TokenClass) {
	if g.terminals == nil {
		g.terminals = map[string]types.TokenClass{}
	}
	if _, ok := g.terminals[id]; !ok {
		g.terminalOrder = append(g.terminalOrder, id)
	}
	g.terminals[id] = class
}

// AddRule appends production as a new alternative for nonTerminal, creating
// the rule (and assigning it a start-symbol-eligible slot in declaration
// order) if this is the first production seen for it.
func (g *Grammar) AddRule(nonTerminal string, production Production) {
	idx := g.ruleIndex(nonTerminal, true)
	g.rules[idx].Productions = append(g.rules[idx].Productions, production)
}

// replaceProductions overwrites all existing alternatives for nonTerminal.
func (g *Grammar) replaceProductions(nonTerminal string, prods []Production) {
	idx := g.ruleIndex(nonTerminal, true)
	g.rules[idx].Productions = prods
}

func (g *Grammar) ruleIndex(nonTerminal string, create bool) int {
	if g.rulesByName == nil {
		g.rulesByName = map[string]int{}
	}
	idx, ok := g.rulesByName[nonTerminal]
	if !ok {
		if !create {
			return -1
		}
		g.rules = append(g.rules, Rule{NonTerminal: nonTerminal})
		idx = len(g.rules) - 1
		g.rulesByName[nonTerminal] = idx
	}
	return idx
}

// Rule returns the Rule for name, or an empty Rule with no productions if
// name has not been added.
func (g Grammar) Rule(name string) Rule {
	idx, ok := g.rulesByName[name]
	if !ok {
		return Rule{NonTerminal: name}
	}
	return g.rules[idx]
}

// NonTerminals returns the grammar's non-terminals in declaration order.
func (g Grammar) NonTerminals() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.NonTerminal
	}
	return names
}

// Terminals returns the grammar's terminal IDs in declaration order.
func (g Grammar) Terminals() []string {
	return append([]string{}, g.terminalOrder...)
}

// Term returns the token class registered under id.
func (g Grammar) Term(id string) types.TokenClass {
	return g.terminals[id]
}

// TermFor returns the terminal ID registered for class, the reverse of Term.
func (g Grammar) TermFor(class types.TokenClass) string {
	for _, id := range g.terminalOrder {
		if g.terminals[id] != nil && g.terminals[id].Equal(class) {
			return id
		}
	}
	return ""
}

// StartSymbol returns the non-terminal of the first rule added to g, or "" if
// g has no rules.
func (g Grammar) StartSymbol() string {
	if len(g.rules) == 0 {
		return ""
	}
	return g.rules[0].NonTerminal
}

// IsTerminal returns whether sym has been declared as a terminal.
func (g Grammar) IsTerminal(sym string) bool {
	_, ok := g.terminals[sym]
	return ok
}

// IsNonTerminal returns whether sym names a rule in g.
func (g Grammar) IsNonTerminal(sym string) bool {
	_, ok := g.rulesByName[sym]
	return ok
}

func (g Grammar) copyTerminals() map[string]types.TokenClass {
	if g.terminals == nil {
		return nil
	}
	cp := make(map[string]types.TokenClass, len(g.terminals))
	for k, v := range g.terminals {
		cp[k] = v
	}
	return cp
}

// Copy returns a deep copy of g.
func (g Grammar) Copy() Grammar {
	newG := Grammar{}
	newG.terminals = g.copyTerminals()
	newG.terminalOrder = append([]string{}, g.terminalOrder...)
	newG.rules = make([]Rule, len(g.rules))
	for i, r := range g.rules {
		newProds := make([]Production, len(r.Productions))
		for j, p := range r.Productions {
			newProds[j] = append(Production{}, p...)
		}
		newG.rules[i] = Rule{NonTerminal: r.NonTerminal, Productions: newProds}
	}
	newG.rulesByName = map[string]int{}
	for i, r := range newG.rules {
		newG.rulesByName[r.NonTerminal] = i
	}
	if g.precedence != nil {
		newG.precedence = make(map[string]termPrec, len(g.precedence))
		for k, v := range g.precedence {
			newG.precedence[k] = v
		}
	}
	if g.prodPrecOverride != nil {
		newG.prodPrecOverride = make(map[string]termPrec, len(g.prodPrecOverride))
		for k, v := range g.prodPrecOverride {
			newG.prodPrecOverride[k] = v
		}
	}
	return newG
}

// String renders every rule of g, one per line.
func (g Grammar) String() string {
	var sb strings.Builder
	for i, r := range g.rules {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

// Validate checks that g has at least one rule, at least one declared
// terminal, and that every symbol used in a production is either a declared
// terminal or a declared non-terminal.
// Validate checks g for the structural problems table construction cannot
// recover from: no rules, no terminals, or a production referencing a symbol
// that is neither a declared terminal nor the head of some rule. Returns a
// *icterrors.GrammarError (nil on success) so callers can extract structured
// detail rather than matching on an error string.
func (g Grammar) Validate() *icterrors.GrammarError {
	if len(g.rules) == 0 {
		return icterrors.NewGrammarError("grammar has no rules")
	}
	if len(g.terminalOrder) == 0 {
		return icterrors.NewGrammarError("grammar has no terminals")
	}
	for _, r := range g.rules {
		for _, prod := range r.Productions {
			for _, sym := range prod {
				if sym == Epsilon[0] {
					continue
				}
				if !g.IsTerminal(sym) && !g.IsNonTerminal(sym) {
					return icterrors.NewGrammarErrorf("rule %q references undefined symbol %q", r.NonTerminal, sym)
				}
			}
		}
	}
	return nil
}

func uniqueSymbolName(base string, taken func(string) bool) string {
	name := base
	for taken(name) {
		name += "-P"
	}
	return name
}

// Augmented returns a copy of g with a new start symbol S' added, whose sole
// production is S' -> S where S is g's original start symbol. The new
// symbol's name is g.StartSymbol() with "-P" appended (more if that name is
// already taken).
func (g Grammar) Augmented() Grammar {
	if len(g.rules) == 0 {
		return g.Copy()
	}

	newStart := uniqueSymbolName(g.StartSymbol()+"-P", g.IsNonTerminal)

	gPrime := g.Copy()
	startRule := Rule{NonTerminal: newStart, Productions: []Production{{g.StartSymbol()}}}
	gPrime.rules = append([]Rule{startRule}, gPrime.rules...)
	gPrime.rulesByName = map[string]int{}
	for i, r := range gPrime.rules {
		gPrime.rulesByName[r.NonTerminal] = i
	}
	return gPrime
}

// GenerateUniqueTerminal returns a symbol name, based on prefix, that is not
// currently used as a terminal or non-terminal name within g.
func (g Grammar) GenerateUniqueTerminal(prefix string) string {
	return uniqueSymbolName(prefix, func(n string) bool {
		return g.IsTerminal(n) || g.IsNonTerminal(n) || n == "$"
	})
}

// ----------------------------------------------------------------------
// Rule string parsing
// ----------------------------------------------------------------------

// ParseRule parses a string of the form "NAME -> alt1 sym sym | alt2 | ε",
// where continuation lines (after the first) may optionally begin with "|".
func ParseRule(s string) (Rule, error) {
	lines := strings.Split(s, "\n")

	var combined strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if combined.Len() > 0 {
			combined.WriteRune(' ')
		}
		combined.WriteString(line)
	}

	full := strings.TrimSpace(combined.String())
	full = strings.TrimSuffix(full, ";")

	arrowIdx := strings.Index(full, "->")
	if arrowIdx < 0 {
		return Rule{}, fmt.Errorf("not a valid rule, missing '->': %q", s)
	}

	nonTerm := strings.TrimSpace(full[:arrowIdx])
	if nonTerm == "" {
		return Rule{}, fmt.Errorf("empty nonterminal name not allowed for rule")
	}

	rest := full[arrowIdx+2:]

	altStrs := strings.Split(rest, "|")
	var prods []Production
	for _, altStr := range altStrs {
		altStr = strings.TrimSpace(altStr)
		symbols := strings.Fields(altStr)

		var prod Production
		isEpsilon := len(symbols) == 0
		for _, sym := range symbols {
			if sym == "ε" {
				isEpsilon = true
				break
			}
			prod = append(prod, sym)
		}
		if isEpsilon {
			prod = Epsilon
		}

		prods = append(prods, prod)
	}

	return Rule{NonTerminal: nonTerm, Productions: prods}, nil
}

// MustParseRule is like ParseRule but panics on error.
func MustParseRule(s string) Rule {
	r, err := ParseRule(s)
	if err != nil {
		panic(err.Error())
	}
	return r
}

func mustParseRule(s string) Rule {
	return MustParseRule(s)
}

// Parse parses a whole grammar given as a series of ";"-terminated rules.
// Any symbol appearing in a production that is not also the non-terminal of
// some rule is automatically declared as a terminal, in order of first
// appearance, using types.MakeDefaultClass.
func Parse(s string) (Grammar, error) {
	var rules []Rule

	for _, seg := range strings.Split(s, ";") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		r, err := ParseRule(seg)
		if err != nil {
			return Grammar{}, err
		}
		rules = append(rules, r)
	}

	nonTermNames := map[string]bool{}
	for _, r := range rules {
		nonTermNames[r.NonTerminal] = true
	}

	var termOrder []string
	seenTerm := map[string]bool{}
	for _, r := range rules {
		for _, p := range r.Productions {
			for _, sym := range p {
				if sym == Epsilon[0] || nonTermNames[sym] || seenTerm[sym] {
					continue
				}
				seenTerm[sym] = true
				termOrder = append(termOrder, sym)
			}
		}
	}

	g := Grammar{}
	for _, t := range termOrder {
		class := types.MakeDefaultClass(t)
		g.AddTerm(class.ID(), class)
	}
	for _, r := range rules {
		for _, p := range r.Productions {
			g.AddRule(r.NonTerminal, p)
		}
	}

	return g, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Grammar {
	g, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return g
}

// ----------------------------------------------------------------------
// FIRST / FOLLOW
// ----------------------------------------------------------------------

// firstStarUsing computes FIRST*(symbols), i.e. the set of terminals (plus
// Epsilon if the whole sequence can derive the empty string) that can begin
// a string derived from symbols, using an already-computed FIRST table for
// non-terminals.
func firstStarUsing(symbols []string, g Grammar, firsts map[string]util.StringSet) util.StringSet {
	if len(symbols) == 0 {
		return util.StringSetOf([]string{Epsilon[0]})
	}

	first := symbols[0]

	if first == Epsilon[0] {
		if len(symbols) == 1 {
			return util.StringSetOf([]string{Epsilon[0]})
		}
		return firstStarUsing(symbols[1:], g, firsts)
	}

	if !g.IsNonTerminal(first) {
		// terminal (declared or not, e.g. "$")
		return util.StringSetOf([]string{first})
	}

	firstOfFirst, ok := firsts[first]
	if !ok {
		firstOfFirst = util.NewStringSet()
	}

	result := util.NewStringSet()
	hasEpsilon := false
	for _, s := range firstOfFirst.Elements() {
		if s == Epsilon[0] {
			hasEpsilon = true
			continue
		}
		result.Add(s)
	}

	if hasEpsilon {
		result.AddAll(firstStarUsing(symbols[1:], g, firsts))
	}

	return result
}

// allFirsts computes FIRST(A) for every non-terminal A of g via fixed point.
func (g Grammar) allFirsts() map[string]util.StringSet {
	firsts := map[string]util.StringSet{}
	for _, nt := range g.NonTerminals() {
		firsts[nt] = util.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.NonTerminals() {
			for _, prod := range g.Rule(nt).Productions {
				before := firsts[nt].Len()
				fstar := firstStarUsing(prod, g, firsts)
				firsts[nt].AddAll(fstar)
				if firsts[nt].Len() != before {
					changed = true
				}
			}
		}
	}

	return firsts
}

// FIRST returns the FIRST set of the grammar symbol sym: the set of
// terminals (and, if sym can derive the empty string, Epsilon) that can
// begin a string derived from sym.
func (g Grammar) FIRST(sym string) util.ISet[string] {
	if sym == Epsilon[0] {
		return util.StringSetOf([]string{Epsilon[0]})
	}
	if !g.IsNonTerminal(sym) {
		return util.StringSetOf([]string{sym})
	}

	firsts := g.allFirsts()
	if set, ok := firsts[sym]; ok {
		return set
	}
	return util.NewStringSet()
}

// firstStar computes FIRST*(symbols) against the full fixed point of g's
// FIRST sets.
func (g Grammar) firstStar(symbols []string) util.StringSet {
	firsts := g.allFirsts()
	return firstStarUsing(symbols, g, firsts)
}

// allFollows computes FOLLOW(X) for every grammar symbol X (terminal and
// non-terminal alike) that appears anywhere in g, via fixed point.
func (g Grammar) allFollows() map[string]util.StringSet {
	firsts := g.allFirsts()
	follows := map[string]util.StringSet{}

	ensure := func(sym string) {
		if _, ok := follows[sym]; !ok {
			follows[sym] = util.NewStringSet()
		}
	}

	for _, nt := range g.NonTerminals() {
		ensure(nt)
		for _, prod := range g.Rule(nt).Productions {
			for _, sym := range prod {
				if sym == Epsilon[0] {
					continue
				}
				ensure(sym)
			}
		}
	}

	if start := g.StartSymbol(); start != "" {
		ensure(start)
		follows[start].Add("$")
	}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.NonTerminals() {
			for _, prod := range g.Rule(nt).Productions {
				for i, sym := range prod {
					if sym == Epsilon[0] {
						continue
					}

					rest := prod[i+1:]
					fstar := firstStarUsing(rest, g, firsts)

					before := follows[sym].Len()
					hasEpsilon := false
					for _, s := range fstar.Elements() {
						if s == Epsilon[0] {
							hasEpsilon = true
							continue
						}
						follows[sym].Add(s)
					}

					if hasEpsilon {
						follows[sym].AddAll(follows[nt])
					}

					if follows[sym].Len() != before {
						changed = true
					}
				}
			}
		}
	}

	return follows
}

// FOLLOW returns the FOLLOW set of grammar symbol sym: the set of terminals
// that can immediately follow sym in some derivation from the start symbol.
func (g Grammar) FOLLOW(sym string) util.ISet[string] {
	follows := g.allFollows()
	if set, ok := follows[sym]; ok {
		return set
	}
	return util.NewStringSet()
}

// ----------------------------------------------------------------------
// LL(1)
// ----------------------------------------------------------------------

// LL1Table is a predictive parse table: for each (non-terminal, terminal)
// pair, the production to apply, or Error if there is none.
type LL1Table map[string]map[string]Production

// Get returns the production for M[nt, term], or Error if there isn't one.
func (t LL1Table) Get(nt, term string) Production {
	row, ok := t[nt]
	if !ok {
		return Error
	}
	prod, ok := row[term]
	if !ok {
		return Error
	}
	return prod
}

// NonTerminals returns the non-terminals that have rows in the table.
func (t LL1Table) NonTerminals() []string {
	names := make([]string, 0, len(t))
	for k := range t {
		names = append(names, k)
	}
	return names
}

// Terminals returns the set of terminals that appear in any row of the
// table.
func (t LL1Table) Terminals() []string {
	seen := map[string]bool{}
	var out []string
	for _, row := range t {
		for term := range row {
			if !seen[term] {
				seen[term] = true
				out = append(out, term)
			}
		}
	}
	return out
}

func (t LL1Table) String() string {
	var sb strings.Builder
	nts := t.NonTerminals()
	for i, nt := range nts {
		if i > 0 {
			sb.WriteRune('\n')
		}
		row := t[nt]
		sb.WriteString(nt)
		sb.WriteString(": ")
		first := true
		for term, prod := range row {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&sb, "%s=%s", term, prod.String())
		}
	}
	return sb.String()
}

// LLParseTable builds the LL(1) predictive parse table for g. It returns an
// error if g is not LL(1) (some cell would need more than one production).
func (g Grammar) LLParseTable() (LL1Table, error) {
	firsts := g.allFirsts()
	follows := g.allFollows()

	table := LL1Table{}
	for _, nt := range g.NonTerminals() {
		table[nt] = map[string]Production{}
	}

	for _, nt := range g.NonTerminals() {
		for _, prod := range g.Rule(nt).Productions {
			fstar := firstStarUsing(prod, g, firsts)

			hasEpsilon := false
			for _, a := range fstar.Elements() {
				if a == Epsilon[0] {
					hasEpsilon = true
					continue
				}
				if existing, ok := table[nt][a]; ok && !existing.Equal(prod) {
					return nil, fmt.Errorf("grammar is not LL(1): conflicting productions for M[%s, %s]", nt, a)
				}
				table[nt][a] = prod
			}

			if hasEpsilon {
				for _, b := range follows[nt].Elements() {
					if existing, ok := table[nt][b]; ok && !existing.Equal(prod) {
						return nil, fmt.Errorf("grammar is not LL(1): conflicting productions for M[%s, %s]", nt, b)
					}
					table[nt][b] = prod
				}
			}
		}
	}

	return table, nil
}

// IsLL1 returns whether g is an LL(1) grammar.
func (g Grammar) IsLL1() bool {
	_, err := g.LLParseTable()
	return err == nil
}

// ----------------------------------------------------------------------
// Normalization passes
// ----------------------------------------------------------------------

func (g Grammar) nullableSet() map[string]bool {
	nullable := map[string]bool{}

	changed := true
	for changed {
		changed = false
		for _, nt := range g.NonTerminals() {
			if nullable[nt] {
				continue
			}
			for _, prod := range g.Rule(nt).Productions {
				if prod.Equal(Epsilon) {
					nullable[nt] = true
					changed = true
					break
				}
				allNullable := len(prod) > 0
				for _, sym := range prod {
					if !nullable[sym] {
						allNullable = false
						break
					}
				}
				if allNullable {
					nullable[nt] = true
					changed = true
					break
				}
			}
		}
	}

	return nullable
}

// RemoveEpsilons returns a grammar equivalent to g but with no epsilon
// productions, following the standard construction (purple dragon book
// §4.3): for every production, every combination of dropping its nullable
// symbols is generated, except the combination that drops every symbol
// (which would just be another epsilon production). Literal epsilon
// productions are dropped outright.
func (g Grammar) RemoveEpsilons() Grammar {
	nullable := g.nullableSet()

	newG := Grammar{}
	newG.terminals = g.copyTerminals()
	newG.terminalOrder = append([]string{}, g.terminalOrder...)

	for _, nt := range g.NonTerminals() {
		newG.ruleIndex(nt, true)

		seen := map[string]bool{}
		for _, prod := range g.Rule(nt).Productions {
			if prod.Equal(Epsilon) {
				continue
			}

			var nullablePositions []int
			for i, sym := range prod {
				if nullable[sym] {
					nullablePositions = append(nullablePositions, i)
				}
			}

			k := len(nullablePositions)
			total := 1 << uint(k)
			for count := 0; count < total; count++ {
				drop := map[int]bool{}
				for i := 0; i < k; i++ {
					if count&(1<<uint(i)) != 0 {
						drop[nullablePositions[i]] = true
					}
				}

				var newProd Production
				for i, sym := range prod {
					if drop[i] {
						continue
					}
					newProd = append(newProd, sym)
				}

				if len(newProd) == 0 {
					continue
				}
				if seen[newProd.String()] {
					continue
				}
				seen[newProd.String()] = true

				newG.AddRule(nt, newProd)
			}
		}
	}

	return newG
}

func isUnitProduction(p Production, g Grammar) bool {
	return len(p) == 1 && g.IsNonTerminal(p[0])
}

// unitClosure returns nt and every non-terminal reachable from it by a chain
// of unit productions (A -> B where B is a lone non-terminal).
func (g Grammar) unitClosure(nt string) []string {
	visited := map[string]bool{nt: true}
	queue := []string{nt}
	order := []string{nt}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, prod := range g.Rule(cur).Productions {
			if isUnitProduction(prod, g) {
				b := prod[0]
				if !visited[b] {
					visited[b] = true
					queue = append(queue, b)
					order = append(order, b)
				}
			}
		}
	}

	return order
}

// RemoveUnitProductions returns a grammar equivalent to g with no unit
// productions (A -> B for a lone non-terminal B), per purple dragon book
// Algorithm 4.9.
func (g Grammar) RemoveUnitProductions() Grammar {
	newG := Grammar{}
	newG.terminals = g.copyTerminals()
	newG.terminalOrder = append([]string{}, g.terminalOrder...)

	for _, nt := range g.NonTerminals() {
		newG.ruleIndex(nt, true)

		seen := map[string]bool{}
		visited := map[string]bool{nt: true}
		var expand func(b string)
		expand = func(b string) {
			for _, prod := range g.Rule(b).Productions {
				if isUnitProduction(prod, g) {
					if !visited[prod[0]] {
						visited[prod[0]] = true
						expand(prod[0])
					}
					continue
				}
				key := prod.String()
				if seen[key] {
					continue
				}
				seen[key] = true
				newG.AddRule(nt, prod)
			}
		}
		expand(nt)
	}

	return newG.pruneUnreachable()
}

// pruneUnreachable returns a copy of g containing only the rules reachable
// from the start symbol.
func (g Grammar) pruneUnreachable() Grammar {
	start := g.StartSymbol()
	visited := map[string]bool{}
	var queue []string
	if start != "" {
		visited[start] = true
		queue = append(queue, start)
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, prod := range g.Rule(cur).Productions {
			for _, sym := range prod {
				if g.IsNonTerminal(sym) && !visited[sym] {
					visited[sym] = true
					queue = append(queue, sym)
				}
			}
		}
	}

	newG := Grammar{}
	newG.terminals = g.copyTerminals()
	newG.terminalOrder = append([]string{}, g.terminalOrder...)
	for _, nt := range g.NonTerminals() {
		if !visited[nt] {
			continue
		}
		for _, prod := range g.Rule(nt).Productions {
			newG.AddRule(nt, prod)
		}
	}
	return newG
}

// RemoveLeftRecursion returns a grammar equivalent to g with no left
// recursion, direct or indirect, per purple dragon book Algorithm 4.19. It
// first removes epsilon productions, since the substitution step requires an
// epsilon-free grammar to behave correctly. Non-terminals are processed in
// the reverse of their declaration order; any non-terminal left unreferenced
// by the result (because every one of its occurrences got inlined via
// substitution) is pruned.
func (g Grammar) RemoveLeftRecursion() Grammar {
	g = g.RemoveEpsilons()

	order := append([]string{}, g.NonTerminals()...)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	working := g.Copy()

	for i, Ai := range order {
		for j := 0; j < i; j++ {
			Aj := order[j]

			var newProds []Production
			changed := false
			for _, prod := range working.Rule(Ai).Productions {
				if len(prod) > 0 && prod[0] == Aj {
					changed = true
					for _, sub := range working.Rule(Aj).Productions {
						combined := append(append(Production{}, sub...), prod[1:]...)
						newProds = append(newProds, combined)
					}
				} else {
					newProds = append(newProds, prod)
				}
			}
			if changed {
				working.replaceProductions(Ai, newProds)
			}
		}

		var recursive, nonRecursive []Production
		for _, prod := range working.Rule(Ai).Productions {
			if len(prod) > 0 && prod[0] == Ai {
				recursive = append(recursive, prod[1:])
			} else {
				nonRecursive = append(nonRecursive, prod)
			}
		}

		if len(recursive) == 0 {
			continue
		}

		if len(nonRecursive) == 0 {
			// Every alternative is immediately left-recursive: there is no
			// terminal-anchored base case to split off, so fold the
			// recursion back into Ai itself rather than introducing an
			// equivalent but redundant Ai-P.
			var newProds []Production
			for _, alpha := range recursive {
				newProds = append(newProds, append(append(Production{}, alpha...), Ai))
			}
			newProds = append(newProds, Epsilon)
			working.replaceProductions(Ai, newProds)
			continue
		}

		newNT := uniqueSymbolName(Ai+"-P", working.IsNonTerminal)

		var baseProds []Production
		for _, beta := range nonRecursive {
			baseProds = append(baseProds, append(append(Production{}, beta...), newNT))
		}
		working.replaceProductions(Ai, baseProds)

		var tailProds []Production
		for _, alpha := range recursive {
			tailProds = append(tailProds, append(append(Production{}, alpha...), newNT))
		}
		tailProds = append(tailProds, Epsilon)
		working.replaceProductions(newNT, tailProds)
	}

	return working.pruneUnreachable()
}

func commonPrefixLen(prods []Production) int {
	minLen := len(prods[0])
	for _, p := range prods[1:] {
		if len(p) < minLen {
			minLen = len(p)
		}
	}

	for l := minLen; l > 0; l-- {
		match := true
		for _, p := range prods[1:] {
			for i := 0; i < l; i++ {
				if p[i] != prods[0][i] {
					match = false
					break
				}
			}
			if !match {
				break
			}
		}
		if match {
			return l
		}
	}

	return 0
}

// LeftFactor returns a grammar equivalent to g with productions sharing a
// common prefix factored out into a new helper non-terminal, per purple
// dragon book Algorithm 4.21.
func (g Grammar) LeftFactor() Grammar {
	newG := Grammar{}
	newG.terminals = g.copyTerminals()
	newG.terminalOrder = append([]string{}, g.terminalOrder...)

	for _, nt := range g.NonTerminals() {
		newG.ruleIndex(nt, true)

		prods := g.Rule(nt).Productions

		groups := map[string][]Production{}
		var groupOrder []string
		for _, p := range prods {
			var key string
			if len(p) > 0 {
				key = p[0]
			}
			if _, ok := groups[key]; !ok {
				groupOrder = append(groupOrder, key)
			}
			groups[key] = append(groups[key], p)
		}

		for _, key := range groupOrder {
			group := groups[key]

			if len(group) < 2 || key == "" {
				for _, p := range group {
					newG.AddRule(nt, p)
				}
				continue
			}

			prefixLen := commonPrefixLen(group)
			if prefixLen == 0 {
				for _, p := range group {
					newG.AddRule(nt, p)
				}
				continue
			}

			prefix := group[0][:prefixLen]
			newNT := uniqueSymbolName(nt+"-P", func(n string) bool {
				return g.IsNonTerminal(n) || newG.IsNonTerminal(n)
			})

			factored := append(append(Production{}, prefix...), newNT)
			newG.AddRule(nt, factored)

			for _, p := range group {
				suffix := p[prefixLen:]
				if len(suffix) == 0 {
					newG.AddRule(newNT, Epsilon)
				} else {
					newG.AddRule(newNT, append(Production{}, suffix...))
				}
			}
		}
	}

	return newG
}

// ----------------------------------------------------------------------
// LR(0) / LR(1) item construction
// ----------------------------------------------------------------------

// LR0Items returns every LR(0) item derivable from g's productions: for each
// production, one item per dot position from 0 to the production's length.
func (g Grammar) LR0Items() []LR0Item {
	var items []LR0Item
	for _, nt := range g.NonTerminals() {
		for _, prod := range g.Rule(nt).Productions {
			for dot := 0; dot <= len(prod); dot++ {
				items = append(items, LR0Item{
					NonTerminal: nt,
					Left:        append([]string{}, prod[:dot]...),
					Right:       append([]string{}, prod[dot:]...),
				})
			}
		}
	}
	return items
}

// LR0_CLOSURE computes the closure of kernel item set K: for every item
// [A -> α.Bβ] in the set, the initial items of every production of B are
// added, repeated to a fixed point.
func (g Grammar) LR0_CLOSURE(K util.SVSet[LR0Item]) util.SVSet[LR0Item] {
	closure := util.NewSVSet(K)

	updated := true
	for updated {
		updated = false
		for _, name := range closure.Elements() {
			item := closure.Get(name)
			if len(item.Right) == 0 {
				continue
			}
			B := item.Right[0]
			if !g.IsNonTerminal(B) {
				continue
			}
			for _, prod := range g.Rule(B).Productions {
				newItem := LR0Item{NonTerminal: B, Right: append(Production{}, prod...)}
				if !closure.Has(newItem.String()) {
					closure.Set(newItem.String(), newItem)
					updated = true
				}
			}
		}
	}

	return closure
}

// LR0_GOTO computes GOTO(I, X): the closure of the kernel formed by moving
// the dot over X in every item of I where X immediately follows the dot.
func (g Grammar) LR0_GOTO(I util.SVSet[LR0Item], X string) util.SVSet[LR0Item] {
	moved := util.NewSVSet[LR0Item]()

	for _, name := range I.Elements() {
		item := I.Get(name)
		if len(item.Right) > 0 && item.Right[0] == X {
			newItem := LR0Item{
				NonTerminal: item.NonTerminal,
				Left:        append(append([]string{}, item.Left...), X),
				Right:       append([]string{}, item.Right[1:]...),
			}
			moved.Set(newItem.String(), newItem)
		}
	}

	return g.LR0_CLOSURE(moved)
}

func symbolsAfterDot(I util.SVSet[LR0Item]) []string {
	seen := map[string]bool{}
	var syms []string
	for _, name := range I.Elements() {
		item := I.Get(name)
		if len(item.Right) == 0 {
			continue
		}
		X := item.Right[0]
		if X == "" || seen[X] {
			continue
		}
		seen[X] = true
		syms = append(syms, X)
	}
	return syms
}

// CanonicalLR0Items computes the canonical collection of sets of LR(0)
// items for g, assumed to already be augmented, keyed by the
// StringOrdered() form of each set.
func (g Grammar) CanonicalLR0Items() util.SVSet[util.SVSet[LR0Item]] {
	states := util.NewSVSet[util.SVSet[LR0Item]]()

	start := g.Rule(g.StartSymbol())
	if len(start.Productions) == 0 {
		return states
	}

	startItem := LR0Item{NonTerminal: g.StartSymbol(), Right: append(Production{}, start.Productions[0]...)}
	startSet := g.LR0_CLOSURE(util.SVSet[LR0Item]{startItem.String(): startItem})
	states.Set(startSet.StringOrdered(), startSet)

	updated := true
	for updated {
		updated = false
		for _, name := range states.Elements() {
			I := states.Get(name)
			for _, X := range symbolsAfterDot(I) {
				newSet := g.LR0_GOTO(I, X)
				if newSet.Empty() {
					continue
				}
				if !states.Has(newSet.StringOrdered()) {
					states.Set(newSet.StringOrdered(), newSet)
					updated = true
				}
			}
		}
	}

	return states
}

// LR1_CLOSURE computes the closure of kernel item set K: for every item
// [A -> α.Bβ, a] in the set, the initial items of every production of B are
// added with lookahead set to FIRST*(βa), repeated to a fixed point.
func (g Grammar) LR1_CLOSURE(I util.SVSet[LR1Item]) util.SVSet[LR1Item] {
	closure := util.NewSVSet(I)
	firsts := g.allFirsts()

	updated := true
	for updated {
		updated = false
		for _, name := range closure.Elements() {
			item := closure.Get(name)
			if len(item.Right) == 0 {
				continue
			}
			B := item.Right[0]
			if !g.IsNonTerminal(B) {
				continue
			}

			beta := item.Right[1:]
			lookaheadSeq := append(append([]string{}, beta...), item.Lookahead)
			firstSet := firstStarUsing(lookaheadSeq, g, firsts)

			for _, prod := range g.Rule(B).Productions {
				for _, b := range firstSet.Elements() {
					if b == Epsilon[0] {
						continue
					}
					newItem := LR1Item{
						LR0Item:   LR0Item{NonTerminal: B, Right: append(Production{}, prod...)},
						Lookahead: b,
					}
					if !closure.Has(newItem.String()) {
						closure.Set(newItem.String(), newItem)
						updated = true
					}
				}
			}
		}
	}

	return closure
}

// LR1_GOTO computes GOTO(I, X) for a set of LR(1) items, analogous to
// LR0_GOTO but threading the lookahead through unchanged.
func (g Grammar) LR1_GOTO(I util.SVSet[LR1Item], X string) util.SVSet[LR1Item] {
	moved := util.NewSVSet[LR1Item]()

	for _, name := range I.Elements() {
		item := I.Get(name)
		if len(item.Right) > 0 && item.Right[0] == X {
			newItem := LR1Item{
				LR0Item: LR0Item{
					NonTerminal: item.NonTerminal,
					Left:        append(append([]string{}, item.Left...), X),
					Right:       append([]string{}, item.Right[1:]...),
				},
				Lookahead: item.Lookahead,
			}
			moved.Set(newItem.String(), newItem)
		}
	}

	return g.LR1_CLOSURE(moved)
}
