package types

import "fmt"

// DiagnosticKind categorizes the event a Diagnostic record describes.
type DiagnosticKind string

const (
	DiagLexical DiagnosticKind = "lexical"
	DiagSyntax  DiagnosticKind = "syntax"
	DiagGrammar DiagnosticKind = "grammar"
	DiagTree    DiagnosticKind = "tree"
)

// Position is a source location a Diagnostic may point at.
type Position struct {
	Line int
	Col  int
}

// Diagnostic is a single structured record describing a lexical, syntax,
// grammar, or tree-builder event, as produced by any stage of a Frontend.
// RunID correlates every Diagnostic produced by one parser instance.
type Diagnostic struct {
	Kind     DiagnosticKind
	RunID    string
	Position *Position
	Expected []string
	Found    string
	Message  string
}

func (d Diagnostic) String() string {
	loc := ""
	if d.Position != nil {
		loc = fmt.Sprintf(" at line %d, col %d", d.Position.Line, d.Position.Col)
	}
	return fmt.Sprintf("[%s]%s: %s", d.Kind, loc, d.Message)
}

// DiagnosticSink receives Diagnostic records as a parser or lexer discovers
// them. Implementations must not block the caller for long; a sink that
// writes to a file or network should buffer internally.
type DiagnosticSink interface {
	Emit(d Diagnostic)
}

// DiagnosticSinkFunc adapts a plain function to a DiagnosticSink, the same
// way http.HandlerFunc adapts a function to http.Handler.
type DiagnosticSinkFunc func(d Diagnostic)

// Emit calls f(d).
func (f DiagnosticSinkFunc) Emit(d Diagnostic) { f(d) }

// NopSink discards every Diagnostic it receives.
var NopSink DiagnosticSink = DiagnosticSinkFunc(func(Diagnostic) {})

// ErrorMode selects how a parser driver responds to a syntax error.
type ErrorMode string

const (
	// ErrorModeIgnore takes no action; the driver halts silently, returning
	// whatever partial tree it has built with no error.
	ErrorModeIgnore ErrorMode = "ignore"

	// ErrorModeStopAtFirst reports the error and halts, returning it to the
	// caller. This is the default.
	ErrorModeStopAtFirst ErrorMode = "stop-at-first"

	// ErrorModeRecoverOnFollow reports the error, then discards input tokens
	// until the lookahead is in the FOLLOW set of some nonterminal still on
	// the parse stack, pops the stack to that nonterminal, and resumes. The
	// resulting tree may be missing subtrees for the abandoned production.
	ErrorModeRecoverOnFollow ErrorMode = "recover-on-follow"

	// ErrorModeRepairOnFollow behaves as ErrorModeRecoverOnFollow, but the
	// tree builder inserts a sentinel error node in place of the abandoned
	// production so the tree's arity invariants still hold.
	ErrorModeRepairOnFollow ErrorMode = "repair-on-follow"
)

// LogDest selects where a parser's log_* output (as opposed to its
// DiagnosticSink, which is set separately) is written.
type LogDest string

const (
	LogDestConsole  LogDest = "console"
	LogDestTextFile LogDest = "text-file"
	LogDestHTMLFile LogDest = "html-file"
)

// Config is the full set of logging, diagnostic, and error-recovery options
// recognized by a generated parser. The zero value is not valid; use
// DefaultConfig and override individual fields, or build one with the
// functional options in the ictiobus package.
type Config struct {
	LogStepByStep  bool
	LogParseTree   bool
	LogErrors      bool
	LogTokenizer   bool
	LogParseTable  bool
	LogGrammar     bool
	LogGrammarInfo bool
	LogAutomaton   bool

	ErrorMode ErrorMode

	LogDest     LogDest
	LogDestPath string

	// Sink receives every Diagnostic record produced while building or
	// running the parser, when LogErrors is true; with LogErrors false it
	// receives nothing. Defaults to NopSink.
	Sink DiagnosticSink

	// RunID tags every Diagnostic emitted by the parser this Config was
	// given to, so records from different parser instances (or repeated
	// construction of the same grammar) can be told apart by a caller
	// aggregating logs from more than one.
	RunID string
}

// DefaultConfig returns the Config a parser uses when none is supplied:
// errors are logged, recovery is off (stop-at-first), and diagnostics go
// nowhere.
func DefaultConfig() Config {
	return Config{
		LogErrors: true,
		ErrorMode: ErrorModeStopAtFirst,
		LogDest:   LogDestConsole,
		Sink:      NopSink,
	}
}
