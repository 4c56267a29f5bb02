package ictiobus

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"

	"github.com/dekarrin/parsegen/internal/parsegen/types"
	"github.com/google/uuid"
)

// Option sets one field of the types.Config built by a parser constructor.
// Options are applied in the order given, so a later option overrides an
// earlier one that touches the same field.
type Option func(*types.Config)

// WithErrorMode sets how the driver responds to a syntax error (§7).
func WithErrorMode(m types.ErrorMode) Option {
	return func(c *types.Config) { c.ErrorMode = m }
}

// WithDiagnosticSink sets the sink that receives every Diagnostic record
// produced while building or running the parser, when LogErrors is true.
// Defaults to types.NopSink.
func WithDiagnosticSink(sink types.DiagnosticSink) Option {
	return func(c *types.Config) { c.Sink = sink }
}

// WithLogStepByStep toggles emission of each shift/reduce/match decision.
func WithLogStepByStep(b bool) Option { return func(c *types.Config) { c.LogStepByStep = b } }

// WithLogParseTree toggles emission of the final tree.
func WithLogParseTree(b bool) Option { return func(c *types.Config) { c.LogParseTree = b } }

// WithLogErrors toggles emission of diagnostic messages. Defaults to true.
func WithLogErrors(b bool) Option { return func(c *types.Config) { c.LogErrors = b } }

// WithLogTokenizer toggles emission of each tokenization.
func WithLogTokenizer(b bool) Option { return func(c *types.Config) { c.LogTokenizer = b } }

// WithLogParseTable toggles a dump of ACTION/GOTO at construction time.
func WithLogParseTable(b bool) Option { return func(c *types.Config) { c.LogParseTable = b } }

// WithLogGrammar toggles a dump of the grammar at construction time.
func WithLogGrammar(b bool) Option { return func(c *types.Config) { c.LogGrammar = b } }

// WithLogGrammarInfo toggles a dump of FIRST/FOLLOW at construction time.
func WithLogGrammarInfo(b bool) Option { return func(c *types.Config) { c.LogGrammarInfo = b } }

// WithLogAutomaton toggles a dump of the canonical collection.
func WithLogAutomaton(b bool) Option { return func(c *types.Config) { c.LogAutomaton = b } }

// WithLogDest sets where log_* output (as opposed to diagnostics, see
// WithDiagnosticSink) is written, and the destination path for text-file and
// html-file.
func WithLogDest(dest types.LogDest, path string) Option {
	return func(c *types.Config) {
		c.LogDest = dest
		c.LogDestPath = path
	}
}

// buildConfig applies opts over types.DefaultConfig and stamps the result
// with a fresh run ID.
func buildConfig(opts []Option) types.Config {
	cfg := types.DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	if cfg.Sink == nil {
		cfg.Sink = types.NopSink
	}
	return cfg
}

// NewConsoleSink returns a DiagnosticSink that writes one line per record to
// os.Stderr via the standard log package, the same sink the teacher's own
// server code (server/server.go, server/handlers.go) writes request-handling
// diagnostics to.
func NewConsoleSink() types.DiagnosticSink {
	return types.DiagnosticSinkFunc(func(d types.Diagnostic) {
		log.Printf("[%s] %s", d.RunID, d.String())
	})
}

// TextFileSink appends formatted Diagnostic records to a file, one per line.
// Close must be called once the parser using it is done.
type TextFileSink struct {
	f *os.File
}

// NewTextFileSink opens (creating or appending to) the file at path and
// returns a sink that writes one formatted line per Diagnostic to it.
func NewTextFileSink(path string) (*TextFileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening diagnostic log %q: %w", path, err)
	}
	return &TextFileSink{f: f}, nil
}

// Emit writes d as one line of text to the underlying file.
func (s *TextFileSink) Emit(d types.Diagnostic) {
	fmt.Fprintf(s.f, "%s\n", d.String())
}

// Close closes the underlying file.
func (s *TextFileSink) Close() error {
	return s.f.Close()
}

// HTMLFileSink accumulates Diagnostic records in memory and renders them as
// a single HTML report when Close is called.
type HTMLFileSink struct {
	path string
	recs []types.Diagnostic
}

// NewHTMLFileSink returns a sink that collects records and writes an HTML
// report to path on Close.
func NewHTMLFileSink(path string) *HTMLFileSink {
	return &HTMLFileSink{path: path}
}

// Emit buffers d for the eventual report.
func (s *HTMLFileSink) Emit(d types.Diagnostic) {
	s.recs = append(s.recs, d)
}

// Close renders the buffered records as an HTML table and writes it to the
// configured path.
func (s *HTMLFileSink) Close() error {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><title>parsegen diagnostics</title></head><body>\n")
	sb.WriteString("<table border=\"1\"><tr><th>run</th><th>kind</th><th>position</th><th>message</th></tr>\n")
	for _, d := range s.recs {
		pos := ""
		if d.Position != nil {
			pos = fmt.Sprintf("line %d, col %d", d.Position.Line, d.Position.Col)
		}
		sb.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(d.RunID), html.EscapeString(string(d.Kind)), html.EscapeString(pos), html.EscapeString(d.Message),
		))
	}
	sb.WriteString("</table></body></html>\n")

	return os.WriteFile(s.path, []byte(sb.String()), 0644)
}
