/*
Parsegen reads a grammar definition and reports what kind of parser can be
built from it, optionally parsing a source file (or, interactively, stdin)
against it and printing the resulting parse tree.

Usage:

	parsegen [flags] GRAMMAR_FILE

The flags are:

	-v, --version
		Give the current version of parsegen and then exit.

	-i, --input FILE
		Parse the given source file against the grammar and print the
		resulting parse tree. If not given, only grammar analysis is
		performed (unless -r is given).

	-r, --repl
		After building the parser, read lines interactively from stdin,
		collecting them until a blank line or a ":go" line, then parse the
		collected text and print its tree or the error it produced. A
		":undo" line removes the most recently collected line. Mutually
		exclusive with -i.

	-t, --type TYPE
		The parser type to build: one of "ll1", "lr0", "slr1", "clr1", or
		"lalr1". Defaults to "lalr1".

	-c, --config FILE
		A TOML file of logging/diagnostic options (error_mode, log_dest,
		and the log_* flags from spec §6). Values given here are
		overridden by the corresponding command-line flag, if any.

	-e, --error-mode MODE
		One of "ignore", "stop-at-first", "recover-on-follow", or
		"repair-on-follow". Overrides error_mode from --config.

	--cache DIR
		Directory holding a record of grammars that previously built
		successfully, keyed by a hash of the grammar source and the
		parser type. A cache hit is reported but does not skip building
		the parser.

The grammar file uses the same BNF-like notation accepted by
grammar.Parse: rules of the form "NONTERM -> SYM1 SYM2 | SYM3 ;", with "ε"
used for an empty production. Any symbol never used as the head of a rule is
treated as a terminal.
*/
package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/dekarrin/parsegen/internal/parsegen"
	"github.com/dekarrin/parsegen/internal/parsegen/grammar"
	"github.com/dekarrin/parsegen/internal/parsegen/lex"
	"github.com/dekarrin/parsegen/internal/version"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitGrammarError indicates an unsuccessful program execution due to a
	// problem with the grammar itself.
	ExitGrammarError

	// ExitParseError indicates an unsuccessful program execution due to a
	// problem parsing the given input.
	ExitParseError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue reading files given on the command line.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	inputFile   *string = pflag.StringP("input", "i", "", "Parse the given source file against the grammar and print the resulting parse tree")
	replMode    *bool   = pflag.BoolP("repl", "r", false, "Parse lines read interactively from stdin against the grammar")
	parserType  *string = pflag.StringP("type", "t", "lalr1", `The parser type to build: one of "ll1", "lr0", "slr1", "clr1", or "lalr1"`)
	configFile  *string = pflag.StringP("config", "c", "", "A TOML file of logging/diagnostic options")
	errorMode   *string = pflag.StringP("error-mode", "e", "", `Overrides error_mode: one of "ignore", "stop-at-first", "recover-on-follow", "repair-on-follow"`)
	cacheDir    *string = pflag.String("cache", "", "Directory holding build records for previously-seen grammars")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing required GRAMMAR_FILE argument")
		returnCode = ExitInitError
		return
	}

	grammarBytes, err := os.ReadFile(pflag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading grammar file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	g, err := grammar.Parse(string(grammarBytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: parsing grammar definition: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	if err := g.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid grammar: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	fc := fileConfig{ErrorMode: "stop-at-first", LogErrors: true, LogDest: "console"}
	if *configFile != "" {
		fc, err = loadFileConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}

	opts, err := fc.options(*errorMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	if *cacheDir != "" {
		if rec, ok := lookupBuildRecord(*cacheDir, string(grammarBytes), *parserType); ok {
			fmt.Printf("(cache: this grammar previously built successfully as %s)\n", rec.ParserType)
		}
	}

	p, err := buildParser(g, *parserType, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitGrammarError
		return
	}

	if *cacheDir != "" {
		if err := storeBuildRecord(*cacheDir, string(grammarBytes), *parserType); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: writing build cache: %s\n", err.Error())
		}
	}

	fmt.Printf("grammar is %s; parser built successfully\n", *parserType)

	if *inputFile == "" && !*replMode {
		return
	}

	lx := ictiobus.NewLexer()
	// a single catch-all terminal per declared grammar symbol, lexed from the
	// symbol's own literal text with whitespace between tokens skipped, keeps
	// this demo usable without requiring the caller to also hand-write lexer
	// rules.
	for _, term := range g.Terminals() {
		lx.RegisterClass(g.Term(term), "")
		if err := lx.AddPattern(regexp.QuoteMeta(g.Term(term).Human()), lex.LexAs(g.Term(term).ID()), ""); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
	}
	lx.AddPattern(`\s+`, lex.Discard(), "")

	fe := ictiobus.NewFrontend(lx, p)

	if *replMode {
		if err := runREPL(fe); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitParseError
		}
		return
	}

	inFile, err := os.Open(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading input file: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer inFile.Close()

	tree, err := fe.Analyze(inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitParseError
		return
	}

	fmt.Println(tree.String())
}

func buildParser(g grammar.Grammar, kind string, opts ...ictiobus.Option) (ictiobus.Parser, error) {
	switch kind {
	case "ll1":
		return ictiobus.NewLL1Parser(g, opts...)
	case "lr0":
		return ictiobus.NewLR0Parser(g, opts...)
	case "slr1":
		p, warnings, err := ictiobus.NewSLRParser(g, false, opts...)
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
		}
		return p, err
	case "clr1":
		return ictiobus.NewCLRParser(g, opts...)
	case "lalr1":
		return ictiobus.NewLALR1Parser(g, opts...)
	default:
		return nil, fmt.Errorf("unknown parser type %q", kind)
	}
}
