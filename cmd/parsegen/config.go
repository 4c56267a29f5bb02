package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/parsegen/internal/parsegen"
	"github.com/dekarrin/parsegen/internal/parsegen/types"
)

// fileConfig is the on-disk shape of the option set from spec §6, loaded from
// the file given to -c/--config. Field names mirror the option names exactly
// so a config file reads the same as the spec lists them, the same way
// dekarrin-tunaq's tqw.Manifest mirrors its world-file field names.
type fileConfig struct {
	ErrorMode      string `toml:"error_mode"`
	LogStepByStep  bool   `toml:"log_step_by_step"`
	LogParseTree   bool   `toml:"log_parse_tree"`
	LogErrors      bool   `toml:"log_errors"`
	LogTokenizer   bool   `toml:"log_tokenizer"`
	LogParseTable  bool   `toml:"log_parse_table"`
	LogGrammar     bool   `toml:"log_grammar"`
	LogGrammarInfo bool   `toml:"log_grammar_info"`
	LogAutomaton   bool   `toml:"log_automaton"`
	LogDest        string `toml:"log_dest"`
	LogDestPath    string `toml:"log_dest_path"`
}

// loadFileConfig reads and decodes the TOML file at path.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	fc.ErrorMode = string(types.ErrorModeStopAtFirst)
	fc.LogErrors = true
	fc.LogDest = string(types.LogDestConsole)

	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("decoding config file: %w", err)
	}
	return fc, nil
}

// options translates fc, plus an optional override error mode (from
// -e/--error-mode, which takes priority over the file when non-empty), into
// the ictiobus.Option list a parser constructor accepts.
func (fc fileConfig) options(errModeOverride string) ([]ictiobus.Option, error) {
	mode := fc.ErrorMode
	if errModeOverride != "" {
		mode = errModeOverride
	}

	switch types.ErrorMode(mode) {
	case types.ErrorModeIgnore, types.ErrorModeStopAtFirst, types.ErrorModeRecoverOnFollow, types.ErrorModeRepairOnFollow:
		// ok
	default:
		return nil, fmt.Errorf("unknown error_mode %q", mode)
	}

	opts := []ictiobus.Option{
		ictiobus.WithErrorMode(types.ErrorMode(mode)),
		ictiobus.WithLogStepByStep(fc.LogStepByStep),
		ictiobus.WithLogParseTree(fc.LogParseTree),
		ictiobus.WithLogErrors(fc.LogErrors),
		ictiobus.WithLogTokenizer(fc.LogTokenizer),
		ictiobus.WithLogParseTable(fc.LogParseTable),
		ictiobus.WithLogGrammar(fc.LogGrammar),
		ictiobus.WithLogGrammarInfo(fc.LogGrammarInfo),
		ictiobus.WithLogAutomaton(fc.LogAutomaton),
	}

	dest := types.LogDest(fc.LogDest)
	if dest == "" {
		dest = types.LogDestConsole
	}
	opts = append(opts, ictiobus.WithLogDest(dest, fc.LogDestPath))

	var sink types.DiagnosticSink
	switch dest {
	case types.LogDestTextFile:
		if fc.LogDestPath == "" {
			return nil, fmt.Errorf("log_dest = text-file requires log_dest_path")
		}
		tf, err := ictiobus.NewTextFileSink(fc.LogDestPath)
		if err != nil {
			return nil, err
		}
		sink = tf
	case types.LogDestHTMLFile:
		if fc.LogDestPath == "" {
			return nil, fmt.Errorf("log_dest = html-file requires log_dest_path")
		}
		sink = ictiobus.NewHTMLFileSink(fc.LogDestPath)
	default:
		sink = ictiobus.NewConsoleSink()
	}
	opts = append(opts, ictiobus.WithDiagnosticSink(sink))

	return opts, nil
}
