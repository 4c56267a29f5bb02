package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/dekarrin/parsegen/internal/parsegen"
	"github.com/dekarrin/parsegen/internal/util"
)

// runREPL reads lines interactively from stdin using readline (for history
// and line-editing), composing them into a pending source buffer until a
// blank line or ":go" submits the buffer for parsing. ":undo" retracts the
// most recently appended line, for when a multi-line grammar input was
// typed wrong partway through; the buffer is an UndoableStringBuilder so
// that retraction doesn't require re-typing everything from scratch.
//
// Exits on io.EOF (ctrl-D). A readline.ErrInterrupt (ctrl-C) is ignored and
// reading continues.
func runREPL(fe *ictiobus.Frontend) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "parsegen> ",
	})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	var buf util.UndoableStringBuilder

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch line {
		case ":undo":
			buf.Undo()
			continue
		case ":go", "":
			if buf.Len() == 0 {
				continue
			}

			src := buf.String()
			buf.Reset()

			tree, err := fe.AnalyzeString(src)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
				continue
			}
			fmt.Println(tree.String())
		default:
			// one WriteString call per line keeps :undo retracting exactly
			// one typed line, not half of it.
			buf.WriteString(line + "\n")
		}
	}
}
