// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the crawlcore engine.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/crawlcore/engine"
	"github.com/nathoo/crawlcore/engine/save"
	"github.com/nathoo/crawlcore/engine/state"
)

// CLI is the plain line-oriented front end, also used for script playback.
type CLI struct {
	Meta
	In  io.Reader
	Out io.Writer

	// EchoInput repeats each input line after the prompt so a transcript
	// of a script run reads like an interactive session.
	EchoInput bool
}

// New creates a CLI on stdin/stdout.
func New(eng *engine.Engine, defs *state.Defs, slots save.Slots) *CLI {
	return &CLI{
		Meta: Meta{Engine: eng, Defs: defs, Slots: slots},
		In:   os.Stdin,
		Out:  os.Stdout,
	}
}

// Run shows the opening description and then reads commands until EOF,
// /quit, or ctx is cancelled. Blank lines and "#" comments are ignored.
func (c *CLI) Run(ctx context.Context) {
	w := bufio.NewWriter(c.Out)
	defer w.Flush()

	if intro := c.Defs.Game.Intro; intro != "" {
		fmt.Fprintf(w, "%s\n\n", intro)
	}
	writeLines(w, c.Engine.Describe().Output)

	lines := bufio.NewScanner(c.In)
	for ctx.Err() == nil {
		w.WriteString("> ")
		w.Flush()
		if !lines.Scan() {
			return
		}
		input := strings.TrimSpace(lines.Text())
		if input == "" || input[0] == '#' {
			continue
		}
		if c.EchoInput {
			fmt.Fprintln(w, input)
		}

		reply := c.Submit(ctx, input)
		for _, msg := range reply.System {
			fmt.Fprintf(w, "[%s]\n", msg)
		}
		writeLines(w, reply.Lines)
		if reply.Quit {
			return
		}
	}
}

func writeLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}
