// Crawlcore is a deterministic roguelike dungeon crawler.
// Usage: crawlcore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] [--locale <tag>] [game_directory]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/nathoo/crawlcore/cli"
	"github.com/nathoo/crawlcore/config"
	"github.com/nathoo/crawlcore/content"
	"github.com/nathoo/crawlcore/engine"
	"github.com/nathoo/crawlcore/engine/narrative"
	"github.com/nathoo/crawlcore/engine/save"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/loader"
	"github.com/nathoo/crawlcore/logger"
	"github.com/nathoo/crawlcore/tui"
	"github.com/nathoo/crawlcore/types"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	usage = "Usage: crawlcore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] [--locale <tag>] [game_directory]\n"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the whole program; it returns the exit status so deferred
// cleanup (the save store above all) runs before the process exits.
func run(args []string, stdout, stderr io.Writer) int {
	plain := false
	trace := false
	var gameDir, scriptFile, locale string
	var seedFlag *int32

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Fprintf(stdout, "crawlcore %s (commit %s, built %s)\n", version, commit, date)
			return 0
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--locale", "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(stderr, "%s requires a value\n", args[i])
				return 2
			}
			flag, value := args[i], args[i+1]
			i++
			switch flag {
			case "--script":
				scriptFile = value
			case "--locale":
				locale = value
			default:
				n, err := strconv.ParseInt(value, 10, 32)
				if err != nil {
					fmt.Fprintf(stderr, "--seed: %v\n", err)
					return 2
				}
				v := int32(n)
				seedFlag = &v
			}
		case "-h", "--help":
			fmt.Fprint(stdout, usage)
			return 0
		default:
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error reading config: %v\n", err)
		return 1
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat, stderr)
	if locale == "" {
		locale = cfg.Locale
	}

	// Load and compile Lua game content; the bundled crypt is the default.
	var defs *state.Defs
	if gameDir == "" {
		defs, err = loader.LoadFS(content.Crypt())
	} else {
		defs, err = loader.Load(gameDir)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error loading game: %v\n", err)
		return 1
	}
	defs.Game.Seed = cfg.Seed(defs.Game.Seed)
	if seedFlag != nil {
		defs.Game.Seed = *seedFlag
	}

	names, err := narrative.New(locale, defs.Names)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	eng := engine.New(defs, engine.WithNames(names))

	slots, err := openSlots(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening saves: %v\n", err)
		return 1
	}
	defer slots.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Script mode reads commands from a file, forces plain output and
	// echoes each command.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		printBanner(stdout, defs.Game)
		c := cli.New(eng, defs, slots)
		c.In, c.Out = f, stdout
		c.EchoInput = true
		c.Trace = trace
		c.Run(ctx)
		return 0
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(stdout, defs.Game)
		c := cli.New(eng, defs, slots)
		c.Out = stdout
		c.Trace = trace
		c.Run(ctx)
		return 0
	}

	if err := tui.Run(ctx, eng, defs, slots); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openSlots picks the sqlite store when CRAWLCORE_SAVE_DB is set and a
// directory of JSON files otherwise.
func openSlots(cfg config.Config) (save.Slots, error) {
	if cfg.SaveDB != "" {
		return save.OpenStore(cfg.SaveDB)
	}
	dir := cfg.SaveDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".crawlcore", "saves")
	}
	return save.NewDirStore(dir), nil
}

func printBanner(w io.Writer, g types.GameDef) {
	line := g.Title
	if g.Version != "" {
		line += " v" + g.Version
	}
	if g.Author != "" {
		line += " by " + g.Author
	}
	fmt.Fprintf(w, "%s\n\n", line)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
