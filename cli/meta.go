package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/crawlcore/engine"
	"github.com/nathoo/crawlcore/engine/save"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// Reply is the output of one meta-command.
type Reply struct {
	System []string // status messages
	Lines  []string // game or help text, shown as-is after System
	Quit   bool
}

func system(format string, args ...any) Reply {
	return Reply{System: []string{fmt.Sprintf(format, args...)}}
}

// Meta dispatches the slash commands shared by every front end.
type Meta struct {
	Engine *engine.Engine
	Defs   *state.Defs
	Slots  save.Slots
	Trace  bool

	last string // repeated by "again" and "g"
}

// Submit handles one line of player input: a slash command goes to
// Dispatch, "again" or "g" replays the previous game command, and anything
// else is one engine step. Game output (and trace lines) land in Lines.
func (m *Meta) Submit(ctx context.Context, input string) Reply {
	if strings.HasPrefix(input, "/") {
		return m.Dispatch(ctx, input)
	}
	switch strings.ToLower(input) {
	case "again", "g":
		if m.last == "" {
			return system("Nothing to repeat.")
		}
		input = m.last
	default:
		m.last = input
	}

	result := m.Engine.Step(input)
	lines := result.Output
	if m.Trace {
		lines = append(lines, TraceLines(result)...)
	}
	return Reply{Lines: lines}
}

// Dispatch runs one meta-command line such as "/save slot1".
func (m *Meta) Dispatch(ctx context.Context, input string) Reply {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Reply{}
	}
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return Reply{System: []string{"Goodbye."}, Quit: true}
	case "/save":
		return m.save(ctx, arg)
	case "/load":
		return m.load(ctx, arg)
	case "/slots":
		return m.slots(ctx)
	case "/delete":
		return m.delete(ctx, arg)
	case "/help":
		return Reply{Lines: HelpLines()}
	case "/state":
		return Reply{System: m.stateLines()}
	case "/trace":
		m.Trace = !m.Trace
		if m.Trace {
			return system("Trace output enabled.")
		}
		return system("Trace output disabled.")
	default:
		return system("Unknown command: %s. Type /help for available commands.", cmd)
	}
}

func slotName(name string) string {
	if name == "" {
		return save.DefaultSlot
	}
	return name
}

func (m *Meta) save(ctx context.Context, name string) Reply {
	name = slotName(name)
	if err := save.Write(ctx, m.Slots, name, m.Engine.State, m.Defs); err != nil {
		return system("Save failed: %v", err)
	}
	return system("Game saved to %s.", name)
}

func (m *Meta) load(ctx context.Context, name string) Reply {
	name = slotName(name)
	sd, err := save.Read(ctx, m.Slots, name)
	if errors.Is(err, save.ErrSlotNotFound) {
		return system("No save named %s.", name)
	}
	if err != nil {
		return system("Load failed: %v", err)
	}

	save.ApplySave(m.Engine.State, sd)
	m.Engine.Resume()
	r := system("Game loaded from %s (turn %d).", name, sd.Turn)
	r.Lines = m.Engine.Describe().Output
	return r
}

func (m *Meta) slots(ctx context.Context) Reply {
	slots, err := m.Slots.List(ctx)
	if err != nil {
		return system("Listing saves failed: %v", err)
	}
	if len(slots) == 0 {
		return system("No saved games.")
	}
	var r Reply
	for _, s := range slots {
		r.System = append(r.System, fmt.Sprintf("%-16s turn %-5d %s", s.Name, s.Turn, s.SavedAt.Format("2006-01-02 15:04")))
	}
	return r
}

func (m *Meta) delete(ctx context.Context, name string) Reply {
	if name == "" {
		return system("Usage: /delete <name>")
	}
	if err := m.Slots.Delete(ctx, name); err != nil {
		return system("Delete failed: %v", err)
	}
	return system("Deleted %s.", name)
}

func (m *Meta) stateLines() []string {
	s := m.Engine.State
	lines := []string{
		fmt.Sprintf("Seed: %d  Turn: %d  Depth: %d", s.WorldSeed, s.TurnCounter, s.Depth),
		fmt.Sprintf("Player: %s lvl %d HP %d/%d XP %d Gold %d",
			s.Player.Name, s.Player.Level, s.Player.HP, s.Player.MaxHP, s.Player.XP, s.Player.Gold),
		fmt.Sprintf("Inventory: %v", s.Player.Inventory),
		fmt.Sprintf("Monsters: %d  RNG position: %d", len(s.Entities), s.RNGPosition),
	}
	if len(s.Flags) > 0 {
		lines = append(lines, fmt.Sprintf("Flags: %v", s.Flags))
	}
	return lines
}

// TraceLines formats the events of a step for /trace output.
func TraceLines(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// HelpLines is the /help text.
func HelpLines() []string {
	return []string{
		"System:",
		"  /save [name]    Save game (default: quicksave)",
		"  /load [name]    Load game (default: quicksave)",
		"  /slots          List saved games",
		"  /delete <name>  Delete a saved game",
		"  /quit           Exit game",
		"  /help           Show this help",
		"  /state          Debug: dump current state",
		"  /trace          Toggle debug trace output",
		"",
		"Game commands:",
		"  look (l) [monster]      Describe surroundings or a monster",
		"  descend (>) / ascend (<)",
		"  attack (a) [monster]    Fight; the monster strikes back",
		"  ambush                  Lure an ambush party on this level",
		"  shop [name]             List shops or browse one (town only)",
		"  buy <item> [from shop]",
		"  sell <item> [to shop]",
		"  drink <potion>          Restore HP",
		"  equip <item>            Wield a weapon or wear armor",
		"  inventory (i)           Check what you're carrying",
		"  status                  Show your stats",
		"  wait (z)                Let time pass",
		"  again (g)               Repeat your last command",
	}
}
