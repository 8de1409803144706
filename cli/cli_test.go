package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/crawlcore/engine"
	"github.com/nathoo/crawlcore/engine/save"
	"github.com/nathoo/crawlcore/engine/state"
	"github.com/nathoo/crawlcore/types"
)

// testDefs returns minimal game definitions for CLI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test Crawl",
			Author:  "Test",
			Version: "1.0",
			Intro:   "Welcome to the test.",
			Seed:    9,
			Player:  types.PlayerTemplate{Name: "Ayla", HP: 30, Attack: 6, Defense: 2, Gold: 40, Inventory: []string{"tonic"}},
		},
		Items: map[string]types.Item{
			"tonic": {ID: "tonic", Kind: types.ItemPotion, Name: "Tonic", Value: 10, Heal: 8},
		},
		Shops: map[string]types.Shop{
			"apothecary": {ID: "apothecary", Name: "Apothecary", StockItemIDs: []string{"tonic"}},
		},
	}
}

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	defs := testDefs()
	var out bytes.Buffer
	c := New(engine.New(defs), defs, save.NewDirStore(t.TempDir()))
	c.In = strings.NewReader(input)
	c.Out = &out
	return c, &out
}

func TestCLI_IntroAndTown(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Welcome to the test.") {
		t.Error("expected intro text in output")
	}
	if !strings.Contains(output, "town square") {
		t.Error("expected town description in output")
	}
	if c.Engine.State.TurnCounter != 0 {
		t.Error("the opening description should not use a turn")
	}
}

func TestCLI_BasicGameplay(t *testing.T) {
	c, out := newTestCLI(t, "descend\nstatus\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "You descend to depth 1.") {
		t.Error("expected descend output")
	}
	if !strings.Contains(output, "Depth 1, turn 1.") {
		t.Errorf("expected status after descending, got:\n%s", output)
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	for _, want := range []string{"/save", "/load", "/slots", "/quit", "descend"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in help output", want)
		}
	}
}

func TestCLI_SaveAndLoad(t *testing.T) {
	slots, err := save.OpenStore(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer slots.Close()
	defs := testDefs()

	// Play a bit and save.
	var out bytes.Buffer
	c := New(engine.New(defs), defs, slots)
	c.In = strings.NewReader("descend\n/save test\n/slots\n/quit\n")
	c.Out = &out
	c.Run(context.Background())

	saveOutput := out.String()
	if !strings.Contains(saveOutput, "Game saved to test.") {
		t.Error("expected save confirmation")
	}
	if !strings.Contains(saveOutput, "test") || !strings.Contains(saveOutput, "turn 1") {
		t.Errorf("expected slot listing, got:\n%s", saveOutput)
	}

	// Start fresh and load.
	var out2 bytes.Buffer
	c2 := New(engine.New(defs), defs, slots)
	c2.In = strings.NewReader("/load test\n/quit\n")
	c2.Out = &out2
	c2.Run(context.Background())

	loadOutput := out2.String()
	if !strings.Contains(loadOutput, "Game loaded from test (turn 1)") {
		t.Errorf("expected load confirmation, got:\n%s", loadOutput)
	}
	if c2.Engine.State.Depth != 1 {
		t.Errorf("depth after load = %d, want 1", c2.Engine.State.Depth)
	}
	if !strings.Contains(loadOutput, "Depth 1.") {
		t.Error("expected level description after loading save")
	}
}

func TestCLI_DeleteSlot(t *testing.T) {
	c, out := newTestCLI(t, "/save a\n/delete a\n/delete a\n/delete\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Deleted a.") {
		t.Error("expected delete confirmation")
	}
	if !strings.Contains(output, "Delete failed") {
		t.Error("expected failure deleting a missing slot")
	}
	if !strings.Contains(output, "Usage: /delete") {
		t.Error("expected usage message")
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\ndescend\n/trace\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace]   level_entered") {
		t.Error("expected traced events")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Seed: 9") {
		t.Error("expected seed in state output")
	}
	if !strings.Contains(output, "Turn: 0") {
		t.Error("expected turn count in state output")
	}
}

func TestCLI_EmptyInput(t *testing.T) {
	c, out := newTestCLI(t, "\n\n# comment\n/quit\n")
	c.Run(context.Background())

	if strings.Contains(out.String(), "What do you want to do?") {
		t.Error("empty lines should be silently skipped by CLI")
	}
}

func TestCLI_LoadNonexistent(t *testing.T) {
	c, out := newTestCLI(t, "/load nonexistent\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "No save named nonexistent.") {
		t.Error("expected missing save message")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, _ := newTestCLI(t, "wait\nagain\ng\n/quit\n")
	c.Run(context.Background())

	if c.Engine.State.TurnCounter != 3 {
		t.Errorf("TurnCounter = %d, want 3", c.Engine.State.TurnCounter)
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run(context.Background())

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

func TestCLI_EchoInput(t *testing.T) {
	c, out := newTestCLI(t, "status\n")
	c.EchoInput = true
	c.Run(context.Background())

	if !strings.Contains(out.String(), "> status\n") {
		t.Error("expected echoed command after prompt")
	}
}

func TestCLI_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := newTestCLI(t, "wait\nwait\n")
	c.Run(ctx)
	if c.Engine.State.TurnCounter != 0 {
		t.Error("cancelled context should stop the loop")
	}
}

func newTestMeta(t *testing.T) *Meta {
	t.Helper()
	defs := testDefs()
	return &Meta{Engine: engine.New(defs), Defs: defs, Slots: save.NewDirStore(t.TempDir())}
}

func TestMeta_Quit(t *testing.T) {
	m := newTestMeta(t)
	for _, cmd := range []string{"/quit", "/exit"} {
		if r := m.Dispatch(context.Background(), cmd); !r.Quit {
			t.Errorf("%s should quit", cmd)
		}
	}
	if r := m.Dispatch(context.Background(), "/help"); r.Quit || len(r.Lines) == 0 || len(r.System) != 0 {
		t.Errorf("/help should return plain lines, got %+v", r)
	}
}

func TestMeta_LoadRestoresCombatStream(t *testing.T) {
	ctx := context.Background()
	m := newTestMeta(t)
	m.Engine.Step("descend")
	m.Engine.Step("attack")
	m.Dispatch(ctx, "/save s")
	want := m.Engine.RNG.Position()
	if want == 0 {
		t.Fatal("attack should draw from the combat stream")
	}

	m.Engine.State.RNGPosition = 0
	m.Engine.Resume()
	r := m.Dispatch(ctx, "/load s")
	if len(r.System) != 1 || !strings.Contains(r.System[0], "Game loaded from s") {
		t.Fatalf("unexpected reply %+v", r)
	}
	if got := m.Engine.RNG.Position(); got != want {
		t.Errorf("RNG position after load = %d, want %d", got, want)
	}
	if len(r.Lines) == 0 {
		t.Error("expected the level description after loading")
	}
}

func TestTraceLines(t *testing.T) {
	if TraceLines(types.Result{}) != nil {
		t.Error("no events should produce no trace")
	}
	lines := TraceLines(types.Result{Events: []types.Event{{Type: "ambush"}}})
	if len(lines) != 2 || lines[0] != "[trace] Events: 1" || !strings.HasPrefix(lines[1], "[trace]   ambush") {
		t.Errorf("unexpected trace %q", lines)
	}
}

func TestMeta_Submit(t *testing.T) {
	ctx := context.Background()
	m := newTestMeta(t)

	if r := m.Submit(ctx, "g"); len(r.System) != 1 || r.System[0] != "Nothing to repeat." {
		t.Fatalf("repeat with no history: %+v", r)
	}
	if r := m.Submit(ctx, "wait"); len(r.Lines) == 0 || len(r.System) != 0 {
		t.Fatalf("wait: %+v", r)
	}
	m.Submit(ctx, "AGAIN")
	if got := m.Engine.State.TurnCounter; got != 2 {
		t.Errorf("turns = %d, want 2", got)
	}

	m.Trace = true
	r := m.Submit(ctx, "descend")
	if last := r.Lines[len(r.Lines)-1]; !strings.HasPrefix(last, "[trace]") {
		t.Errorf("expected trace lines last, got %q", r.Lines)
	}
	if r := m.Submit(ctx, "/quit"); !r.Quit {
		t.Error("slash commands should dispatch")
	}
}
