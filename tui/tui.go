package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/nathoo/crawlcore/cli"
	"github.com/nathoo/crawlcore/engine"
	"github.com/nathoo/crawlcore/engine/save"
	"github.com/nathoo/crawlcore/engine/state"
)

const (
	historySize = 100
	minWidth    = 10
	chromeLines = 2 // status bar + input line
	navHelp     = "Navigation: PgUp/PgDn or Ctrl+U/Ctrl+D to scroll, Up/Down for command history (type a prefix first to filter)"
)

// keyMap lists the keys the model handles itself. Everything else goes
// to the text input.
type keyMap struct {
	Quit   key.Binding
	Submit key.Binding
	Older  key.Binding
	Newer  key.Binding
	Scroll key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Older:  key.NewBinding(key.WithKeys("up")),
	Newer:  key.NewBinding(key.WithKeys("down")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown", "ctrl+u", "ctrl+d")),
}

// rawLine is an unstyled output line. Lines are kept raw so the
// scrollback can be re-wrapped when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // echoed player input
	isSystem bool // meta-command status
}

// Model is the Bubble Tea model for the crawlcore TUI.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	defs   *state.Defs
	meta   *cli.Meta

	viewport viewport.Model
	input    textinput.Model
	history  *History
	rawLines []rawLine

	width    int
	ready    bool
	quitting bool
}

// gameOutputMsg carries one block of output into the Update loop.
type gameOutputMsg struct {
	input  string   // echoed player input (empty for the opening block)
	system []string // meta-command status lines, shown first
	lines  []string // game output lines
}

// New creates a TUI model wired to the given engine and save store.
func New(ctx context.Context, eng *engine.Engine, defs *state.Defs, slots save.Slots) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.CharLimit = 256
	ti.Focus()

	return Model{
		ctx:     ctx,
		engine:  eng,
		defs:    defs,
		meta:    &cli.Meta{Engine: eng, Defs: defs, Slots: slots},
		input:   ti,
		history: NewHistory(historySize),
	}
}

// Run starts the Bubble Tea program. Cancelling ctx stops it.
func Run(ctx context.Context, eng *engine.Engine, defs *state.Defs, slots save.Slots) error {
	p := tea.NewProgram(New(ctx, eng, defs, slots),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init emits the title, intro and opening description.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.opening)
}

func (m Model) opening() tea.Msg {
	g := m.defs.Game
	title := g.Title
	if g.Version != "" {
		title += " v" + g.Version
	}
	if g.Author != "" {
		title += " by " + g.Author
	}
	lines := []string{title, ""}
	if g.Intro != "" {
		lines = append(lines, g.Intro, "")
	}
	return gameOutputMsg{lines: append(lines, m.engine.Describe().Output...)}
}

// Update handles key presses, resizes and game output.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// resize fits the scrollback above the status bar and input line.
func (m *Model) resize(width, height int) {
	m.width = width
	vpHeight := max(1, height-chromeLines)
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.refreshViewport()
}

// handleKey reports handled=false for keys that belong to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit, true
	case key.Matches(msg, keys.Submit):
		next, cmd := m.handleEnter()
		return next, cmd, true
	case key.Matches(msg, keys.Older):
		if prev, ok := m.history.Prev(m.input.Value()); ok {
			m.setInput(prev)
		}
		return m, nil, true
	case key.Matches(msg, keys.Newer):
		next, _ := m.history.Next()
		m.setInput(next)
		return m, nil, true
	case key.Matches(msg, keys.Scroll):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
}

// handleEnter runs the submitted line as a meta-command, a repeat, or a
// game command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.history.ResetCursor()
	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	reply := m.meta.Submit(m.ctx, input)
	if strings.Fields(input)[0] == "/help" {
		reply.Lines = append(reply.Lines, "", navHelp)
	}
	m = m.appendOutput(gameOutputMsg{input: input, system: reply.System, lines: reply.Lines})
	if reply.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// appendOutput records a block of output followed by a blank separator.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{text: "> " + msg.input, isInput: true})
	}
	for _, line := range msg.system {
		m.rawLines = append(m.rawLines, rawLine{text: line, isSystem: true})
	}
	for _, line := range msg.lines {
		m.rawLines = append(m.rawLines, rawLine{text: line, kind: classifyLine(line)})
	}
	m.rawLines = append(m.rawLines, rawLine{})
	m.refreshViewport()
	return m
}

// refreshViewport restyles the whole scrollback at the current width and
// scrolls to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := max(m.width, minWidth)

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		styled = append(styled, renderLine(rl, width))
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLine styles one raw line. Map rows are clipped, everything else
// is word-wrapped.
func renderLine(rl rawLine, width int) string {
	switch {
	case rl.text == "":
		return ""
	case rl.isInput:
		return stylePlayerInput.Render(wrap(rl.text, width))
	case rl.isSystem:
		return styledSystemMsg(wrap(rl.text, width))
	case rl.kind == kindMap:
		return styledMapRow(ansi.Truncate(rl.text, width, ""))
	}

	text := wrap(rl.text, width)
	switch rl.kind {
	case kindYouSee:
		return styledYouSee(text)
	case kindCombat:
		return styleCombat.Render(text)
	case kindDanger:
		return styleDanger.Render(text)
	case kindReward:
		return styleReward.Render(text)
	case kindSystem:
		return styleSystem.Render(text)
	case kindError:
		return styleError.Render(text)
	case kindTrace:
		return styleTrace.Render(text)
	default:
		return styleNarration.Render(text)
	}
}

func wrap(text string, width int) string {
	return ansi.Wordwrap(text, width, "")
}

// View renders the scrollback, the status bar and the input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap leaves Up/Down to the command history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
