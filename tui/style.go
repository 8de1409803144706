package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleMap = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	styleGlyph = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("223"))

	styleDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleHPGood = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	styleHPLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleHPBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindYouSee
	kindMap
	kindCombat
	kindDanger
	kindReward
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case isMapRow(line):
		return kindMap
	case strings.HasPrefix(line, "You see:"):
		return kindYouSee
	case strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You see no"),
		strings.HasPrefix(line, "There is"),
		strings.HasPrefix(line, "There are no"),
		strings.HasPrefix(line, "No one"),
		strings.HasPrefix(line, "No shop"),
		strings.HasPrefix(line, "I don't know"):
		return kindError
	case strings.HasPrefix(line, "You have been slain"),
		strings.HasPrefix(line, "Ambush!"),
		strings.Contains(line, "hits you"),
		strings.Contains(line, "drains"):
		return kindDanger
	case strings.HasPrefix(line, "You reach level"),
		strings.Contains(line, " dies. "):
		return kindReward
	case strings.HasPrefix(line, "You hit"),
		strings.HasPrefix(line, "You miss"),
		strings.HasPrefix(line, "You dodge"),
		strings.HasPrefix(line, "You drain"),
		strings.HasPrefix(line, "Thorns"),
		strings.Contains(line, "misses you"),
		strings.Contains(line, "dodges your"):
		return kindCombat
	default:
		return kindNarration
	}
}

// isMapRow reports whether line is a rendered dungeon row: no spaces,
// at least one wall tile.
func isMapRow(line string) bool {
	if len(line) < 3 || strings.ContainsRune(line, ' ') {
		return false
	}
	return strings.ContainsRune(line, '#')
}

// styledMapRow renders walls and floor dimmed and everything else
// (stairs, the player, monsters) highlighted.
func styledMapRow(line string) string {
	var b strings.Builder
	run := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '#', '.':
			continue
		}
		b.WriteString(styleMap.Render(line[run:i]))
		b.WriteString(styleGlyph.Render(line[i : i+1]))
		run = i + 1
	}
	b.WriteString(styleMap.Render(line[run:]))
	return b.String()
}

// styledYouSee renders "You see: goblin, slime." with monster names bold.
func styledYouSee(line string) string {
	const prefix = "You see: "
	if !strings.HasPrefix(line, prefix) {
		return styleNarration.Render(line)
	}
	return styleNarration.Render(prefix) + styleYouSee.Render(line[len(prefix):])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

// hpStyle picks a colour for the HP readout by remaining fraction.
func hpStyle(hp, maxHP int) lipgloss.Style {
	switch {
	case maxHP <= 0 || hp*4 <= maxHP:
		return styleHPBad
	case hp*2 <= maxHP:
		return styleHPLow
	default:
		return styleHPGood
	}
}
