package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/crawlcore/engine/state"
)

// locationLabel names where the player stands: "Town" or "Depth N".
func locationLabel(depth int) string {
	if depth == 0 {
		return "Town"
	}
	return fmt.Sprintf("Depth %d", depth)
}

// renderStatusBar produces a full-width inverted status line showing the
// player's level, HP, location, gold, and turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.State
	p := s.Player

	hp := hpStyle(p.HP, p.MaxHP).Inherit(styleStatusBar).Render(fmt.Sprintf("HP %d/%d", p.HP, p.MaxHP))
	left := fmt.Sprintf(" %s L%d %s | %s | Gold %d", p.Name, p.Level, hp, locationLabel(s.Depth), p.Gold)
	right := fmt.Sprintf("T:%d ", s.TurnCounter)

	// Show monster count on dungeon levels if it fits.
	if s.Depth > 0 {
		candidate := fmt.Sprintf("Foes: %d | T:%d ", len(state.LivingOn(s, p.MapID)), s.TurnCounter)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		}
	}
	if m.engine.GameOver() {
		right = "DEAD | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
