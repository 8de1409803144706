// Package tui provides a Bubble Tea terminal UI for the crawlcore engine.
package tui

import "strings"

// History is the input line's command memory. Browsing can be narrowed to
// entries that start with what was typed, so "att" + Up only walks back
// through attack commands.
type History struct {
	lines    []string
	limit    int
	pos      int // index of the shown entry while browsing
	filter   string
	browsing bool
}

// NewHistory keeps at most limit commands.
func NewHistory(limit int) *History {
	return &History{lines: make([]string, 0, limit), limit: limit}
}

// Push records cmd unless it repeats the latest entry.
func (h *History) Push(cmd string) {
	if n := len(h.lines); n > 0 && h.lines[n-1] == cmd {
		return
	}
	if h.limit > 0 && len(h.lines) == h.limit {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.limit-1]
	}
	h.lines = append(h.lines, cmd)
}

func (h *History) Len() int { return len(h.lines) }

// Prev steps to an older entry. prefix only matters on the first step of
// a browse; it stays fixed until the browse ends. At the oldest match the
// same entry is returned again.
func (h *History) Prev(prefix string) (string, bool) {
	if !h.browsing {
		h.browsing, h.filter, h.pos = true, prefix, len(h.lines)
	}
	if i, ok := h.seek(-1); ok {
		h.pos = i
		return h.lines[i], true
	}
	if h.pos < len(h.lines) {
		return h.lines[h.pos], true
	}
	h.ResetCursor()
	return "", false
}

// Next steps to a newer entry, ending the browse (and returning false)
// once past the newest match.
func (h *History) Next() (string, bool) {
	if !h.browsing {
		return "", false
	}
	if i, ok := h.seek(1); ok {
		h.pos = i
		return h.lines[i], true
	}
	h.ResetCursor()
	return "", false
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.browsing, h.filter, h.pos = false, "", 0
}

// seek finds the nearest entry matching the filter from pos in direction dir.
func (h *History) seek(dir int) (int, bool) {
	for i := h.pos + dir; i >= 0 && i < len(h.lines); i += dir {
		if strings.HasPrefix(h.lines[i], h.filter) {
			return i, true
		}
	}
	return 0, false
}
