package terminal

// History holds entered command lines, newest first, and a browsing
// cursor. The cursor is -1 while the user is not browsing.
type History struct {
	entries []string
	cursor  int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{cursor: -1}
}

// Push records line as the newest entry and stops browsing. Empty lines
// are ignored.
func (h *History) Push(line string) {
	if line == "" {
		return
	}
	h.entries = append([]string{line}, h.entries...)
	h.cursor = -1
}

// Up moves one step toward older entries and returns the entry to show.
// It stays on the oldest entry once reached. ok is false when there is no
// history at all.
func (h *History) Up() (line string, ok bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
	}
	return h.entries[h.cursor], true
}

// Down moves one step toward newer entries. Stepping past the newest entry
// stops browsing and returns the empty string. ok is false when not
// browsing, in which case the input should be left alone.
func (h *History) Down() (line string, ok bool) {
	switch {
	case h.cursor > 0:
		h.cursor--
		return h.entries[h.cursor], true
	case h.cursor == 0:
		h.cursor = -1
		return "", true
	default:
		return "", false
	}
}

// Reset stops browsing without touching the entries.
func (h *History) Reset() {
	h.cursor = -1
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []string {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	if n < 0 {
		n = 0
	}
	return append([]string(nil), h.entries[:n]...)
}

// Len is the total number of entries.
func (h *History) Len() int {
	return len(h.entries)
}
