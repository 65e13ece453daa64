// Cheat code sequence matching (original_source/source_files/edge/
// m_cheat.cc's CheatCheckSequence, SPEC_FULL.md §10 supplemented
// feature). Feeds the same ticcmd path as regular input rather than
// bypassing it, so cheat activation doesn't break deterministic replay:
// a cheat fires from the chat/keycode fields a ticcmd already carries.
package engine

// CheatEntry is one cheat code: a fixed keycode sequence and the cursor
// position reached so far, matched independently of every other entry
// (mirroring m_cheat.cc's one CheatSequence struct per cheat, each with
// its own private `p` cursor).
type CheatEntry struct {
	Name     string
	Sequence []byte
	pos      int
}

// CheatTable holds every registered cheat code, checked on each key in
// turn.
type CheatTable struct {
	entries []*CheatEntry
}

// NewCheatTable returns an empty table; Register adds entries.
func NewCheatTable() *CheatTable {
	return &CheatTable{}
}

// Register adds a cheat code under name. Sequences are matched
// case-sensitively, exactly as typed.
func (t *CheatTable) Register(name string, sequence string) {
	t.entries = append(t.entries, &CheatEntry{Name: name, Sequence: []byte(sequence)})
}

// Feed advances every entry's matcher by one keycode, in m_cheat.cc's
// CheatCheckSequence style: a matching byte advances that entry's cursor;
// a mismatch resets it to the start (the wrong key can still be the
// first byte of the sequence, in which case the cursor lands on 1, not
// 0 — classic "DOOMDOOM" overlapping-prefix behavior). Returns the names
// of every cheat that completed on this key.
func (t *CheatTable) Feed(key byte) []string {
	var completed []string
	for _, e := range t.entries {
		if len(e.Sequence) == 0 {
			continue
		}
		if key == e.Sequence[e.pos] {
			e.pos++
		} else if key == e.Sequence[0] {
			e.pos = 1
		} else {
			e.pos = 0
		}
		if e.pos >= len(e.Sequence) {
			e.pos = 0
			completed = append(completed, e.Name)
		}
	}
	return completed
}

// Reset zeroes every entry's cursor, e.g. on level change.
func (t *CheatTable) Reset() {
	for _, e := range t.entries {
		e.pos = 0
	}
}
