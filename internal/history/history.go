// Package history keeps a linear undo/redo stack of full document snapshots.
package history

import "github.com/classlogo/designer/internal/document"

const DefaultLimit = 50

// History is a bounded list of snapshots plus a cursor. After every Commit the
// cursor points at the entry equal to the live document.
type History struct {
	entries [][]document.Object
	index   int
	limit   int
}

func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{index: -1, limit: limit}
}

// Commit drops any redo branch, appends a deep copy of objects and evicts
// the oldest entry once the stack is over its limit.
func (h *History) Commit(objects []document.Object) {
	h.entries = h.entries[:h.index+1]
	h.entries = append(h.entries, document.CloneAll(objects))
	h.index++
	if len(h.entries) > h.limit {
		h.entries[0] = nil
		h.entries = h.entries[1:]
		h.index--
	}
}

// Undo steps back one entry and returns a fresh copy of it. It reports false
// when already at the oldest entry.
func (h *History) Undo() ([]document.Object, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return document.CloneAll(h.entries[h.index]), true
}

// Redo steps forward one entry; it reports false at the newest entry.
func (h *History) Redo() ([]document.Object, bool) {
	if h.index >= len(h.entries)-1 {
		return nil, false
	}
	h.index++
	return document.CloneAll(h.entries[h.index]), true
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }
func (h *History) Len() int      { return len(h.entries) }
func (h *History) Index() int    { return h.index }
func (h *History) Limit() int    { return h.limit }
