package ui

import "github.com/piwi3910/SymbolStudio/internal/configuration"

const defaultMaxDepth = 50

// Snapshot captures the editable state of the main window: the family, the
// data and the common settings. Panel parameters are rebuilt from the
// family defaults on restore.
type Snapshot struct {
	Family string
	Data   string
	Common configuration.Common
	Label  string // Human-readable description (e.g. "Change Family")
}

// History manages undo/redo stacks of snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied. A snapshot
// equal to the top of the stack, labels aside, is not pushed again.
func (h *History) Push(s Snapshot) {
	h.redoStack = nil
	if n := len(h.undoStack); n > 0 && h.undoStack[n-1].sameState(s) {
		return
	}
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
}

// UndoLabel returns the label of the edit Undo would revert.
func (h *History) UndoLabel() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].Label
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. It returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo is the inverse of Undo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func (s Snapshot) sameState(o Snapshot) bool {
	return s.Family == o.Family && s.Data == o.Data && s.Common == o.Common
}

// MakeSnapshot creates a snapshot of the window state with a label.
func MakeSnapshot(family, data string, common configuration.Common, label string) Snapshot {
	return Snapshot{
		Family: family,
		Data:   data,
		Common: common,
		Label:  label,
	}
}
