package engine

import "strings"

const (
	NudgeStep      = 1.0
	NudgeStepLarge = 10.0
)

// Modifiers are the modifier keys held during a key press.
type Modifiers struct {
	Ctrl  bool
	Meta  bool
	Shift bool
}

func (m Modifiers) command() bool { return m.Ctrl || m.Meta }

// KeyDown handles a key press using DOM key names ("ArrowUp", "Delete", "d").
// It reports whether the key was consumed, so the page can suppress the
// browser default.
func (e *Engine) KeyDown(key string, mods Modifiers) bool {
	if mods.command() {
		switch strings.ToLower(key) {
		case "d":
			e.Duplicate()
			return true
		case "z":
			e.Undo()
			return true
		case "y":
			e.Redo()
			return true
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	obj := e.selected()
	if obj == nil {
		return false
	}

	step := NudgeStep
	if mods.Shift {
		step = NudgeStepLarge
	}
	c := obj.Base()
	switch key {
	case "Delete", "Backspace":
		e.deleteSelected()
		return true
	case "ArrowUp":
		c.Y -= step
	case "ArrowDown":
		c.Y += step
	case "ArrowLeft":
		c.X -= step
	case "ArrowRight":
		c.X += step
	default:
		return false
	}
	e.scheduleNudgeCommit()
	return true
}

// scheduleNudgeCommit (re)arms the single debounce timer. A burst of nudges
// produces one history entry, taken once the keys have been quiet for the
// debounce delay.
func (e *Engine) scheduleNudgeCommit() {
	e.cancelNudge()
	e.nudgeGen++
	gen := e.nudgeGen
	e.stopNudge = e.afterFunc(e.nudgeDelay, func() {
		e.mu.Lock()
		// A stale callback may still run if Stop lost the race.
		if gen != e.nudgeGen || e.stopNudge == nil {
			e.mu.Unlock()
			return
		}
		e.stopNudge = nil
		e.history.Commit(e.doc.Objects())
		e.logger.Debug("nudge commit", "index", e.history.Index())
		hook := e.onNudgeCommit
		e.mu.Unlock()

		if hook != nil {
			hook()
		}
	})
}

func (e *Engine) cancelNudge() {
	if e.stopNudge == nil {
		return
	}
	e.stopNudge()
	e.stopNudge = nil
	e.nudgeGen++
}

// NudgePending reports whether a debounced commit is scheduled.
func (e *Engine) NudgePending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopNudge != nil
}
