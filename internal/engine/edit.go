package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/classlogo/designer/internal/document"
)

// DuplicateOffset is how far a duplicate is shifted from its original.
const DuplicateOffset = 10.0

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrUnknownAlignment = errors.New("unknown alignment")
	ErrInvalidFillType  = errors.New("invalid fill type")
)

// SetTool activates a toolbar tool. Picking a shape tool drops the selection.
func (e *Engine) SetTool(tool Tool) error {
	if !tool.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tool = tool
	if tool != ToolSelect {
		e.selectID("")
	}
	e.cursor = e.cursorAt(e.last)
	return nil
}

func (e *Engine) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// AddText places a text object centered on the canvas, sized to the
// measured text. Blank content is ignored. It returns the new id.
func (e *Engine) AddText(content, family string, size float64) (string, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", false
	}
	if family == "" {
		family = document.DefaultFontFamily
	}
	if size <= 0 {
		size = document.DefaultFontSize
	}
	width := max(MeasureText(content, family, size), document.MinSize)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insertNew(document.KindText,
		document.WithText(content, family, size),
		document.WithSize(width, max(size, document.MinSize)),
		document.WithCenter(e.canvas.Width/2, e.canvas.Height/2),
	)
}

// AddIcon places a 60x60 glyph centered on the canvas.
func (e *Engine) AddIcon(glyph string) (string, bool) {
	if glyph == "" {
		return "", false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insertNew(document.KindIcon, document.WithGlyph(glyph))
}

func (e *Engine) insertNew(kind document.Kind, opts ...document.Option) (string, bool) {
	obj, err := e.factory.Create(kind, opts...)
	if err != nil {
		e.logger.Error("create object", "kind", kind, "error", err)
		return "", false
	}
	if err := e.doc.Insert(obj); err != nil {
		e.logger.Error("insert object", "error", err)
		return "", false
	}
	id := obj.Base().ID
	e.selectID(id)
	e.commit()
	return id, true
}

// Select makes id the selection, as when its layer row is clicked. An empty
// or unknown id clears the selection.
func (e *Engine) Select(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.doc.Find(id); !ok {
		e.selectID("")
		return false
	}
	e.selectID(id)
	return true
}

// BringForward and SendBackward move the selection one step in the stack.
// At the boundary they do nothing and commit nothing.
func (e *Engine) BringForward() bool {
	return e.reorder(document.Forward)
}

func (e *Engine) SendBackward() bool {
	return e.reorder(document.Backward)
}

func (e *Engine) reorder(dir document.Direction) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected() == nil {
		return false
	}
	if !e.doc.Reorder(e.selectedID, dir) {
		return false
	}
	e.commit()
	return true
}

// DeleteSelected removes the selection and clears it.
func (e *Engine) DeleteSelected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleteSelected()
}

func (e *Engine) deleteSelected() bool {
	if e.selected() == nil {
		return false
	}
	e.doc.Remove(e.selectedID)
	e.selectID("")
	e.resetGesture()
	e.commit()
	return true
}

// Duplicate clones the selection with a fresh id, offset down and right, and
// selects the clone.
func (e *Engine) Duplicate() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	obj := e.selected()
	if obj == nil {
		return "", false
	}
	clone := obj.Clone()
	c := clone.Base()
	c.ID = e.factory.NewID()
	c.X += DuplicateOffset
	c.Y += DuplicateOffset
	if err := e.doc.Insert(clone); err != nil {
		e.logger.Error("duplicate", "error", err)
		return "", false
	}
	e.selectID(c.ID)
	e.commit()
	return c.ID, true
}

// Alignment positions the selection against the canvas edges.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignTop    Alignment = "top"
	AlignMiddle Alignment = "middle"
	AlignBottom Alignment = "bottom"
)

func (e *Engine) Align(a Alignment) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	obj := e.selected()
	if obj == nil {
		return nil
	}
	c := obj.Base()
	w, h := e.canvas.Width, e.canvas.Height
	switch a {
	case AlignLeft:
		c.X = 0
	case AlignCenter:
		c.X = w/2 - c.Width/2
	case AlignRight:
		c.X = w - c.Width
	case AlignTop:
		c.Y = 0
	case AlignMiddle:
		c.Y = h/2 - c.Height/2
	case AlignBottom:
		c.Y = h - c.Height
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlignment, a)
	}
	e.commit()
	return nil
}

// Clear empties the document. It is recorded in history like any edit.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.doc.Clear()
	e.selectID("")
	e.resetGesture()
	e.commit()
}

// Undo restores the previous history entry and clears the selection.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushNudge()
	objects, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(objects)
	return true
}

// Redo re-applies the next history entry and clears the selection.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushNudge()
	objects, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(objects)
	return true
}

func (e *Engine) restore(objects []document.Object) {
	if err := e.doc.Replace(objects); err != nil {
		// History only ever holds committed documents, which have unique ids.
		e.logger.Error("restore history entry", "error", err)
		return
	}
	e.selectID("")
	e.resetGesture()
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}
