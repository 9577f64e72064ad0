package engine

import (
	"fmt"
	"math"

	"github.com/classlogo/designer/internal/document"
)

// Mode is the state of the pointer gesture.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDragging
	ModeResizing
	ModeRotating
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeDragging:
		return "dragging"
	case ModeResizing:
		return "resizing"
	case ModeRotating:
		return "rotating"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tool is the active toolbar tool. Shape tools create an object on the next
// click on empty canvas.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolTriangle  Tool = "triangle"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolRectangle, ToolCircle, ToolTriangle:
		return true
	}
	return false
}

func (t Tool) kind() document.Kind { return document.Kind(t) }

// PointerDown starts a gesture: a handle of the selection wins, then the
// top-most object under the pointer, then shape creation, then deselect.
func (e *Engine) PointerDown(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.last = p

	if obj := e.selected(); obj != nil {
		if h, ok := HandleAt(obj, p); ok {
			if h.Type == HandleRotation {
				e.mode = ModeRotating
			} else {
				e.mode = ModeResizing
				e.handle = h.Key
			}
			e.cursor = CursorForHandle(h.Key)
			return
		}
	}

	if obj, ok := ObjectAtPoint(e.doc.Objects(), p); ok {
		e.selectID(obj.Base().ID)
		e.mode = ModeDragging
		e.cursor = CursorMove
		return
	}

	if e.tool != ToolSelect {
		e.createShapeAt(p)
		return
	}
	e.selectID("")
}

// createShapeAt centers a new object of the active tool's kind on p, selects
// it and switches back to the select tool.
func (e *Engine) createShapeAt(p Point) {
	obj, err := e.factory.Create(e.tool.kind(), document.WithCenter(p.X, p.Y))
	if err != nil {
		e.logger.Error("create shape", "tool", e.tool, "error", err)
		return
	}
	if err := e.doc.Insert(obj); err != nil {
		e.logger.Error("insert shape", "error", err)
		return
	}
	e.selectID(obj.Base().ID)
	e.tool = ToolSelect
	e.commit()
	e.cursor = e.cursorAt(p)
}

// PointerMove updates the gesture in progress, or the hover cursor when idle.
// proportional locks the aspect ratio of corner resizes.
func (e *Engine) PointerMove(p Point, proportional bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == ModeIdle {
		e.cursor = e.cursorAt(p)
		return
	}

	obj := e.selected()
	if obj == nil {
		return
	}
	c := obj.Base()
	dx, dy := p.X-e.last.X, p.Y-e.last.Y

	switch e.mode {
	case ModeDragging:
		c.X += dx
		c.Y += dy
	case ModeResizing:
		resize(c, e.handle, dx, dy, proportional)
	case ModeRotating:
		cx, cy := c.Center()
		c.Rotation = math.Atan2(p.Y-cy, p.X-cx) + math.Pi/2
	}
	e.mutated = true
	e.last = p
}

// PointerUp ends the gesture, committing it if anything changed.
func (e *Engine) PointerUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endGesture()
}

// PointerLeave is handled like a release.
func (e *Engine) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.endGesture()
}

func (e *Engine) endGesture() {
	if e.mode == ModeIdle {
		return
	}
	if e.mutated {
		e.commit()
	}
	e.resetGesture()
	e.cursor = e.cursorAt(e.last)
}

func (e *Engine) resetGesture() {
	e.mode = ModeIdle
	e.handle = ""
	e.mutated = false
}

// cursorAt picks the hover cursor for p.
func (e *Engine) cursorAt(p Point) string {
	if obj := e.selected(); obj != nil {
		if h, ok := HandleAt(obj, p); ok {
			return CursorForHandle(h.Key)
		}
	}
	if _, ok := ObjectAtPoint(e.doc.Objects(), p); ok {
		return CursorMove
	}
	if e.tool != ToolSelect {
		return CursorCrosshair
	}
	return CursorDefault
}

// resize applies a frame delta through handle key. The delta is rotated into
// the object's local axes first. With proportional set on a corner handle the
// axis that moved more decides which dimension follows the other. Both
// dimensions are clamped to MinSize, and top/left handles move the origin so
// the opposite edge stays put.
func resize(c *document.Common, key HandleKey, dx, dy float64, proportional bool) {
	sin, cos := math.Sincos(c.Rotation)
	localDx := dx*cos + dy*sin
	localDy := -dx*sin + dy*cos

	width, height := c.Width, c.Height
	aspect := c.Width / c.Height
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = 1
	}

	switch key {
	case HandleBottomRight:
		width += localDx
		height += localDy
	case HandleBottomLeft:
		width -= localDx
		height += localDy
	case HandleTopRight:
		width += localDx
		height -= localDy
	case HandleTopLeft:
		width -= localDx
		height -= localDy
	case HandleTopMid:
		height -= localDy
	case HandleBottomMid:
		height += localDy
	case HandleMidLeft:
		width -= localDx
	case HandleMidRight:
		width += localDx
	default:
		return
	}

	if proportional && key.IsCorner() {
		if math.Abs(localDx) > math.Abs(localDy) {
			height = width / aspect
		} else {
			width = height * aspect
		}
	}

	width = max(width, document.MinSize)
	height = max(height, document.MinSize)

	if key.anchorsLeft() {
		c.X = c.X + c.Width - width
	}
	if key.anchorsTop() {
		c.Y = c.Y + c.Height - height
	}
	c.Width, c.Height = width, height
}
