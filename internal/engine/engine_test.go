package engine

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classlogo/designer/internal/document"
)

// fakeClock records scheduled callbacks so tests decide when they fire.
type fakeClock struct {
	timers []*fakeTimer
}

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) func() bool {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (c *fakeClock) fire() {
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			t.f()
		}
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("obj_%d", n)
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	base := []Option{
		WithIDGenerator(sequentialIDs()),
		WithAfterFunc(clock.AfterFunc),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewEngine(append(base, opts...)...), clock
}

// placeShape clicks empty canvas with a shape tool and releases.
func placeShape(t *testing.T, e *Engine, tool Tool, at Point) string {
	t.Helper()
	require.NoError(t, e.SetTool(tool))
	e.PointerDown(at)
	e.PointerUp()
	id := e.SelectedID()
	require.NotEmpty(t, id)
	return id
}

func find(t *testing.T, e *Engine, id string) document.Object {
	t.Helper()
	for _, o := range e.Objects() {
		if o.Base().ID == id {
			return o
		}
	}
	t.Fatalf("object %s not found", id)
	return nil
}

func TestNewEngineStartsEmpty(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Empty(t, e.Objects())
	assert.Equal(t, 1, e.HistoryLen())
	assert.False(t, e.CanUndo())
	assert.Equal(t, ToolSelect, e.Tool())
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, Viewport{Width: 800, Height: 600}, e.Canvas())
}

func TestShapeToolCreatesShapeAtPointer(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.SetTool(ToolRectangle))

	e.PointerDown(Point{200, 150})

	objects := e.Objects()
	require.Len(t, objects, 1)
	c := objects[0].Base()
	assert.Equal(t, document.KindRectangle, objects[0].Kind())
	assert.Equal(t, 150.0, c.X)
	assert.Equal(t, 100.0, c.Y)
	assert.Equal(t, "obj_1", e.SelectedID())
	assert.Equal(t, ToolSelect, e.Tool(), "tool reverts to select")
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, 2, e.HistoryLen())

	require.True(t, e.Undo())
	assert.Empty(t, e.Objects())
	assert.Empty(t, e.SelectedID())
}

func TestSetTool(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolCircle, Point{100, 100})

	require.NoError(t, e.SetTool(ToolTriangle))
	assert.Empty(t, e.SelectedID(), "shape tool drops the selection")

	require.ErrorIs(t, e.SetTool("lasso"), ErrUnknownTool)
	assert.Equal(t, ToolTriangle, e.Tool())
}

func TestClickEmptyCanvasDeselects(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{100, 100})

	e.PointerDown(Point{700, 500})
	e.PointerUp()
	assert.Empty(t, e.SelectedID())
	assert.Len(t, e.Objects(), 1)
}

func TestDragAccumulatesFrameDeltas(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.HistoryLen()

	e.PointerDown(Point{200, 150})
	assert.Equal(t, ModeDragging, e.Mode())
	assert.Equal(t, CursorMove, e.Cursor())

	e.PointerMove(Point{210, 150}, false)
	assert.Equal(t, 160.0, find(t, e, id).Base().X)
	e.PointerMove(Point{215, 155}, false)
	c := find(t, e, id).Base()
	assert.Equal(t, 165.0, c.X)
	assert.Equal(t, 105.0, c.Y)
	assert.Equal(t, before, e.HistoryLen(), "no commit mid-gesture")

	e.PointerUp()
	assert.Equal(t, before+1, e.HistoryLen())
	assert.Equal(t, ModeIdle, e.Mode())
}

func TestClickWithoutMoveDoesNotCommit(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.HistoryLen()

	e.PointerDown(Point{200, 150})
	e.PointerUp()
	assert.Equal(t, before, e.HistoryLen())
}

func TestPointerLeaveEndsGesture(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.HistoryLen()

	e.PointerDown(Point{200, 150})
	e.PointerMove(Point{220, 170}, false)
	e.PointerLeave()

	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, before+1, e.HistoryLen())
}

func TestTopmostObjectIsPicked(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 200})
	top := placeShape(t, e, ToolCircle, Point{260, 260})

	e.PointerDown(Point{700, 500})
	e.PointerUp()
	e.PointerDown(Point{225, 225})
	e.PointerUp()
	assert.Equal(t, top, e.SelectedID())
}

func TestResizeFromHandles(t *testing.T) {
	// The rectangle spans (150,100)-(250,200).
	tests := []struct {
		name         string
		grab, to     Point
		proportional bool
		want         document.Common
	}{
		{"bottom right", Point{250, 200}, Point{270, 230}, false,
			document.Common{X: 150, Y: 100, Width: 120, Height: 130}},
		{"top left anchors bottom right", Point{150, 100}, Point{170, 110}, false,
			document.Common{X: 170, Y: 110, Width: 80, Height: 90}},
		{"top mid", Point{200, 100}, Point{230, 80}, false,
			document.Common{X: 150, Y: 80, Width: 100, Height: 120}},
		{"mid left", Point{150, 150}, Point{130, 190}, false,
			document.Common{X: 130, Y: 100, Width: 120, Height: 100}},
		{"bottom mid", Point{200, 200}, Point{200, 180}, false,
			document.Common{X: 150, Y: 100, Width: 100, Height: 80}},
		{"mid right ignores lock", Point{250, 150}, Point{290, 160}, true,
			document.Common{X: 150, Y: 100, Width: 140, Height: 100}},
		{"locked, x dominates", Point{250, 200}, Point{290, 210}, true,
			document.Common{X: 150, Y: 100, Width: 140, Height: 140}},
		{"locked, y dominates", Point{250, 200}, Point{260, 240}, true,
			document.Common{X: 150, Y: 100, Width: 140, Height: 140}},
		{"locked top left", Point{150, 100}, Point{130, 95}, true,
			document.Common{X: 130, Y: 80, Width: 120, Height: 120}},
		{"clamped top left keeps far edges", Point{150, 100}, Point{400, 400}, false,
			document.Common{X: 240, Y: 190, Width: 10, Height: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t)
			id := placeShape(t, e, ToolRectangle, Point{200, 150})
			before := e.HistoryLen()

			e.PointerDown(tt.grab)
			require.Equal(t, ModeResizing, e.Mode())
			e.PointerMove(tt.to, tt.proportional)
			e.PointerUp()

			c := find(t, e, id).Base()
			assert.InDelta(t, tt.want.X, c.X, 1e-9, "x")
			assert.InDelta(t, tt.want.Y, c.Y, 1e-9, "y")
			assert.InDelta(t, tt.want.Width, c.Width, 1e-9, "width")
			assert.InDelta(t, tt.want.Height, c.Height, 1e-9, "height")
			assert.Equal(t, before+1, e.HistoryLen())
		})
	}
}

func TestResizeUsesLocalAxes(t *testing.T) {
	c := &document.Common{X: 0, Y: 0, Width: 100, Height: 100, Rotation: math.Pi / 2}

	// Turned a quarter, the local x axis points down the screen.
	resize(c, HandleBottomRight, 0, 20, false)
	assert.InDelta(t, 120, c.Width, 1e-9)
	assert.InDelta(t, 100, c.Height, 1e-9)
}

func TestResizeNeverGoesBelowMinimum(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	keys := handleOrder[:8]

	c := &document.Common{X: 100, Y: 100, Width: 60, Height: 40}
	for i := 0; i < 2000; i++ {
		c.Rotation = rng.Float64() * 2 * math.Pi
		key := keys[rng.IntN(len(keys))]
		dx := rng.Float64()*400 - 200
		dy := rng.Float64()*400 - 200
		resize(c, key, dx, dy, rng.IntN(2) == 0)

		require.GreaterOrEqual(t, c.Width, document.MinSize)
		require.GreaterOrEqual(t, c.Height, document.MinSize)
	}
}

func TestProportionalResizeOfFlatBox(t *testing.T) {
	c := &document.Common{X: 100, Y: 100, Width: 100, Height: 0}
	resize(c, HandleTopRight, 0, 0, true)
	assert.False(t, math.IsNaN(c.Width) || math.IsInf(c.Width, 0))
	assert.GreaterOrEqual(t, c.Width, document.MinSize)
	assert.GreaterOrEqual(t, c.Height, document.MinSize)

	e, _ := newTestEngine(t)
	require.NoError(t, e.LoadProject([]byte(`{"objects":[
		{"id":1,"type":"rectangle","x":100,"y":100,"width":100,"height":0}
	]}`)))
	require.True(t, e.Select("1"))

	e.PointerDown(Point{200, 100})
	require.Equal(t, ModeResizing, e.Mode())
	e.PointerMove(Point{200, 100}, true)
	e.PointerUp()

	got := find(t, e, "1").Base()
	assert.Equal(t, 100.0, got.Width)
	assert.Equal(t, document.MinSize, got.Height)

	_, err := e.SaveProject()
	require.NoError(t, err)
}

func TestRotateTracksPointer(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.HistoryLen()

	// Rotation handle sits 25 above the top edge.
	e.PointerDown(Point{200, 75})
	require.Equal(t, ModeRotating, e.Mode())
	assert.Equal(t, CursorRotate, e.Cursor())

	e.PointerMove(Point{300, 150}, false)
	obj := find(t, e, id)
	assert.InDelta(t, math.Pi/2, obj.Base().Rotation, 1e-9)

	rot := Handles(obj)[8]
	require.Equal(t, HandleRotate, rot.Key)
	assert.InDelta(t, 150, rot.Y, 1e-9, "handle lies on the ray to the pointer")
	assert.Greater(t, rot.X, 200.0)

	e.PointerMove(Point{200, 50}, false)
	assert.InDelta(t, 0, find(t, e, id).Base().Rotation, 1e-9)

	e.PointerUp()
	assert.Equal(t, before+1, e.HistoryLen())
}

func TestHoverCursor(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})

	tests := []struct {
		at   Point
		want string
	}{
		{Point{250, 200}, "nwse-resize"},
		{Point{250, 100}, "nesw-resize"},
		{Point{200, 200}, "ns-resize"},
		{Point{150, 150}, "ew-resize"},
		{Point{200, 75}, CursorRotate},
		{Point{200, 150}, CursorMove},
		{Point{600, 400}, CursorDefault},
	}
	for _, tt := range tests {
		e.PointerMove(tt.at, false)
		assert.Equal(t, tt.want, e.Cursor(), "at %v", tt.at)
	}

	require.NoError(t, e.SetTool(ToolCircle))
	e.PointerMove(Point{600, 400}, false)
	assert.Equal(t, CursorCrosshair, e.Cursor())
}

func TestNudgesCoalesceIntoOneCommit(t *testing.T) {
	e, clock := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.HistoryLen()

	for i := 0; i < 5; i++ {
		assert.True(t, e.KeyDown("ArrowRight", Modifiers{}))
	}
	assert.Equal(t, 155.0, find(t, e, id).Base().X)
	assert.Equal(t, before, e.HistoryLen(), "nothing committed before the debounce fires")
	assert.Equal(t, 1, clock.pending(), "each nudge replaces the pending timer")
	assert.True(t, e.NudgePending())
	assert.Equal(t, DefaultNudgeDebounce, clock.timers[len(clock.timers)-1].d)

	clock.fire()
	assert.Equal(t, before+1, e.HistoryLen())
	assert.False(t, e.NudgePending())

	require.True(t, e.Undo())
	require.True(t, e.Select(id))
	assert.Equal(t, 150.0, find(t, e, id).Base().X, "five nudges undo as one step")
}

func TestNudgeDirectionsAndShift(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})

	e.KeyDown("ArrowUp", Modifiers{Shift: true})
	e.KeyDown("ArrowLeft", Modifiers{})
	e.KeyDown("ArrowDown", Modifiers{})
	c := find(t, e, id).Base()
	assert.Equal(t, 149.0, c.X)
	assert.Equal(t, 91.0, c.Y)
}

func TestNudgeIsFlushedBeforeUndo(t *testing.T) {
	e, clock := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})

	e.KeyDown("ArrowDown", Modifiers{})
	require.True(t, e.Undo())

	assert.Equal(t, 100.0, find(t, e, id).Base().Y)
	assert.True(t, e.CanRedo())
	assert.Zero(t, clock.pending())
}

func TestNudgeFoldedIntoImmediateCommit(t *testing.T) {
	e, clock := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.HistoryLen()

	e.KeyDown("ArrowDown", Modifiers{})
	require.NoError(t, e.Align(AlignLeft))

	assert.Zero(t, clock.pending())
	assert.Equal(t, before+1, e.HistoryLen())
}

func TestNudgeWithRealTimer(t *testing.T) {
	e := NewEngine(
		WithNudgeDebounce(5*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	e.AddIcon("★")
	before := e.HistoryLen()

	e.KeyDown("ArrowLeft", Modifiers{})
	e.KeyDown("ArrowLeft", Modifiers{})
	assert.Eventually(t, func() bool { return e.HistoryLen() == before+1 },
		time.Second, 5*time.Millisecond)
	assert.False(t, e.NudgePending())
}

func TestKeysWithoutSelection(t *testing.T) {
	e, clock := newTestEngine(t)
	assert.False(t, e.KeyDown("ArrowUp", Modifiers{}))
	assert.False(t, e.KeyDown("Delete", Modifiers{}))
	assert.True(t, e.KeyDown("d", Modifiers{Ctrl: true}), "shortcut is consumed even when it does nothing")
	assert.Zero(t, clock.pending())
	assert.Empty(t, e.Objects())
}

func TestDeleteClearsSelectionAcrossUndoRedo(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})

	assert.True(t, e.KeyDown("Delete", Modifiers{}))
	assert.Empty(t, e.Objects())
	assert.Empty(t, e.SelectedID())

	require.True(t, e.Undo())
	assert.Len(t, e.Objects(), 1)
	assert.Empty(t, e.SelectedID())

	require.True(t, e.Redo())
	assert.Empty(t, e.Objects())
	assert.Empty(t, e.SelectedID())
	_, ok := e.SelectedProperties()
	assert.False(t, ok)

	require.True(t, e.Undo())
	assert.False(t, e.Select("missing"))
	assert.True(t, e.Select(id))
	assert.True(t, e.KeyDown("Backspace", Modifiers{}))
	assert.Empty(t, e.Objects())
}

func TestDuplicateShortcut(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolTriangle, Point{200, 150})
	before := e.HistoryLen()

	assert.True(t, e.KeyDown("D", Modifiers{Meta: true}))

	objects := e.Objects()
	require.Len(t, objects, 2)
	clone := objects[1].Base()
	assert.Equal(t, "obj_2", clone.ID)
	assert.NotEqual(t, id, clone.ID)
	assert.Equal(t, objects[0].Base().X+DuplicateOffset, clone.X)
	assert.Equal(t, objects[0].Base().Y+DuplicateOffset, clone.Y)
	assert.Equal(t, document.KindTriangle, objects[1].Kind())
	assert.Equal(t, clone.ID, e.SelectedID())
	assert.Equal(t, before+1, e.HistoryLen())
}

func TestUndoRedoShortcuts(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})

	assert.True(t, e.KeyDown("z", Modifiers{Ctrl: true}))
	assert.Empty(t, e.Objects())
	assert.True(t, e.KeyDown("y", Modifiers{Ctrl: true}))
	assert.Len(t, e.Objects(), 1)

	assert.False(t, e.Redo())
}

func TestReorder(t *testing.T) {
	e, _ := newTestEngine(t)
	bottom := placeShape(t, e, ToolRectangle, Point{100, 100})
	top := placeShape(t, e, ToolCircle, Point{300, 300})
	before := e.HistoryLen()

	assert.False(t, e.BringForward(), "already on top")
	assert.Equal(t, before, e.HistoryLen())

	assert.True(t, e.SendBackward())
	objects := e.Objects()
	assert.Equal(t, top, objects[0].Base().ID)
	assert.Equal(t, bottom, objects[1].Base().ID)
	assert.Equal(t, before+1, e.HistoryLen())

	assert.False(t, e.SendBackward())
	assert.Equal(t, before+1, e.HistoryLen())
}

func TestAlign(t *testing.T) {
	tests := []struct {
		align Alignment
		x, y  float64
	}{
		{AlignLeft, 0, 100},
		{AlignCenter, 350, 100},
		{AlignRight, 700, 100},
		{AlignTop, 150, 0},
		{AlignMiddle, 150, 250},
		{AlignBottom, 150, 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			e, _ := newTestEngine(t)
			id := placeShape(t, e, ToolRectangle, Point{200, 150})
			before := e.HistoryLen()

			require.NoError(t, e.Align(tt.align))
			c := find(t, e, id).Base()
			assert.Equal(t, tt.x, c.X)
			assert.Equal(t, tt.y, c.Y)
			assert.Equal(t, before+1, e.HistoryLen())
		})
	}

	e, _ := newTestEngine(t)
	require.NoError(t, e.Align(AlignLeft), "no selection is a no-op")
	placeShape(t, e, ToolRectangle, Point{200, 150})
	require.ErrorIs(t, e.Align("diagonal"), ErrUnknownAlignment)
}

func TestClear(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})
	placeShape(t, e, ToolCircle, Point{400, 300})

	e.Clear()
	assert.Empty(t, e.Objects())
	assert.Empty(t, e.SelectedID())

	require.True(t, e.Undo())
	assert.Len(t, e.Objects(), 2)
}

func TestAddTextAndIcon(t *testing.T) {
	e, _ := newTestEngine(t)

	_, ok := e.AddText("   ", "Arial", 40)
	assert.False(t, ok)

	id, ok := e.AddText("  Hello  ", "Arial", 40)
	require.True(t, ok)
	text, ok := find(t, e, id).(*document.Text)
	require.True(t, ok)
	assert.Equal(t, "Hello", text.Content)
	assert.Equal(t, 40.0, text.Height)
	assert.Greater(t, text.Width, 0.0)
	assert.InDelta(t, 400, text.X+text.Width/2, 1e-9)
	assert.InDelta(t, 300, text.Y+text.Height/2, 1e-9)
	assert.Equal(t, document.DefaultInkColor, text.Color)
	assert.Equal(t, id, e.SelectedID())

	id, ok = e.AddText("i", "Arial", 6)
	require.True(t, ok)
	small := find(t, e, id).Base()
	assert.Equal(t, document.MinSize, small.Width)
	assert.Equal(t, document.MinSize, small.Height)

	id, ok = e.AddIcon("🎓")
	require.True(t, ok)
	icon := find(t, e, id).Base()
	assert.Equal(t, 60.0, icon.Width)
	assert.Equal(t, 370.0, icon.X)
	assert.Equal(t, 270.0, icon.Y)
	assert.Equal(t, 4, e.HistoryLen())
}

func TestZoomClamps(t *testing.T) {
	e, _ := newTestEngine(t)

	assert.Equal(t, 1.1, e.ZoomIn())
	for i := 0; i < 30; i++ {
		e.ZoomIn()
	}
	assert.Equal(t, MaxZoom, e.Zoom())
	for i := 0; i < 40; i++ {
		e.ZoomOut()
	}
	assert.Equal(t, MinZoom, e.Zoom())
}

func TestPropertyPanel(t *testing.T) {
	e, _ := newTestEngine(t)
	require.NoError(t, e.UpdateProperties(PropertyUpdate{Opacity: 0.5}), "no selection is a no-op")

	id := placeShape(t, e, ToolCircle, Point{200, 150})
	props, ok := e.SelectedProperties()
	require.True(t, ok)
	assert.Equal(t, id, props.ID)
	assert.Equal(t, document.KindCircle, props.Kind)
	assert.Equal(t, document.FillSolid, props.FillType)
	assert.Empty(t, props.TextColor)

	before := e.HistoryLen()
	update := PropertyUpdate{
		Opacity:     0.4,
		FillType:    document.FillRadial,
		FillColor:   "#ff0000",
		Gradient:    document.Gradient{Color1: "#000000", Color2: "#ffffff"},
		StrokeColor: "#00ff00",
		StrokeWidth: 5,
	}
	require.NoError(t, e.UpdateProperties(update))
	props, _ = e.SelectedProperties()
	assert.Equal(t, 0.4, props.Opacity)
	assert.Equal(t, document.FillRadial, props.FillType)
	assert.Equal(t, update.Gradient, props.Gradient)
	assert.Equal(t, 5.0, props.StrokeWidth)
	assert.Equal(t, before+1, e.HistoryLen())

	update.FillType = "plaid"
	require.ErrorIs(t, e.UpdateProperties(update), ErrInvalidFillType)
	assert.Equal(t, before+1, e.HistoryLen())

	textID, _ := e.AddText("Hi", "Arial", 20)
	require.NoError(t, e.UpdateProperties(PropertyUpdate{Opacity: 2, TextColor: "#123456"}))
	text := find(t, e, textID).(*document.Text)
	assert.Equal(t, "#123456", text.Color)
	assert.Equal(t, 1.0, text.Opacity, "opacity is clamped")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{100, 100})
	placeShape(t, e, ToolCircle, Point{200, 200})
	placeShape(t, e, ToolTriangle, Point{300, 300})
	e.AddText("Class of 2026", "Georgia", 36)
	e.AddIcon("★")
	require.NoError(t, e.UpdateProperties(PropertyUpdate{Opacity: 0.75, TextColor: "#aa0000"}))

	data, err := e.SaveProject()
	require.NoError(t, err)

	loaded, _ := newTestEngine(t)
	require.NoError(t, loaded.LoadProject(data))
	assert.Equal(t, e.Objects(), loaded.Objects())
	assert.Empty(t, loaded.SelectedID())
	assert.Equal(t, 2, loaded.HistoryLen())

	require.True(t, loaded.Undo())
	assert.Empty(t, loaded.Objects())
}

func TestLoadMalformedLeavesDocumentAlone(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})
	before := e.Objects()
	historyLen := e.HistoryLen()

	err := e.LoadProject([]byte(`{"objects": [ {"id": 1, `))
	require.ErrorIs(t, err, document.ErrInvalidProject)

	assert.Equal(t, before, e.Objects())
	assert.Equal(t, id, e.SelectedID())
	assert.Equal(t, historyLen, e.HistoryLen())
}

func TestLoadSample(t *testing.T) {
	e, _ := newTestEngine(t)
	e.LoadSample()
	assert.Len(t, e.Objects(), 5)
	assert.Equal(t, 2, e.HistoryLen())
}

func TestRenderFrame(t *testing.T) {
	e, _ := newTestEngine(t)
	placeShape(t, e, ToolRectangle, Point{200, 150})
	id := placeShape(t, e, ToolCircle, Point{400, 300})

	frame := e.Render()
	require.NotEmpty(t, frame.Commands)
	assert.Equal(t, "background", frame.Commands[0].Op)
	assert.Equal(t, "obj_1", frame.Commands[1].ObjectID)
	assert.Equal(t, id, frame.Commands[2].ObjectID)
	// outline, eight squares, rotation stalk and knob
	assert.Len(t, frame.Commands, 3+11)
	assert.Equal(t, SelectionBlue, frame.Commands[3].Stroke)

	require.Len(t, frame.Layers, 2)
	assert.Equal(t, id, frame.Layers[0].ID, "layers list the top-most first")
	assert.True(t, frame.Layers[0].Selected)
	assert.Equal(t, id, frame.Selected)
	assert.True(t, frame.CanUndo)
	assert.False(t, frame.CanRedo)
	require.NotNil(t, frame.SelectionBounds)
	c := find(t, e, id).Base()
	assert.InDelta(t, c.X, frame.SelectionBounds.X, 1e-9)
	assert.InDelta(t, c.Y, frame.SelectionBounds.Y, 1e-9)
	assert.InDelta(t, c.Width, frame.SelectionBounds.Width, 1e-9)
	assert.InDelta(t, c.Height, frame.SelectionBounds.Height, 1e-9)
	assert.Contains(t, e.RenderJSON(), `"selectionBounds":{`)

	e.PointerDown(Point{700, 550})
	frame = e.Render()
	assert.Len(t, frame.Commands, 3, "no overlay without a selection")
	assert.Nil(t, frame.SelectionBounds)

	out := e.RenderJSON()
	assert.Contains(t, out, `"op":"background"`)
	assert.NotContains(t, out, "selectionBounds")
}

func TestExportPNGHidesSelection(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})

	var buf bytes.Buffer
	require.NoError(t, e.ExportPNG(&buf, 1))
	assert.Equal(t, id, e.SelectedID(), "selection is restored")

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	// Just outside the bottom-right corner, where the handle square would be.
	r, g, b, a := img.At(253, 203).RGBA()
	assert.Equal(t, uint32(0xf9f9), r)
	assert.Equal(t, uint32(0xf9f9), g)
	assert.Equal(t, uint32(0xf9f9), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestHitTestQuery(t *testing.T) {
	e, _ := newTestEngine(t)
	id := placeShape(t, e, ToolRectangle, Point{200, 150})
	assert.Equal(t, id, e.HitTest(200, 150))
	assert.Empty(t, e.HitTest(700, 500))
}
