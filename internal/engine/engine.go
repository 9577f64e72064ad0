package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/classlogo/designer/internal/document"
	"github.com/classlogo/designer/internal/history"
)

const (
	DefaultCanvasWidth   = 800.0
	DefaultCanvasHeight  = 600.0
	DefaultNudgeDebounce = 300 * time.Millisecond

	MinZoom  = 0.2
	MaxZoom  = 3.0
	ZoomStep = 0.1

	// ExportFileName is the download name of a raster export.
	ExportFileName = "classroom-logo.png"
)

// AfterFunc schedules f after d and returns a func that cancels it. The
// returned func reports whether the call was stopped before it ran.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Engine is the editor context: the document, the selection, the history,
// the active tool and the state of the gesture in progress. It processes
// input events from the frontend and returns render frames.
//
// All exported methods are safe to call from multiple goroutines; they are
// serialised so the deferred nudge commit never interleaves with an event.
type Engine struct {
	mu sync.Mutex

	// Document state
	doc        *document.Document
	factory    document.Factory
	history    *history.History
	selectedID string

	canvas Viewport
	zoom   float64
	tool   Tool

	// Gesture state
	mode    Mode
	handle  HandleKey
	last    Point
	mutated bool
	cursor  string

	// Nudge debounce
	afterFunc     AfterFunc
	nudgeDelay    time.Duration
	stopNudge     func() bool
	nudgeGen      int
	onNudgeCommit func()

	historyLimit int
	logger       *slog.Logger
}

type Option func(*Engine)

func WithCanvasSize(width, height float64) Option {
	return func(e *Engine) {
		if width > 0 && height > 0 {
			e.canvas = Viewport{Width: width, Height: height}
		}
	}
}

func WithHistoryLimit(limit int) Option {
	return func(e *Engine) { e.historyLimit = limit }
}

func WithNudgeDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.nudgeDelay = d
		}
	}
}

// WithAfterFunc replaces the timer used to debounce nudges.
func WithAfterFunc(fn AfterFunc) Option {
	return func(e *Engine) { e.afterFunc = fn }
}

// WithIDGenerator replaces the id source of newly created objects.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.factory.NewID = newID }
}

// WithNudgeCommitHook registers fn to run after a debounced nudge commit,
// outside the engine lock. The browser bridge uses it to refresh the
// undo/redo buttons.
func WithNudgeCommitHook(fn func()) Option {
	return func(e *Engine) { e.onNudgeCommit = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates an engine with an empty document. The empty document is
// the first history entry, so undoing the first edit returns to it.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		doc:          document.New(),
		canvas:       Viewport{Width: DefaultCanvasWidth, Height: DefaultCanvasHeight},
		zoom:         1,
		tool:         ToolSelect,
		cursor:       CursorDefault,
		afterFunc:    timeAfterFunc,
		nudgeDelay:   DefaultNudgeDebounce,
		historyLimit: history.DefaultLimit,
		logger:       slog.Default(),
	}
	e.factory = document.NewFactory(e.canvas.Width, e.canvas.Height)
	for _, opt := range opts {
		opt(e)
	}
	e.factory.CanvasWidth, e.factory.CanvasHeight = e.canvas.Width, e.canvas.Height
	e.history = history.New(e.historyLimit)
	e.history.Commit(e.doc.Objects())
	return e
}

// commit snapshots the live document. Any pending nudge is folded into this
// snapshot, so its timer is dropped.
func (e *Engine) commit() {
	e.cancelNudge()
	e.history.Commit(e.doc.Objects())
	e.logger.Debug("history commit", "objects", e.doc.Len(), "index", e.history.Index())
}

// flushNudge commits a pending nudge right away. Called before anything that
// moves through history, so the nudge becomes its own undo step.
func (e *Engine) flushNudge() {
	if e.stopNudge != nil {
		e.commit()
	}
}

func (e *Engine) selected() document.Object {
	if e.selectedID == "" {
		return nil
	}
	obj, ok := e.doc.Find(e.selectedID)
	if !ok {
		return nil
	}
	return obj
}

func (e *Engine) selectID(id string) {
	e.selectedID = id
}

// --- Queries ---

// Frame is everything the page needs to repaint after an event.
type Frame struct {
	Commands        []DrawCommand `json:"commands"`
	Layers          []LayerItem   `json:"layers"`
	Selected        string        `json:"selected,omitempty"`
	SelectionBounds *Rect         `json:"selectionBounds,omitempty"` // world space, for placing the property panel
	Cursor          string        `json:"cursor"`
	Tool            Tool          `json:"tool"`
	Zoom            float64       `json:"zoom"`
	CanUndo         bool          `json:"canUndo"`
	CanRedo         bool          `json:"canRedo"`
}

// Render evaluates the scene and returns a frame. The layer list is
// recomputed on every render.
func (e *Engine) Render() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frame()
}

func (e *Engine) frame() Frame {
	objects := e.doc.Objects()
	sg := BuildSceneGraph(objects, e.selectedID)
	return Frame{
		Commands: CompileDrawCommands(sg, e.canvas),
		Layers:   Layers(objects, e.selectedID),
		Selected:        e.selectedID,
		SelectionBounds: SelectionBounds(sg),
		Cursor:          e.cursor,
		Tool:            e.tool,
		Zoom:            e.zoom,
		CanUndo:         e.history.CanUndo(),
		CanRedo:         e.history.CanRedo(),
	}
}

// RenderJSON returns the frame serialized for the browser.
func (e *Engine) RenderJSON() string {
	data, err := json.Marshal(e.Render())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Objects returns a deep copy of the document, bottom to top.
func (e *Engine) Objects() []document.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Snapshot()
}

// SelectedID returns the selected object id, or "".
func (e *Engine) SelectedID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectedID
}

func (e *Engine) Cursor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *Engine) Zoom() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

func (e *Engine) Canvas() Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canvas
}

// HistoryIndex and HistoryLen expose the undo stack position.
func (e *Engine) HistoryIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Index()
}

func (e *Engine) HistoryLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len()
}

// HitTest returns the id of the top-most object at (x, y), or "".
func (e *Engine) HitTest(x, y float64) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if obj, ok := ObjectAtPoint(e.doc.Objects(), Point{x, y}); ok {
		return obj.Base().ID
	}
	return ""
}

// --- Zoom ---

// Zoom only changes how the page scales the canvas; pointer coordinates stay
// in document units.
func (e *Engine) ZoomIn() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoom = clampZoom(e.zoom + ZoomStep)
	return e.zoom
}

func (e *Engine) ZoomOut() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoom = clampZoom(e.zoom - ZoomStep)
	return e.zoom
}

func clampZoom(z float64) float64 {
	z = math.Round(z*10) / 10
	return min(max(z, MinZoom), MaxZoom)
}

// --- Project files ---

// SaveProject encodes the document as a project file.
func (e *Engine) SaveProject() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return document.Encode(e.doc.Objects())
}

// LoadProject replaces the document with a decoded project file. On error
// the live document, selection and history are left untouched.
func (e *Engine) LoadProject(data []byte) error {
	objects, err := document.Decode(data)
	if err != nil {
		e.logger.Warn("load project failed", "error", err)
		return fmt.Errorf("load project: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.replace(objects)
}

// LoadSample replaces the document with the built-in sample logo.
func (e *Engine) LoadSample() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.replace(document.NewSampleDocument(e.factory)); err != nil {
		e.logger.Error("load sample", "error", err)
	}
}

func (e *Engine) replace(objects []document.Object) error {
	e.flushNudge()
	if err := e.doc.Replace(objects); err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	e.resetGesture()
	e.selectID("")
	e.commit()
	e.logger.Debug("document replaced", "objects", len(objects))
	return nil
}

// --- Export ---

// ExportPNG writes the canvas as a PNG with no selection affordances. The
// selection is cleared for the render and restored afterwards.
func (e *Engine) ExportPNG(w io.Writer, scale float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	selected := e.selectedID
	e.selectedID = ""
	defer func() { e.selectedID = selected }()

	sg := BuildSceneGraph(e.doc.Objects(), e.selectedID)
	if err := EncodePNG(w, CompileDrawCommands(sg, e.canvas), e.canvas, scale); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}
