package engine

import "github.com/classlogo/designer/internal/document"

// SceneGraph is the render-ready state of the document: one resolved node
// per object in paint order, plus the selected node if any.
type SceneGraph struct {
	Nodes    []*SceneNode
	Selected *SceneNode
}

// SceneNode is a resolved object ready for rendering. Transforms are
// computed and the fill style is resolved against the object's box.
type SceneNode struct {
	ID   string
	Kind document.Kind

	// Maps the object's local space (origin at the top-left of its
	// unrotated box) to world space.
	WorldTransform Matrix2D

	Width   float64
	Height  float64
	Opacity float64

	// Render data (resolved from document)
	Path        []PathCommand // for shapes
	Fill        FillStyle
	Stroke      string
	StrokeWidth float64
	Text        *TextRun // for text and icons

	Bounds Rect // axis-aligned bounding box in world space
}

// PathCommand represents a single path segment for rendering.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["C", x1, y1, x2, y2, x, y], ["Z"].
type PathCommand []interface{}

// FillStyle is a fill resolved against an object's local box.
type FillStyle struct {
	Type  document.FillType `json:"type"`
	Color string            `json:"color,omitempty"`

	// Linear: (X0,Y0) -> (X1,Y1). Radial: circle at (X0,Y0) with radius R.
	X0    float64     `json:"x0,omitempty"`
	Y0    float64     `json:"y0,omitempty"`
	X1    float64     `json:"x1,omitempty"`
	Y1    float64     `json:"y1,omitempty"`
	R     float64     `json:"r,omitempty"`
	Stops []ColorStop `json:"stops,omitempty"`
}

type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
)

type TextBaseline string

const (
	BaselineTop    TextBaseline = "top"
	BaselineMiddle TextBaseline = "middle"
)

// TextRun is a single line of text anchored at (X, Y) in local space.
type TextRun struct {
	Content  string       `json:"content"`
	Family   string       `json:"family"`
	Size     float64      `json:"size"`
	Color    string       `json:"color"`
	Font     string       `json:"font"` // CSS shorthand for Canvas2D
	Align    TextAlign    `json:"align"`
	Baseline TextBaseline `json:"baseline"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
