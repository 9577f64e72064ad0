package document

type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindTriangle  Kind = "triangle"
	KindText      Kind = "text"
	KindIcon      Kind = "icon"
)

// Kinds lists every object kind in a stable order.
var Kinds = []Kind{KindRectangle, KindCircle, KindTriangle, KindText, KindIcon}

// IsShape reports whether the kind is painted with the fill/stroke style.
func (k Kind) IsShape() bool {
	return k == KindRectangle || k == KindCircle || k == KindTriangle
}

type FillType string

const (
	FillSolid  FillType = "solid"
	FillLinear FillType = "linear"
	FillRadial FillType = "radial"
)

func (f FillType) Valid() bool {
	return f == FillSolid || f == FillLinear || f == FillRadial
}

const (
	// MinSize is the smallest width or height any resize may produce.
	MinSize = 10.0

	DefaultSize        = 100.0
	DefaultIconSize    = 60.0
	DefaultStrokeWidth = 2.0
	DefaultStrokeColor = "#182848"
	DefaultFillColor   = "#4b6cb7"
	DefaultGradient1   = "#4b6cb7"
	DefaultGradient2   = "#182848"
	DefaultInkColor    = "#333333"
	DefaultFontFamily  = "Arial"
	DefaultFontSize    = 40.0
)

type Gradient struct {
	Color1 string `json:"color1"`
	Color2 string `json:"color2"`
}

func DefaultGradient() Gradient {
	return Gradient{Color1: DefaultGradient1, Color2: DefaultGradient2}
}

// Common holds the fields every drawable carries: identity, the unrotated
// bounding box, rotation about the box center and the paint style.
type Common struct {
	ID       string
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Rotation float64 // radians

	Opacity     float64
	StrokeColor string
	StrokeWidth float64
	FillType    FillType
	FillColor   string
	Gradient    Gradient
}

// Base gives mutable access to the shared fields of any variant.
func (c *Common) Base() *Common { return c }

// Center returns the rotation center of the box.
func (c *Common) Center() (float64, float64) {
	return c.X + c.Width/2, c.Y + c.Height/2
}

// Object is a closed sum over the drawable kinds. The unexported marker keeps
// the variant set to the five types in this package, so type switches over
// Object are exhaustive.
type Object interface {
	Base() *Common
	Kind() Kind
	Clone() Object
	isObject()
}

type Rectangle struct{ Common }

type Circle struct{ Common }

type Triangle struct{ Common }

type Text struct {
	Common
	Content    string
	FontFamily string
	FontSize   float64
	Color      string
}

type Icon struct {
	Common
	Glyph string
	Color string
}

func (*Rectangle) Kind() Kind { return KindRectangle }
func (*Circle) Kind() Kind    { return KindCircle }
func (*Triangle) Kind() Kind  { return KindTriangle }
func (*Text) Kind() Kind      { return KindText }
func (*Icon) Kind() Kind      { return KindIcon }

func (*Rectangle) isObject() {}
func (*Circle) isObject()    {}
func (*Triangle) isObject()  {}
func (*Text) isObject()      {}
func (*Icon) isObject()      {}

// Clone copies by value; none of the variants hold references, so a value
// copy is a deep copy.
func (o *Rectangle) Clone() Object { c := *o; return &c }
func (o *Circle) Clone() Object    { c := *o; return &c }
func (o *Triangle) Clone() Object  { c := *o; return &c }
func (o *Text) Clone() Object      { c := *o; return &c }
func (o *Icon) Clone() Object      { c := *o; return &c }

// CloneAll deep-copies a slice of objects.
func CloneAll(objects []Object) []Object {
	out := make([]Object, len(objects))
	for i, o := range objects {
		out[i] = o.Clone()
	}
	return out
}
