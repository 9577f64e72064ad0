package engine

import (
	"math"

	"github.com/classlogo/designer/internal/document"
)

const (
	// HandleSize is both the drawn size of a handle square and its pick radius.
	HandleSize = 8.0
	// RotationHandleOffset is how far above the top edge the rotation handle sits.
	RotationHandleOffset = 25.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type HandleType string

const (
	HandleResize   HandleType = "resize"
	HandleRotation HandleType = "rotation"
)

type HandleKey string

const (
	HandleTopLeft     HandleKey = "tl"
	HandleTopRight    HandleKey = "tr"
	HandleBottomLeft  HandleKey = "bl"
	HandleBottomRight HandleKey = "br"
	HandleTopMid      HandleKey = "tm"
	HandleBottomMid   HandleKey = "bm"
	HandleMidLeft     HandleKey = "ml"
	HandleMidRight    HandleKey = "mr"
	HandleRotate      HandleKey = "rot"
)

// IsCorner reports whether the handle adjusts both dimensions.
func (k HandleKey) IsCorner() bool {
	return k == HandleTopLeft || k == HandleTopRight || k == HandleBottomLeft || k == HandleBottomRight
}

func (k HandleKey) anchorsTop() bool  { return k == HandleTopLeft || k == HandleTopRight || k == HandleTopMid }
func (k HandleKey) anchorsLeft() bool { return k == HandleTopLeft || k == HandleBottomLeft || k == HandleMidLeft }

type Handle struct {
	Key  HandleKey  `json:"key"`
	Type HandleType `json:"type"`
	X    float64    `json:"x"`
	Y    float64    `json:"y"`
}

// RotatePoint rotates (x, y) about (cx, cy) by angle radians, in the same
// sense the renderer rotates objects. Rotating by -angle undoes it.
func RotatePoint(x, y, cx, cy, angle float64) Point {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	dx, dy := x-cx, y-cy
	return Point{
		X: cos*dx - sin*dy + cx,
		Y: sin*dx + cos*dy + cy,
	}
}

var handleOrder = []HandleKey{
	HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight,
	HandleTopMid, HandleBottomMid, HandleMidLeft, HandleMidRight,
	HandleRotate,
}

// Handles returns the eight resize handles and the rotation handle of obj in
// world space. Positions are laid out on the unrotated box and then rotated
// about its center.
func Handles(obj document.Object) []Handle {
	c := obj.Base()
	x, y, w, h := c.X, c.Y, c.Width, c.Height
	cx, cy := c.Center()

	local := map[HandleKey]Point{
		HandleTopLeft:     {x, y},
		HandleTopRight:    {x + w, y},
		HandleBottomLeft:  {x, y + h},
		HandleBottomRight: {x + w, y + h},
		HandleTopMid:      {x + w/2, y},
		HandleBottomMid:   {x + w/2, y + h},
		HandleMidLeft:     {x, y + h/2},
		HandleMidRight:    {x + w, y + h/2},
		HandleRotate:      {x + w/2, y - RotationHandleOffset},
	}

	handles := make([]Handle, 0, len(handleOrder))
	for _, key := range handleOrder {
		p := local[key]
		world := RotatePoint(p.X, p.Y, cx, cy, c.Rotation)
		typ := HandleResize
		if key == HandleRotate {
			typ = HandleRotation
		}
		handles = append(handles, Handle{Key: key, Type: typ, X: world.X, Y: world.Y})
	}
	return handles
}

// HitTestHandle reports whether p is within the pick radius of h.
func HitTestHandle(p Point, h Handle) bool {
	return math.Hypot(p.X-h.X, p.Y-h.Y) < HandleSize
}

// HandleAt returns the first handle of obj under p.
func HandleAt(obj document.Object, p Point) (Handle, bool) {
	for _, h := range Handles(obj) {
		if HitTestHandle(p, h) {
			return h, true
		}
	}
	return Handle{}, false
}

// ContainsPoint tests p against the object's box in its local space.
func ContainsPoint(obj document.Object, p Point) bool {
	c := obj.Base()
	cx, cy := c.Center()
	lp := RotatePoint(p.X, p.Y, cx, cy, -c.Rotation)
	return lp.X >= c.X && lp.X <= c.X+c.Width && lp.Y >= c.Y && lp.Y <= c.Y+c.Height
}

// ObjectAtPoint returns the top-most object containing p. It walks the list
// back to front so the visually top-most object wins on overlap.
func ObjectAtPoint(objects []document.Object, p Point) (document.Object, bool) {
	for i := len(objects) - 1; i >= 0; i-- {
		if ContainsPoint(objects[i], p) {
			return objects[i], true
		}
	}
	return nil, false
}

// CursorForHandle maps a handle to the CSS cursor shown while hovering it.
func CursorForHandle(key HandleKey) string {
	switch key {
	case HandleTopLeft, HandleBottomRight:
		return "nwse-resize"
	case HandleTopRight, HandleBottomLeft:
		return "nesw-resize"
	case HandleTopMid, HandleBottomMid:
		return "ns-resize"
	case HandleMidLeft, HandleMidRight:
		return "ew-resize"
	case HandleRotate:
		return CursorRotate
	default:
		return CursorDefault
	}
}

const (
	CursorDefault   = "default"
	CursorMove      = "move"
	CursorCrosshair = "crosshair"
	CursorRotate    = `url("data:image/svg+xml;utf8,<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"32\" height=\"32\" viewBox=\"0 0 24 24\" fill=\"none\" stroke=\"currentColor\" stroke-width=\"2\" stroke-linecap=\"round\" stroke-linejoin=\"round\"><path d=\"M23 4v6h-6\"/><path d=\"M1 20v-6h6\"/><path d=\"M3.51 9a9 9 0 0 1 14.85-3.36L23 10\"/><path d=\"M20.49 15a9 9 0 0 1-14.85 3.36L1 14\"/></svg>") 16 16, auto`
)
