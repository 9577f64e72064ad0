package engine

import (
	"fmt"

	"github.com/classlogo/designer/internal/document"
)

// IconFontScale sizes an icon glyph relative to its box width.
const IconFontScale = 0.9

const iconFontStack = `"Segoe UI Emoji", "Apple Color Emoji", sans-serif`

// BuildSceneGraph builds a render-ready scene graph from the object list in
// paint order. selectedID may be empty.
func BuildSceneGraph(objects []document.Object, selectedID string) *SceneGraph {
	sg := &SceneGraph{Nodes: make([]*SceneNode, 0, len(objects))}

	for _, obj := range objects {
		node := buildNode(obj)
		sg.Nodes = append(sg.Nodes, node)
		if selectedID != "" && node.ID == selectedID {
			sg.Selected = node
		}
	}
	return sg
}

// buildNode resolves a single object. The switch is exhaustive over the
// document variants.
func buildNode(obj document.Object) *SceneNode {
	c := obj.Base()
	world := ObjectMatrix(c)

	node := &SceneNode{
		ID:             c.ID,
		Kind:           obj.Kind(),
		WorldTransform: world,
		Width:          c.Width,
		Height:         c.Height,
		Opacity:        c.Opacity,
		Bounds:         world.TransformRect(Rect{Width: c.Width, Height: c.Height}),
	}

	switch o := obj.(type) {
	case *document.Rectangle:
		node.Path = generateRectPath(c.Width, c.Height)
		applyShapeStyle(node, c)
	case *document.Circle:
		node.Path = generateCirclePath(c.Width, c.Height)
		applyShapeStyle(node, c)
	case *document.Triangle:
		node.Path = generateTrianglePath(c.Width, c.Height)
		applyShapeStyle(node, c)
	case *document.Text:
		node.Text = &TextRun{
			Content:  o.Content,
			Family:   o.FontFamily,
			Size:     o.FontSize,
			Color:    o.Color,
			Font:     fmt.Sprintf("%gpx %s", o.FontSize, o.FontFamily),
			Align:    TextAlignLeft,
			Baseline: BaselineTop,
		}
	case *document.Icon:
		size := c.Width * IconFontScale
		node.Text = &TextRun{
			Content:  o.Glyph,
			Family:   iconFontStack,
			Size:     size,
			Color:    o.Color,
			Font:     fmt.Sprintf("%gpx %s", size, iconFontStack),
			Align:    TextAlignCenter,
			Baseline: BaselineMiddle,
			X:        c.Width / 2,
			Y:        c.Height / 2,
		}
	}
	return node
}

func applyShapeStyle(node *SceneNode, c *document.Common) {
	node.Fill = ResolveFill(c)
	node.Stroke = c.StrokeColor
	node.StrokeWidth = c.StrokeWidth
}

// ResolveFill turns an object's fill mode into a concrete paint in its local
// space. Gradients span the bounding box with stops at 0 and 1.
func ResolveFill(c *document.Common) FillStyle {
	stops := []ColorStop{
		{Offset: 0, Color: c.Gradient.Color1},
		{Offset: 1, Color: c.Gradient.Color2},
	}
	switch c.FillType {
	case document.FillLinear:
		return FillStyle{
			Type:  document.FillLinear,
			X1:    c.Width,
			Y1:    c.Height,
			Stops: stops,
		}
	case document.FillRadial:
		return FillStyle{
			Type:  document.FillRadial,
			X0:    c.Width / 2,
			Y0:    c.Height / 2,
			R:     c.Width / 2,
			Stops: stops,
		}
	default:
		return FillStyle{Type: document.FillSolid, Color: c.FillColor}
	}
}

// generateRectPath generates path commands for a rectangle.
func generateRectPath(w, h float64) []PathCommand {
	return []PathCommand{
		{"M", 0.0, 0.0},
		{"L", w, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

// generateCirclePath draws a circle of radius w/2 centered in the box. The
// height only positions it.
func generateCirclePath(w, h float64) []PathCommand {
	r := w / 2
	cx, cy := w/2, h/2

	// Magic number for bezier approximation of a circle/ellipse
	// k = 4 * (sqrt(2) - 1) / 3 ≈ 0.5522847498
	k := 0.5522847498 * r

	// Four bezier curves to approximate a circle
	return []PathCommand{
		{"M", cx + r, cy},
		{"C", cx + r, cy + k, cx + k, cy + r, cx, cy + r},
		{"C", cx - k, cy + r, cx - r, cy + k, cx - r, cy},
		{"C", cx - r, cy - k, cx - k, cy - r, cx, cy - r},
		{"C", cx + k, cy - r, cx + r, cy - k, cx + r, cy},
		{"Z"},
	}
}

// generateTrianglePath: apex at top-mid, base along the bottom edge.
func generateTrianglePath(w, h float64) []PathCommand {
	return []PathCommand{
		{"M", w / 2, 0.0},
		{"L", w, h},
		{"L", 0.0, h},
		{"Z"},
	}
}

// toFloat64 converts an interface{} to float64.
func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
