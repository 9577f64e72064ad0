package engine

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/classlogo/designer/internal/document"
)

// Rasterize executes a draw command buffer into an image of the viewport
// scaled by scale. It is the server-side counterpart of the browser's
// Canvas2D replay.
func Rasterize(commands []DrawCommand, vp Viewport, scale float64) image.Image {
	return rasterContext(commands, vp, scale).Image()
}

// EncodePNG rasterizes commands and writes them as a PNG.
func EncodePNG(w io.Writer, commands []DrawCommand, vp Viewport, scale float64) error {
	return rasterContext(commands, vp, scale).EncodePNG(w)
}

func rasterContext(commands []DrawCommand, vp Viewport, scale float64) *gg.Context {
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(math.Ceil(vp.Width*scale)))
	h := max(1, int(math.Ceil(vp.Height*scale)))
	dc := gg.NewContext(w, h)

	view := Scale(scale, scale)
	for _, cmd := range commands {
		switch cmd.Op {
		case "background":
			drawBackground(dc, cmd, view)
		case "path":
			drawPath(dc, cmd, view.Multiply(commandMatrix(cmd)))
		case "text":
			drawText(dc, cmd, view.Multiply(commandMatrix(cmd)))
		}
	}
	return dc
}

func commandMatrix(cmd DrawCommand) Matrix2D {
	if len(cmd.Transform) != 6 {
		return Identity()
	}
	var m Matrix2D
	copy(m[:], cmd.Transform)
	return m
}

func drawBackground(dc *gg.Context, cmd DrawCommand, view Matrix2D) {
	light, _ := ParseHexColor(cmd.Colors[0])
	white, _ := ParseHexColor(cmd.Colors[1])
	cell := cmd.Cell
	if cell <= 0 {
		cell = CheckerCell
	}
	dc.Identity()
	for x := 0.0; x < cmd.Width; x += cell {
		for y := 0.0; y < cmd.Height; y += cell {
			if (int(x/cell)+int(y/cell))%2 == 0 {
				dc.SetColor(light)
			} else {
				dc.SetColor(white)
			}
			x0, y0 := view.TransformPoint(x, y)
			x1, y1 := view.TransformPoint(x+cell, y+cell)
			dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
			dc.Fill()
		}
	}
}

// drawPath transforms the path into device space up front, so gg's own
// matrix stays at identity and any affine transform is honored.
func drawPath(dc *gg.Context, cmd DrawCommand, m Matrix2D) {
	if len(cmd.Path) == 0 {
		return
	}
	dc.Identity()
	dc.NewSubPath()
	for _, seg := range cmd.Path {
		if len(seg) == 0 {
			continue
		}
		op, _ := seg[0].(string)
		switch op {
		case "M":
			if len(seg) >= 3 {
				dc.MoveTo(m.TransformPoint(toFloat64(seg[1]), toFloat64(seg[2])))
			}
		case "L":
			if len(seg) >= 3 {
				dc.LineTo(m.TransformPoint(toFloat64(seg[1]), toFloat64(seg[2])))
			}
		case "C":
			if len(seg) >= 7 {
				x1, y1 := m.TransformPoint(toFloat64(seg[1]), toFloat64(seg[2]))
				x2, y2 := m.TransformPoint(toFloat64(seg[3]), toFloat64(seg[4]))
				x3, y3 := m.TransformPoint(toFloat64(seg[5]), toFloat64(seg[6]))
				dc.CubicTo(x1, y1, x2, y2, x3, y3)
			}
		case "Z":
			dc.ClosePath()
		}
	}

	stroke := cmd.StrokeWidth > 0 && cmd.Stroke != ""
	if cmd.Fill != nil {
		setFill(dc, *cmd.Fill, m, cmd.Opacity)
		if stroke {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if stroke {
		c, _ := ParseHexColor(cmd.Stroke)
		dc.SetColor(withOpacity(c, cmd.Opacity))
		dc.SetLineWidth(cmd.StrokeWidth * math.Sqrt(math.Abs(m.Determinant())))
		dc.Stroke()
	}
	dc.ClearPath()
}

// setFill installs the fill paint. gg evaluates gradients in device space,
// so the gradient geometry is mapped through m first.
func setFill(dc *gg.Context, fill FillStyle, m Matrix2D, opacity float64) {
	switch fill.Type {
	case document.FillLinear:
		x0, y0 := m.TransformPoint(fill.X0, fill.Y0)
		x1, y1 := m.TransformPoint(fill.X1, fill.Y1)
		g := gg.NewLinearGradient(x0, y0, x1, y1)
		addStops(g, fill.Stops, opacity)
		dc.SetFillStyle(g)
	case document.FillRadial:
		cx, cy := m.TransformPoint(fill.X0, fill.Y0)
		r := fill.R * math.Sqrt(math.Abs(m.Determinant()))
		g := gg.NewRadialGradient(cx, cy, 0, cx, cy, r)
		addStops(g, fill.Stops, opacity)
		dc.SetFillStyle(g)
	default:
		c, _ := ParseHexColor(fill.Color)
		dc.SetColor(withOpacity(c, opacity))
	}
}

func addStops(g gg.Gradient, stops []ColorStop, opacity float64) {
	for _, s := range stops {
		c, _ := ParseHexColor(s.Color)
		g.AddColorStop(s.Offset, withOpacity(c, opacity))
	}
}

// drawText lets gg carry the rotation, since glyphs are drawn through its
// matrix. Object transforms are rigid, so translate+rotate+scale rebuilds m.
func drawText(dc *gg.Context, cmd DrawCommand, m Matrix2D) {
	run := cmd.Text
	if run == nil || run.Content == "" || run.Size <= 0 {
		return
	}
	face, err := defaultFonts.Face(run.Family, run.Size)
	if err != nil {
		return
	}

	scale := math.Sqrt(math.Abs(m.Determinant()))
	dc.Identity()
	dc.Translate(m[4], m[5])
	dc.Rotate(m.Rotation())
	dc.Scale(scale, scale)
	dc.SetFontFace(face)

	c, _ := ParseHexColor(run.Color)
	dc.SetColor(withOpacity(c, cmd.Opacity))

	ax, ay := 0.0, 1.0
	if run.Align == TextAlignCenter {
		ax = 0.5
	}
	if run.Baseline == BaselineMiddle {
		ay = 0.5
	}
	dc.DrawStringAnchored(run.Content, run.X, run.Y, ax, ay)
	dc.Identity()
}
