package engine

import (
	"encoding/json"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classlogo/designer/internal/document"
)

func TestBuildSceneGraph(t *testing.T) {
	rect := box("r", 10, 20, 40, 30, 0.5)
	text := &document.Text{
		Common:  document.Common{ID: "t", X: 0, Y: 0, Width: 50, Height: 20, Opacity: 0.5},
		Content: "Hi", FontFamily: "Arial", FontSize: 20, Color: "#333333",
	}
	icon := &document.Icon{
		Common: document.Common{ID: "i", Width: 60, Height: 60, Opacity: 1},
		Glyph:  "★", Color: "#333333",
	}

	sg := BuildSceneGraph([]document.Object{rect, text, icon}, "t")
	require.Len(t, sg.Nodes, 3)
	require.NotNil(t, sg.Selected)
	assert.Equal(t, "t", sg.Selected.ID)
	assert.Same(t, sg.Nodes[1], sg.Selected)

	tl := Handles(rect)[0]
	x, y := sg.Nodes[0].WorldTransform.TransformPoint(0, 0)
	assert.InDelta(t, tl.X, x, 1e-9)
	assert.InDelta(t, tl.Y, y, 1e-9)
	assert.Len(t, sg.Nodes[0].Path, 5)

	run := sg.Nodes[1].Text
	require.NotNil(t, run)
	assert.Equal(t, "20px Arial", run.Font)
	assert.Equal(t, TextAlignLeft, run.Align)
	assert.Equal(t, BaselineTop, run.Baseline)
	assert.Equal(t, 0.5, sg.Nodes[1].Opacity)

	glyph := sg.Nodes[2].Text
	require.NotNil(t, glyph)
	assert.InDelta(t, 54, glyph.Size, 1e-9)
	assert.Equal(t, TextAlignCenter, glyph.Align)
	assert.Equal(t, BaselineMiddle, glyph.Baseline)
	assert.Equal(t, 30.0, glyph.X)
	assert.Equal(t, 30.0, glyph.Y)

	assert.Nil(t, BuildSceneGraph(nil, "missing").Selected)
}

func TestResolveFill(t *testing.T) {
	c := &document.Common{
		Width: 80, Height: 40,
		FillType: document.FillSolid, FillColor: "#ff0000",
		Gradient: document.Gradient{Color1: "#000000", Color2: "#ffffff"},
	}
	assert.Equal(t, FillStyle{Type: document.FillSolid, Color: "#ff0000"}, ResolveFill(c))

	stops := []ColorStop{{0, "#000000"}, {1, "#ffffff"}}

	c.FillType = document.FillLinear
	assert.Equal(t, FillStyle{Type: document.FillLinear, X1: 80, Y1: 40, Stops: stops}, ResolveFill(c))

	c.FillType = document.FillRadial
	assert.Equal(t, FillStyle{Type: document.FillRadial, X0: 40, Y0: 20, R: 40, Stops: stops}, ResolveFill(c))
}

func TestCompileDrawCommands(t *testing.T) {
	stroked := box("a", 0, 0, 10, 10, 0)
	stroked.StrokeColor, stroked.StrokeWidth = "#000000", 2
	bare := box("b", 0, 0, 10, 10, 0)
	bare.StrokeColor, bare.StrokeWidth = "#000000", 0
	circle := &document.Circle{Common: document.Common{ID: "c", Width: 20, Height: 20, Opacity: 0}}

	cmds := CompileDrawCommands(BuildSceneGraph([]document.Object{stroked, bare, circle}, ""), Viewport{Width: 100, Height: 50})
	require.Len(t, cmds, 4)

	bg := cmds[0]
	assert.Equal(t, "background", bg.Op)
	assert.Equal(t, CheckerCell, bg.Cell)
	assert.Equal(t, [2]string{"#f9f9f9", "#ffffff"}, bg.Colors)

	assert.Equal(t, "#000000", cmds[1].Stroke)
	assert.Equal(t, 2.0, cmds[1].StrokeWidth)
	assert.Empty(t, cmds[2].Stroke, "zero width draws no stroke")
	require.NotNil(t, cmds[2].Fill)

	assert.Len(t, cmds[3].Path, 6)
	data, err := json.Marshal(cmds[3:])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"opacity":0`, "zero opacity survives serialization")

	assert.Len(t, CompileDrawCommands(nil, Viewport{}), 0)
}

func TestCompileSelectionOverlay(t *testing.T) {
	obj := box("a", 100, 100, 50, 50, 0.3)
	cmds := CompileDrawCommands(BuildSceneGraph([]document.Object{obj}, "a"), Viewport{})
	require.Len(t, cmds, 1+11)

	outline := cmds[1]
	assert.Equal(t, SelectionBlue, outline.Stroke)
	assert.Nil(t, outline.Fill)

	handles := Handles(obj)
	for i, h := range handles[:8] {
		sq := cmds[2+i]
		require.NotNil(t, sq.Fill)
		assert.Equal(t, HandleFill, sq.Fill.Color)
		assert.InDelta(t, h.X-HandleSize/2, sq.Transform[4], 1e-9)
		assert.InDelta(t, h.Y-HandleSize/2, sq.Transform[5], 1e-9)
	}

	stalk := cmds[10]
	assert.Nil(t, stalk.Fill)
	assert.Len(t, stalk.Path, 2)
	knob := cmds[11]
	assert.Len(t, knob.Path, 6)
}

func TestSelectionBounds(t *testing.T) {
	sg := BuildSceneGraph([]document.Object{box("a", 10, 10, 20, 40, math.Pi/2)}, "a")
	b := SelectionBounds(sg)
	require.NotNil(t, b)
	assert.InDelta(t, 0, b.X, 1e-9)
	assert.InDelta(t, 20, b.Y, 1e-9)
	assert.InDelta(t, 40, b.Width, 1e-9)
	assert.InDelta(t, 20, b.Height, 1e-9)

	assert.Nil(t, SelectionBounds(BuildSceneGraph([]document.Object{box("a", 0, 0, 10, 10, 0)}, "")))
	assert.Nil(t, SelectionBounds(nil))
}

func TestLayers(t *testing.T) {
	objects := []document.Object{
		box("r", 0, 0, 10, 10, 0),
		&document.Circle{Common: document.Common{ID: "c"}},
		&document.Triangle{Common: document.Common{ID: "tr"}},
		&document.Text{Common: document.Common{ID: "t"}, Content: "Hello wonderful world"},
		&document.Text{Common: document.Common{ID: "s"}, Content: "Short"},
		&document.Icon{Common: document.Common{ID: "i"}, Glyph: "🎓"},
	}
	layers := Layers(objects, "t")
	require.Len(t, layers, 6)

	want := []LayerItem{
		{ID: "i", Kind: document.KindIcon, Icon: "fa-icons", Name: "🎓"},
		{ID: "s", Kind: document.KindText, Icon: "fa-font", Name: "Short"},
		{ID: "t", Kind: document.KindText, Icon: "fa-font", Name: "Hello wonderful…", Selected: true},
		{ID: "tr", Kind: document.KindTriangle, Icon: "fa-play fa-rotate-270", Name: "triangle"},
		{ID: "c", Kind: document.KindCircle, Icon: "fa-circle", Name: "circle"},
		{ID: "r", Kind: document.KindRectangle, Icon: "fa-square", Name: "rectangle"},
	}
	assert.Equal(t, want, layers)
	assert.Empty(t, Layers(nil, ""))
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, true},
		{"#4B6CB7", color.NRGBA{0x4b, 0x6c, 0xb7, 255}, true},
		{"#abc", color.NRGBA{0xaa, 0xbb, 0xcc, 255}, true},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}, true},
		{"transparent", color.NRGBA{}, true},
		{"red", color.NRGBA{A: 255}, false},
		{"#12345", color.NRGBA{A: 255}, false},
		{"#gggggg", color.NRGBA{A: 255}, false},
	}
	for _, tt := range tests {
		got, ok := ParseHexColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestMeasureText(t *testing.T) {
	short := MeasureText("Hi", "Arial", 40)
	long := MeasureText("Hi there", "Arial", 40)
	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)
	assert.Greater(t, MeasureText("Hi", "Arial", 80), short)
	assert.Zero(t, MeasureText("", "Arial", 40))
	assert.Greater(t, MeasureText("Hi", `"Courier New", monospace`, 40), 0.0)
}

func TestRasterize(t *testing.T) {
	red := box("r", 0, 0, 100, 100, 0)
	red.FillType, red.FillColor = document.FillSolid, "#ff0000"
	cmds := CompileDrawCommands(BuildSceneGraph([]document.Object{red}, ""), Viewport{})

	img := Rasterize(cmds, Viewport{Width: 200, Height: 200}, 1)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, color.RGBAModel.Convert(color.NRGBA{255, 0, 0, 255}), color.RGBAModel.Convert(img.At(50, 50)))
	_, _, _, a := img.At(150, 150).RGBA()
	assert.Zero(t, a)

	scaled := Rasterize(cmds, Viewport{Width: 200, Height: 200}, 2)
	assert.Equal(t, 400, scaled.Bounds().Dx())
	r, _, _, _ := scaled.At(150, 150).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestRasterizeRotated(t *testing.T) {
	// 100x20 bar turned upright covers x 90..110, y 50..150.
	bar := box("bar", 50, 90, 100, 20, math.Pi/2)
	bar.FillColor = "#0000ff"
	cmds := CompileDrawCommands(BuildSceneGraph([]document.Object{bar}, ""), Viewport{})
	img := Rasterize(cmds, Viewport{Width: 200, Height: 200}, 1)

	_, _, b, _ := img.At(100, 60).RGBA()
	assert.Equal(t, uint32(0xffff), b)
	_, _, _, a := img.At(60, 100).RGBA()
	assert.Zero(t, a)
}

func TestRasterizeOpacity(t *testing.T) {
	half := box("h", 0, 0, 50, 50, 0)
	half.FillColor, half.Opacity = "#000000", 0.5
	cmds := CompileDrawCommands(BuildSceneGraph([]document.Object{half}, ""), Viewport{})
	img := Rasterize(cmds, Viewport{Width: 50, Height: 50}, 1)

	_, _, _, a := img.At(25, 25).RGBA()
	assert.InDelta(t, 0x8080, float64(a), 0x200)
}
