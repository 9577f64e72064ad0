package engine

import "github.com/classlogo/designer/internal/document"

const (
	CheckerCell   = 20.0
	CheckerLight  = "#f9f9f9"
	CheckerWhite  = "#ffffff"
	SelectionBlue = "#4a90e2"
	HandleFill    = "#ffffff"
)

// Viewport is the canvas the commands are painted on, in document units.
type Viewport struct {
	Width  float64
	Height float64
}

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op          string        `json:"op"`                    // "background", "path", "text"
	ObjectID    string        `json:"objectId,omitempty"`    // For hit correlation
	Transform   []float64     `json:"transform,omitempty"`   // [a, b, c, d, e, f] affine matrix
	Path        []PathCommand `json:"path,omitempty"`        // Path data for "path" ops
	Fill        *FillStyle    `json:"fill,omitempty"`        // nil means no fill
	Stroke      string        `json:"stroke,omitempty"`      // Stroke color
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // 0 means no stroke
	Opacity     float64       `json:"opacity"`               // Global alpha
	Text        *TextRun      `json:"text,omitempty"`

	// Background checkerboard
	Width  float64   `json:"width,omitempty"`
	Height float64   `json:"height,omitempty"`
	Cell   float64   `json:"cell,omitempty"`
	Colors [2]string `json:"colors,omitzero"`
}

// CompileDrawCommands generates a draw command buffer from a scene graph.
// Commands are in painter's order: background, objects, then the selection
// overlay. A zero viewport skips the background.
func CompileDrawCommands(sg *SceneGraph, vp Viewport) []DrawCommand {
	var commands []DrawCommand
	if vp.Width > 0 && vp.Height > 0 {
		commands = append(commands, DrawCommand{
			Op:      "background",
			Width:   vp.Width,
			Height:  vp.Height,
			Cell:    CheckerCell,
			Colors:  [2]string{CheckerLight, CheckerWhite},
			Opacity: 1,
		})
	}
	if sg == nil {
		return commands
	}

	for _, node := range sg.Nodes {
		compileNode(node, &commands)
	}
	if sg.Selected != nil {
		compileSelection(sg.Selected, &commands)
	}
	return commands
}

// compileNode emits the draw command for one object.
func compileNode(node *SceneNode, commands *[]DrawCommand) {
	if node.Text != nil {
		text := *node.Text
		*commands = append(*commands, DrawCommand{
			Op:        "text",
			ObjectID:  node.ID,
			Transform: node.WorldTransform.ToSlice(),
			Text:      &text,
			Opacity:   node.Opacity,
		})
		return
	}
	if len(node.Path) == 0 {
		return
	}

	fill := node.Fill
	cmd := DrawCommand{
		Op:        "path",
		ObjectID:  node.ID,
		Transform: node.WorldTransform.ToSlice(),
		Path:      node.Path,
		Fill:      &fill,
		Opacity:   node.Opacity,
	}
	if node.StrokeWidth > 0 {
		cmd.Stroke = node.Stroke
		cmd.StrokeWidth = node.StrokeWidth
	}
	*commands = append(*commands, cmd)
}

// compileSelection emits the outline, the resize handle squares and the
// rotation stalk with its knob. Handles are drawn axis-aligned in world space.
func compileSelection(node *SceneNode, commands *[]DrawCommand) {
	*commands = append(*commands, DrawCommand{
		Op:          "path",
		Transform:   node.WorldTransform.ToSlice(),
		Path:        generateRectPath(node.Width, node.Height),
		Stroke:      SelectionBlue,
		StrokeWidth: 1,
		Opacity:     1,
	})

	handleFill := FillStyle{Type: document.FillSolid, Color: HandleFill}
	cx, cy := node.WorldTransform.TransformPoint(node.Width/2, node.Height/2)
	for _, h := range nodeHandles(node) {
		if h.Type == HandleRotation {
			*commands = append(*commands, DrawCommand{
				Op:          "path",
				Transform:   Identity().ToSlice(),
				Path:        []PathCommand{{"M", cx, cy}, {"L", h.X, h.Y}},
				Stroke:      SelectionBlue,
				StrokeWidth: 1,
				Opacity:     1,
			})
			r := HandleSize / 1.5
			*commands = append(*commands, DrawCommand{
				Op:          "path",
				Transform:   Translate(h.X-r, h.Y-r).ToSlice(),
				Path:        generateCirclePath(2*r, 2*r),
				Fill:        &handleFill,
				Stroke:      SelectionBlue,
				StrokeWidth: 1,
				Opacity:     1,
			})
			continue
		}
		*commands = append(*commands, DrawCommand{
			Op:          "path",
			Transform:   Translate(h.X-HandleSize/2, h.Y-HandleSize/2).ToSlice(),
			Path:        generateRectPath(HandleSize, HandleSize),
			Fill:        &handleFill,
			Stroke:      SelectionBlue,
			StrokeWidth: 1,
			Opacity:     1,
		})
	}
}

// nodeHandles places the handles from the node's transform; it agrees with
// Handles for the object the node was built from.
func nodeHandles(node *SceneNode) []Handle {
	w, h := node.Width, node.Height
	local := map[HandleKey]Point{
		HandleTopLeft:     {0, 0},
		HandleTopRight:    {w, 0},
		HandleBottomLeft:  {0, h},
		HandleBottomRight: {w, h},
		HandleTopMid:      {w / 2, 0},
		HandleBottomMid:   {w / 2, h},
		HandleMidLeft:     {0, h / 2},
		HandleMidRight:    {w, h / 2},
		HandleRotate:      {w / 2, -RotationHandleOffset},
	}
	handles := make([]Handle, 0, len(handleOrder))
	for _, key := range handleOrder {
		p := local[key]
		x, y := node.WorldTransform.TransformPoint(p.X, p.Y)
		typ := HandleResize
		if key == HandleRotate {
			typ = HandleRotation
		}
		handles = append(handles, Handle{Key: key, Type: typ, X: x, Y: y})
	}
	return handles
}

// SelectionBounds returns the world-space bounding box of the selected node,
// or nil without a selection.
func SelectionBounds(sg *SceneGraph) *Rect {
	if sg == nil || sg.Selected == nil {
		return nil
	}
	b := sg.Selected.Bounds
	return &b
}
