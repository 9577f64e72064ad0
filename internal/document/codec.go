package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrInvalidProject = errors.New("invalid project file")

// projectJSON is the on-disk project file: objects bottom-to-top.
type projectJSON struct {
	Objects []objectJSON `json:"objects"`
}

// objectJSON is the flat wire form of every variant. Optional fields that
// older files may omit are pointers so the decoder can tell missing from zero.
type objectJSON struct {
	ID       json.RawMessage `json:"id"`
	Type     Kind            `json:"type"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Rotation float64         `json:"rotation"`
	Opacity  *float64        `json:"opacity,omitempty"`

	StrokeWidth float64   `json:"strokeWidth"`
	StrokeColor string    `json:"strokeColor"`
	FillType    FillType  `json:"fillType,omitempty"`
	FillColor   string    `json:"fillColor"`
	Gradient    *Gradient `json:"gradient,omitempty"`

	Text       *string  `json:"text,omitempty"`
	FontFamily string   `json:"fontFamily,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	Color      string   `json:"color,omitempty"`
	Icon       *string  `json:"icon,omitempty"`
}

// Encode writes the project file, indented two spaces.
func Encode(objects []Object) ([]byte, error) {
	out := projectJSON{Objects: make([]objectJSON, 0, len(objects))}
	for _, o := range objects {
		out.Objects = append(out.Objects, toJSON(o))
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSON(o Object) objectJSON {
	c := o.Base()
	id, _ := json.Marshal(c.ID)
	opacity := c.Opacity
	gradient := c.Gradient
	j := objectJSON{
		ID:          id,
		Type:        o.Kind(),
		X:           c.X,
		Y:           c.Y,
		Width:       c.Width,
		Height:      c.Height,
		Rotation:    c.Rotation,
		Opacity:     &opacity,
		StrokeWidth: c.StrokeWidth,
		StrokeColor: c.StrokeColor,
		FillType:    c.FillType,
		FillColor:   c.FillColor,
		Gradient:    &gradient,
	}
	switch v := o.(type) {
	case *Rectangle, *Circle, *Triangle:
	case *Text:
		content, size := v.Content, v.FontSize
		j.Text = &content
		j.FontFamily = v.FontFamily
		j.FontSize = &size
		j.Color = v.Color
	case *Icon:
		glyph := v.Glyph
		j.Icon = &glyph
		j.Color = v.Color
	}
	return j
}

// Decode parses a project file and backfills fields older files lack. It
// returns an error wrapping ErrInvalidProject for malformed input, unknown
// kinds and repeated ids.
func Decode(data []byte) ([]Object, error) {
	var in projectJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}

	objects := make([]Object, 0, len(in.Objects))
	for i, j := range in.Objects {
		o, err := fromJSON(j)
		if err != nil {
			return nil, fmt.Errorf("%w: object %d: %v", ErrInvalidProject, i, err)
		}
		objects = append(objects, o)
	}
	if err := checkUnique(objects); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	return objects, nil
}

// fromJSON raises widths and heights below MinSize to it; files written by
// hand or by older editors may carry zero or negative boxes.
func fromJSON(j objectJSON) (Object, error) {
	id, err := decodeID(j.ID)
	if err != nil {
		return nil, err
	}

	c := Common{
		ID:          id,
		X:           j.X,
		Y:           j.Y,
		Width:       max(j.Width, MinSize),
		Height:      max(j.Height, MinSize),
		Rotation:    j.Rotation,
		Opacity:     1,
		StrokeColor: j.StrokeColor,
		StrokeWidth: j.StrokeWidth,
		FillType:    FillSolid,
		FillColor:   j.FillColor,
		Gradient:    DefaultGradient(),
	}
	if j.Opacity != nil {
		c.Opacity = *j.Opacity
	}
	if j.FillType != "" {
		if !j.FillType.Valid() {
			return nil, fmt.Errorf("unknown fill type %q", j.FillType)
		}
		c.FillType = j.FillType
	}
	if j.Gradient != nil {
		c.Gradient = *j.Gradient
	}

	switch j.Type {
	case KindRectangle:
		return &Rectangle{Common: c}, nil
	case KindCircle:
		return &Circle{Common: c}, nil
	case KindTriangle:
		return &Triangle{Common: c}, nil
	case KindText:
		t := &Text{Common: c, FontFamily: j.FontFamily, Color: j.Color}
		if j.Text != nil {
			t.Content = *j.Text
		}
		if j.FontSize != nil {
			t.FontSize = *j.FontSize
		}
		return t, nil
	case KindIcon:
		ic := &Icon{Common: c, Color: j.Color}
		if j.Icon != nil {
			ic.Glyph = *j.Icon
		}
		return ic, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, j.Type)
	}
}

// decodeID accepts both string ids and the numeric timestamp ids written by
// earlier versions of the editor; numbers keep their decimal spelling.
func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("missing id")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		if s == "" {
			return "", errors.New("empty id")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}
