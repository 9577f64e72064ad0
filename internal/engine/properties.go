package engine

import (
	"fmt"

	"github.com/classlogo/designer/internal/document"
)

// Properties is the appearance of the selected object as the property panel
// shows it. Geometry is not part of the panel.
type Properties struct {
	ID          string            `json:"id"`
	Kind        document.Kind     `json:"kind"`
	Opacity     float64           `json:"opacity"`
	FillType    document.FillType `json:"fillType"`
	FillColor   string            `json:"fillColor"`
	Gradient    document.Gradient `json:"gradient"`
	StrokeColor string            `json:"strokeColor"`
	StrokeWidth float64           `json:"strokeWidth"`
	// TextColor is the ink of text and icon objects; empty for shapes.
	TextColor string `json:"textColor,omitempty"`
}

// PropertyUpdate is a full batch from the panel. Shapes take the fill and
// stroke fields, text and icons take TextColor, every kind takes Opacity.
type PropertyUpdate struct {
	Opacity     float64           `json:"opacity"`
	FillType    document.FillType `json:"fillType"`
	FillColor   string            `json:"fillColor"`
	Gradient    document.Gradient `json:"gradient"`
	StrokeColor string            `json:"strokeColor"`
	StrokeWidth float64           `json:"strokeWidth"`
	TextColor   string            `json:"textColor"`
}

// SelectedProperties returns the panel view of the selection.
func (e *Engine) SelectedProperties() (Properties, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	obj := e.selected()
	if obj == nil {
		return Properties{}, false
	}
	c := obj.Base()
	p := Properties{
		ID:          c.ID,
		Kind:        obj.Kind(),
		Opacity:     c.Opacity,
		FillType:    c.FillType,
		FillColor:   c.FillColor,
		Gradient:    c.Gradient,
		StrokeColor: c.StrokeColor,
		StrokeWidth: c.StrokeWidth,
	}
	switch o := obj.(type) {
	case *document.Text:
		p.TextColor = o.Color
	case *document.Icon:
		p.TextColor = o.Color
	}
	return p, true
}

// UpdateProperties applies u to the selection in one step and commits it.
// Without a selection it does nothing. An invalid fill type rejects the
// whole batch.
func (e *Engine) UpdateProperties(u PropertyUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	obj := e.selected()
	if obj == nil {
		return nil
	}
	c := obj.Base()

	switch o := obj.(type) {
	case *document.Text:
		o.Color = u.TextColor
	case *document.Icon:
		o.Color = u.TextColor
	case *document.Rectangle, *document.Circle, *document.Triangle:
		if !u.FillType.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidFillType, u.FillType)
		}
		c.FillType = u.FillType
		c.FillColor = u.FillColor
		c.Gradient = u.Gradient
		c.StrokeColor = u.StrokeColor
		c.StrokeWidth = max(u.StrokeWidth, 0)
	}
	c.Opacity = min(max(u.Opacity, 0), 1)
	e.commit()
	return nil
}
