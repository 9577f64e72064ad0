package document

import (
	"errors"
	"fmt"

	"github.com/classlogo/designer/internal/typeid"
)

var ErrUnknownKind = errors.New("unknown object kind")

// Factory builds objects with the editor's default styling. It never inserts
// into a document.
type Factory struct {
	CanvasWidth  float64
	CanvasHeight float64
	NewID        func() string
}

func NewFactory(canvasWidth, canvasHeight float64) Factory {
	return Factory{
		CanvasWidth:  canvasWidth,
		CanvasHeight: canvasHeight,
		NewID:        typeid.NewObjectID,
	}
}

type draft struct {
	common     Common
	centerX    *float64
	centerY    *float64
	content    string
	fontFamily string
	fontSize   float64
	glyph      string
	color      string
}

type Option func(*draft)

// WithCenter places the box so its center lands on (x, y). It is applied
// after sizing, so the order of options does not matter.
func WithCenter(x, y float64) Option {
	return func(s *draft) { s.centerX, s.centerY = &x, &y }
}

func WithPosition(x, y float64) Option {
	return func(s *draft) { s.common.X, s.common.Y = x, y }
}

func WithSize(width, height float64) Option {
	return func(s *draft) { s.common.Width, s.common.Height = width, height }
}

func WithText(content, fontFamily string, fontSize float64) Option {
	return func(s *draft) {
		s.content, s.fontFamily, s.fontSize = content, fontFamily, fontSize
	}
}

func WithGlyph(glyph string) Option {
	return func(s *draft) { s.glyph = glyph }
}

// WithColor sets the ink color of text and icons.
func WithColor(color string) Option {
	return func(s *draft) { s.color = color }
}

func WithOpacity(opacity float64) Option {
	return func(s *draft) { s.common.Opacity = opacity }
}

func WithFill(fillType FillType, color string, gradient Gradient) Option {
	return func(s *draft) {
		s.common.FillType, s.common.FillColor, s.common.Gradient = fillType, color, gradient
	}
}

func WithStroke(color string, width float64) Option {
	return func(s *draft) { s.common.StrokeColor, s.common.StrokeWidth = color, width }
}

// Defaults returns the shared fields of a new object: fresh id, a 100x100 box
// centered on the canvas and the default paint.
func (f Factory) Defaults() Common {
	return Common{
		ID:          f.NewID(),
		X:           f.CanvasWidth/2 - DefaultSize/2,
		Y:           f.CanvasHeight/2 - DefaultSize/2,
		Width:       DefaultSize,
		Height:      DefaultSize,
		Opacity:     1,
		StrokeColor: DefaultStrokeColor,
		StrokeWidth: DefaultStrokeWidth,
		FillType:    FillSolid,
		FillColor:   DefaultFillColor,
		Gradient:    DefaultGradient(),
	}
}

// Create builds an object of the given kind from the defaults plus opts.
func (f Factory) Create(kind Kind, opts ...Option) (Object, error) {
	s := draft{
		common:     f.Defaults(),
		fontFamily: DefaultFontFamily,
		fontSize:   DefaultFontSize,
		color:      DefaultInkColor,
	}
	if kind == KindIcon {
		s.common.Width, s.common.Height = DefaultIconSize, DefaultIconSize
		s.common.X = f.CanvasWidth/2 - DefaultIconSize/2
		s.common.Y = f.CanvasHeight/2 - DefaultIconSize/2
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.centerX != nil {
		s.common.X = *s.centerX - s.common.Width/2
		s.common.Y = *s.centerY - s.common.Height/2
	}

	switch kind {
	case KindRectangle:
		return &Rectangle{Common: s.common}, nil
	case KindCircle:
		return &Circle{Common: s.common}, nil
	case KindTriangle:
		return &Triangle{Common: s.common}, nil
	case KindText:
		return &Text{
			Common:     s.common,
			Content:    s.content,
			FontFamily: s.fontFamily,
			FontSize:   s.fontSize,
			Color:      s.color,
		}, nil
	case KindIcon:
		return &Icon{Common: s.common, Glyph: s.glyph, Color: s.color}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
