package document

import "math"

// NewSampleDocument builds a small badge logo centered on the factory's canvas.
func NewSampleDocument(f Factory) []Object {
	cx, cy := f.CanvasWidth/2, f.CanvasHeight/2

	badge, _ := f.Create(KindCircle,
		WithSize(260, 260),
		WithCenter(cx, cy),
		WithFill(FillRadial, DefaultFillColor, Gradient{Color1: "#6a89cc", Color2: "#182848"}),
		WithStroke("#0c1633", 4),
	)

	roof, _ := f.Create(KindTriangle,
		WithSize(140, 90),
		WithCenter(cx, cy-45),
		WithFill(FillSolid, "#f6b93b", DefaultGradient()),
		WithStroke("#e58e26", 2),
	)

	door, _ := f.Create(KindRectangle,
		WithSize(110, 70),
		WithCenter(cx, cy+35),
		WithFill(FillLinear, "#ffffff", Gradient{Color1: "#ffffff", Color2: "#dfe4ea"}),
		WithStroke(DefaultStrokeColor, 0),
	)

	title, _ := f.Create(KindText,
		WithText("Room 12", DefaultFontFamily, 32),
		WithSize(120, 32),
		WithCenter(cx, cy+150),
		WithColor(DefaultInkColor),
	)

	star, _ := f.Create(KindIcon,
		WithGlyph("★"),
		WithSize(48, 48),
		WithCenter(cx+95, cy-95),
		WithColor("#f6b93b"),
	)
	star.Base().Rotation = math.Pi / 12

	return []Object{badge, roof, door, title, star}
}
