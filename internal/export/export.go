package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/classlogo/designer/internal/document"
	"github.com/classlogo/designer/internal/engine"
)

// FileBase is the download name every format shares.
const FileBase = "classroom-logo"

var (
	ErrSVGNotImplemented = errors.New("svg export is not implemented")
	ErrUnknownFormat     = errors.New("unknown export format")
)

type Format string

const (
	FormatPNG       Format = "png"
	FormatPDF       Format = "pdf"
	FormatThumbnail Format = "thumbnail"
	FormatSVG       Format = "svg"
)

// ContentType is the MIME type the format is served with.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG, FormatThumbnail:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "application/octet-stream"
}

// Extension is the file extension of the format's output.
func (f Format) Extension() string {
	if f == FormatThumbnail {
		return "png"
	}
	return string(f)
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPNG, FormatPDF, FormatThumbnail, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options describe the page the objects are exported on.
type Options struct {
	Canvas engine.Viewport
	// Scale multiplies the canvas resolution of raster output.
	Scale float64
	// ThumbSize bounds the thumbnail's longer side.
	ThumbSize int
}

// Commands compiles the export draw list: checkerboard and objects, with no
// selection overlay.
func Commands(objects []document.Object, canvas engine.Viewport) []engine.DrawCommand {
	return engine.CompileDrawCommands(engine.BuildSceneGraph(objects, ""), canvas)
}

// Write renders objects in the given format.
func Write(w io.Writer, f Format, objects []document.Object, opts Options) error {
	switch f {
	case FormatPNG:
		return PNG(w, objects, opts)
	case FormatPDF:
		return PDF(w, objects, opts)
	case FormatThumbnail:
		return Thumbnail(w, objects, opts)
	case FormatSVG:
		return SVG(w, objects, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func PNG(w io.Writer, objects []document.Object, opts Options) error {
	return engine.EncodePNG(w, Commands(objects, opts.Canvas), opts.Canvas, opts.Scale)
}

// PDF places the rasterized canvas on a single page the size of the canvas,
// one point per canvas unit.
func PDF(w io.Writer, objects []document.Object, opts Options) error {
	var img bytes.Buffer
	if err := PNG(&img, objects, opts); err != nil {
		return fmt.Errorf("rasterize: %w", err)
	}

	width, height := opts.Canvas.Width, opts.Canvas.Height
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetTitle(FileBase, true)
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("canvas", imgOpts, &img)
	p.ImageOptions("canvas", 0, 0, width, height, false, imgOpts, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return p.Output(w)
}

// Thumbnail renders the canvas at scale 1 and fits it into a ThumbSize
// square, keeping the aspect ratio.
func Thumbnail(w io.Writer, objects []document.Object, opts Options) error {
	size := opts.ThumbSize
	if size <= 0 {
		size = 128
	}
	img := engine.Rasterize(Commands(objects, opts.Canvas), opts.Canvas, 1)
	thumb := imaging.Fit(img, size, size, imaging.Lanczos)
	return imaging.Encode(w, thumb, imaging.PNG)
}

// SVG is the vector export hook. Objects would map one to one onto SVG
// elements, but no writer exists yet.
func SVG(io.Writer, []document.Object, Options) error {
	return ErrSVGNotImplemented
}
