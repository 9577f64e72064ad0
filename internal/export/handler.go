package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/classlogo/designer/internal/document"
	"github.com/classlogo/designer/internal/engine"
)

const (
	maxUploadSize = 5 << 20 // 5MB of project JSON
	maxScale      = 4
)

type Handler struct {
	canvas    engine.Viewport
	thumbSize int
}

func NewHandler(canvas engine.Viewport, thumbSize int) *Handler {
	return &Handler{canvas: canvas, thumbSize: thumbSize}
}

// Export renders the project file in the request body. The format comes
// from the {format} route variable; ?scale= sets the raster resolution,
// ?size= the thumbnail bound and ?name= the download name.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, "invalid format: must be png, pdf, thumbnail, or svg", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}
	objects, err := document.Decode(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	scale, err := strconv.ParseFloat(r.URL.Query().Get("scale"), 64)
	if err != nil || scale <= 0 || scale > maxScale {
		scale = 1
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = h.thumbSize
	}
	name := sanitizeName(r.URL.Query().Get("name"))

	slog.Info("export started", "format", format, "objects", len(objects), "scale", scale)

	var out bytes.Buffer
	err = Write(&out, format, objects, Options{Canvas: h.canvas, Scale: scale, ThumbSize: size})
	switch {
	case errors.Is(err, ErrSVGNotImplemented):
		http.Error(w, err.Error(), http.StatusNotImplemented)
		return
	case err != nil:
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, fmt.Sprintf("encoding failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	out.WriteTo(w)

	slog.Info("export complete", "format", format, "size", out.Len())
}

// sanitizeName keeps [A-Za-z0-9_-] and replaces the rest with '-'.
func sanitizeName(name string) string {
	if name == "" {
		return FileBase
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
