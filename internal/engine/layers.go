package engine

import "github.com/classlogo/designer/internal/document"

const layerNameLimit = 15

// LayerItem is one row of the layer list.
type LayerItem struct {
	ID       string        `json:"id"`
	Kind     document.Kind `json:"kind"`
	Icon     string        `json:"icon"` // icon class for the row
	Name     string        `json:"name"`
	Selected bool          `json:"selected"`
}

// Layers projects the document into the layer list, top-most first.
func Layers(objects []document.Object, selectedID string) []LayerItem {
	items := make([]LayerItem, 0, len(objects))
	for i := len(objects) - 1; i >= 0; i-- {
		obj := objects[i]
		id := obj.Base().ID
		items = append(items, LayerItem{
			ID:       id,
			Kind:     obj.Kind(),
			Icon:     layerIcon(obj),
			Name:     layerName(obj),
			Selected: id == selectedID,
		})
	}
	return items
}

func layerIcon(obj document.Object) string {
	switch obj.(type) {
	case *document.Rectangle:
		return "fa-square"
	case *document.Circle:
		return "fa-circle"
	case *document.Triangle:
		return "fa-play fa-rotate-270"
	case *document.Text:
		return "fa-font"
	case *document.Icon:
		return "fa-icons"
	}
	return ""
}

func layerName(obj document.Object) string {
	switch o := obj.(type) {
	case *document.Text:
		r := []rune(o.Content)
		if len(r) > layerNameLimit {
			return string(r[:layerNameLimit]) + "…"
		}
		return o.Content
	case *document.Icon:
		return o.Glyph
	}
	return string(obj.Kind())
}
