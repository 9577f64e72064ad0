//go:build js && wasm

package main

import (
	"bytes"
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/classlogo/designer/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(append(settings(), engine.WithNudgeCommitHook(notifyChange))...)

	// Create the engine API object
	designer := js.Global().Get("Object").New()

	// --- Input events (page → engine) ---
	designer.Set("pointerDown", js.FuncOf(pointerDown))
	designer.Set("pointerMove", js.FuncOf(pointerMove))
	designer.Set("pointerUp", js.FuncOf(pointerUp))
	designer.Set("pointerLeave", js.FuncOf(pointerLeave))
	designer.Set("keyDown", js.FuncOf(keyDown))

	// --- Toolbar and panel commands ---
	designer.Set("setTool", js.FuncOf(setTool))
	designer.Set("addText", js.FuncOf(addText))
	designer.Set("addIcon", js.FuncOf(addIcon))
	designer.Set("select", js.FuncOf(selectObject))
	designer.Set("bringForward", js.FuncOf(bringForward))
	designer.Set("sendBackward", js.FuncOf(sendBackward))
	designer.Set("deleteSelected", js.FuncOf(deleteSelected))
	designer.Set("duplicate", js.FuncOf(duplicate))
	designer.Set("align", js.FuncOf(align))
	designer.Set("clear", js.FuncOf(clearDocument))
	designer.Set("undo", js.FuncOf(undo))
	designer.Set("redo", js.FuncOf(redo))
	designer.Set("zoomIn", js.FuncOf(zoomIn))
	designer.Set("zoomOut", js.FuncOf(zoomOut))
	designer.Set("updateProperties", js.FuncOf(updateProperties))

	// --- Project files ---
	designer.Set("saveProject", js.FuncOf(saveProject))
	designer.Set("loadProject", js.FuncOf(loadProject))
	designer.Set("loadSample", js.FuncOf(loadSample))
	designer.Set("exportPNG", js.FuncOf(exportPNG))

	// --- Queries (page ← engine) ---
	designer.Set("render", js.FuncOf(render))
	designer.Set("hitTest", js.FuncOf(hitTest))
	designer.Set("getProperties", js.FuncOf(getProperties))

	// Register on global scope
	js.Global().Set("designerEngine", designer)

	// Signal that WASM is ready
	js.Global().Set("designerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// settings reads the optional designerSettings object the page fetches from
// the server's /api/settings before loading the module.
func settings() []engine.Option {
	s := js.Global().Get("designerSettings")
	if s.Type() != js.TypeObject {
		return nil
	}
	var opts []engine.Option
	if w, h := s.Get("canvasWidth"), s.Get("canvasHeight"); w.Type() == js.TypeNumber && h.Type() == js.TypeNumber {
		opts = append(opts, engine.WithCanvasSize(w.Float(), h.Float()))
	}
	if v := s.Get("historyLimit"); v.Type() == js.TypeNumber {
		opts = append(opts, engine.WithHistoryLimit(v.Int()))
	}
	if v := s.Get("nudgeDebounceMs"); v.Type() == js.TypeNumber {
		opts = append(opts, engine.WithNudgeDebounce(time.Duration(v.Int())*time.Millisecond))
	}
	return opts
}

// notifyChange tells the page that a debounced nudge was committed, so it can
// refresh the undo/redo buttons.
func notifyChange() {
	if cb := js.Global().Get("designerEngine").Get("onchange"); cb.Type() == js.TypeFunction {
		cb.Invoke()
	}
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(err error) interface{} {
	return js.ValueOf(map[string]interface{}{"error": err.Error()})
}

func argPoint(args []js.Value) (engine.Point, bool) {
	if len(args) < 2 {
		return engine.Point{}, false
	}
	return engine.Point{X: args[0].Float(), Y: args[1].Float()}, true
}

func argString(args []js.Value, i int) string {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return ""
	}
	return args[i].String()
}

// --- Input Handlers ---

func pointerDown(this js.Value, args []js.Value) interface{} {
	if p, ok := argPoint(args); ok {
		eng.PointerDown(p)
	}
	return nil
}

// pointerMove(x, y, shiftKey)
func pointerMove(this js.Value, args []js.Value) interface{} {
	p, ok := argPoint(args)
	if !ok {
		return nil
	}
	proportional := len(args) > 2 && args[2].Truthy()
	eng.PointerMove(p, proportional)
	return js.ValueOf(eng.Cursor())
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	eng.PointerUp()
	return nil
}

func pointerLeave(this js.Value, args []js.Value) interface{} {
	eng.PointerLeave()
	return nil
}

// keyDown(key, ctrlKey, metaKey, shiftKey) returns true when the page should
// call preventDefault.
func keyDown(this js.Value, args []js.Value) interface{} {
	key := argString(args, 0)
	mods := engine.Modifiers{
		Ctrl:  len(args) > 1 && args[1].Truthy(),
		Meta:  len(args) > 2 && args[2].Truthy(),
		Shift: len(args) > 3 && args[3].Truthy(),
	}
	return js.ValueOf(eng.KeyDown(key, mods))
}

// --- Command Handlers ---

func setTool(this js.Value, args []js.Value) interface{} {
	if err := eng.SetTool(engine.Tool(argString(args, 0))); err != nil {
		return fail(err)
	}
	return okResult()
}

// addText(content, fontFamily, fontSize)
func addText(this js.Value, args []js.Value) interface{} {
	size := 0.0
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		size = args[2].Float()
	}
	id, added := eng.AddText(argString(args, 0), argString(args, 1), size)
	if !added {
		return js.ValueOf("")
	}
	return js.ValueOf(id)
}

func addIcon(this js.Value, args []js.Value) interface{} {
	id, added := eng.AddIcon(argString(args, 0))
	if !added {
		return js.ValueOf("")
	}
	return js.ValueOf(id)
}

func selectObject(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Select(argString(args, 0)))
}

func bringForward(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.BringForward())
}

func sendBackward(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.SendBackward())
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DeleteSelected())
}

func duplicate(this js.Value, args []js.Value) interface{} {
	id, _ := eng.Duplicate()
	return js.ValueOf(id)
}

func align(this js.Value, args []js.Value) interface{} {
	if err := eng.Align(engine.Alignment(argString(args, 0))); err != nil {
		return fail(err)
	}
	return okResult()
}

func clearDocument(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Redo())
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ZoomIn())
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.ZoomOut())
}

func updateProperties(this js.Value, args []js.Value) interface{} {
	var u engine.PropertyUpdate
	if err := json.Unmarshal([]byte(argString(args, 0)), &u); err != nil {
		return fail(err)
	}
	if err := eng.UpdateProperties(u); err != nil {
		return fail(err)
	}
	return okResult()
}

// --- Project Handlers ---

func saveProject(this js.Value, args []js.Value) interface{} {
	data, err := eng.SaveProject()
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(string(data))
}

func loadProject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing project JSON"})
	}
	if err := eng.LoadProject([]byte(args[0].String())); err != nil {
		return fail(err)
	}
	return okResult()
}

func loadSample(this js.Value, args []js.Value) interface{} {
	eng.LoadSample()
	return okResult()
}

// exportPNG(scale) returns {name, data}; data is a Uint8Array the page wraps
// in a Blob for download.
func exportPNG(this js.Value, args []js.Value) interface{} {
	scale := 1.0
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		scale = args[0].Float()
	}
	var buf bytes.Buffer
	if err := eng.ExportPNG(&buf, scale); err != nil {
		return fail(err)
	}
	out := js.Global().Get("Uint8Array").New(buf.Len())
	js.CopyBytesToJS(out, buf.Bytes())
	result := js.Global().Get("Object").New()
	result.Set("name", engine.ExportFileName)
	result.Set("data", out)
	return result
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.RenderJSON())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	p, ok := argPoint(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(p.X, p.Y))
}

func getProperties(this js.Value, args []js.Value) interface{} {
	props, selected := eng.SelectedProperties()
	if !selected {
		return js.Null()
	}
	data, err := json.Marshal(props)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(string(data))
}
