package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/classlogo/designer/internal/config"
	"github.com/classlogo/designer/internal/document"
	"github.com/classlogo/designer/internal/engine"
	"github.com/classlogo/designer/internal/export"
	mw "github.com/classlogo/designer/internal/middleware"
	"github.com/classlogo/designer/internal/project"
)

// newRouter wires every route. Middleware only runs on matched routes, so
// anything the page calls cross-origin also lists OPTIONS for the preflight.
func newRouter(cfg *config.Config, projectHandler *project.Handler, exportHandler *export.Handler) *mux.Router {
	canvas := engine.Viewport{Width: float64(cfg.CanvasWidth), Height: float64(cfg.CanvasHeight)}

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Editor settings the page hands to the wasm engine at start-up
	r.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"canvasWidth":     cfg.CanvasWidth,
			"canvasHeight":    cfg.CanvasHeight,
			"historyLimit":    cfg.HistoryLimit,
			"nudgeDebounceMs": cfg.NudgeDebounce.Milliseconds(),
			"thumbnailSize":   cfg.ThumbnailSize,
		})
	}).Methods("GET")

	// Starter document for the "load sample" button
	r.HandleFunc("/api/sample", func(w http.ResponseWriter, r *http.Request) {
		data, err := document.Encode(document.NewSampleDocument(document.NewFactory(canvas.Width, canvas.Height)))
		if err != nil {
			slog.Error("encode sample", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/projects", projectHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/projects/{name}", projectHandler.Get).Methods("GET")
	api.HandleFunc("/projects/{name}", projectHandler.Put).Methods("PUT", "OPTIONS")
	api.HandleFunc("/projects/{name}", projectHandler.Delete).Methods("DELETE", "OPTIONS")

	r.HandleFunc("/export/{format}", exportHandler.Export).Methods("POST", "OPTIONS")

	// Web bundle: index.html, the page script, wasm_exec.js and designer.wasm
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.WebDir))).Methods("GET")

	return r
}
