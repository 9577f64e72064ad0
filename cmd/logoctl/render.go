package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/classlogo/designer/internal/document"
	"github.com/classlogo/designer/internal/export"
)

const watchDebounce = 100 * time.Millisecond

var (
	renderOut   string
	renderScale float64
	renderThumb int
	renderWatch bool
)

var renderCmd = &cobra.Command{
	Use:   "render [project.json]",
	Short: "Render a project file to PNG or PDF",
	Long: `Render a project file without selection affordances. The output format
follows the extension of --out (.png or .pdf). --thumb N writes a PNG that
fits in an N by N square instead. With --watch the file is re-rendered every
time it changes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := args[0]
		out := renderOut
		if out == "" {
			out = strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
		}
		format, err := outputFormat(out, renderThumb)
		if err != nil {
			fatal("Invalid output", err)
		}
		opts := export.Options{Canvas: canvas(), Scale: renderScale, ThumbSize: renderThumb}

		if err := renderFile(in, out, format, opts); err != nil {
			fatal("Failed to render", err)
		}
		fmt.Printf("%s -> %s\n", in, out)

		if !renderWatch {
			return
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := watch(ctx, in, func() {
			if err := renderFile(in, out, format, opts); err != nil {
				slog.Error("render failed", "file", in, "error", err)
				return
			}
			fmt.Printf("%s -> %s\n", in, out)
		}); err != nil {
			fatal("Failed to watch", err)
		}
	},
}

func outputFormat(out string, thumb int) (export.Format, error) {
	if thumb > 0 {
		return export.FormatThumbnail, nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
	switch format, err := export.ParseFormat(ext); {
	case err != nil:
		return "", err
	case format == export.FormatThumbnail:
		return "", fmt.Errorf("%w: %q", export.ErrUnknownFormat, ext)
	default:
		return format, nil
	}
}

// renderFile writes through a temp file so a viewer watching out never
// reads a half-written image.
func renderFile(in, out string, format export.Format, opts export.Options) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	objects, err := document.Decode(data)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), ".render-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := export.Write(tmp, format, objects, opts); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	slog.Debug("rendered", "in", in, "out", out, "format", format, "objects", len(objects))
	return os.Rename(tmp.Name(), out)
}

// watch calls onChange after writes to path settle. Editors often replace a
// file instead of writing it, so the parent directory is watched and events
// are filtered by name.
func watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	slog.Info("watching", "file", abs)

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Debug("event received", "name", event.Name, "op", event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (.png or .pdf)")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 1, "Resolution multiplier for raster output")
	renderCmd.Flags().IntVar(&renderThumb, "thumb", 0, "Write a thumbnail fitting in an N by N square")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Re-render when the project file changes")
}
