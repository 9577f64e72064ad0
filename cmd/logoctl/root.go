package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/classlogo/designer/internal/engine"
)

var (
	verbose      bool
	canvasWidth  float64
	canvasHeight float64
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "logoctl",
	Short: "Render and maintain logo designer project files",
	Long: `logoctl works on the JSON project files the logo designer saves.
It renders them to PNG or PDF, checks them, and rewrites older files in the
current format.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func canvas() engine.Viewport {
	return engine.Viewport{Width: canvasWidth, Height: canvasHeight}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Float64Var(&canvasWidth, "width", engine.DefaultCanvasWidth, "Canvas width")
	rootCmd.PersistentFlags().Float64Var(&canvasHeight, "height", engine.DefaultCanvasHeight, "Canvas height")
}
