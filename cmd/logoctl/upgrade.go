package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/classlogo/designer/internal/document"
)

var upgradeOut string

var upgradeCmd = &cobra.Command{
	Use:   "upgrade [project.json]",
	Short: "Rewrite a project file in the current format",
	Long: `Loads a project file, filling in fields that older files lack
(opacity, fill type, gradient, font size), and writes it back.
With --out the result goes to a new file instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := upgradeOut
		if out == "" {
			out = args[0]
		}
		n, err := upgradeFile(args[0], out)
		if err != nil {
			fatal("Failed to upgrade project", err)
		}
		slog.Debug("project upgraded", "in", args[0], "out", out, "objects", n)
		fmt.Printf("%s: wrote %d objects\n", out, n)
	},
}

func upgradeFile(in, out string) (int, error) {
	data, err := os.ReadFile(in)
	if err != nil {
		return 0, err
	}
	objects, err := document.Decode(data)
	if err != nil {
		return 0, err
	}
	encoded, err := document.Encode(objects)
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(out, encoded, 0o644); err != nil {
		return 0, err
	}
	return len(objects), nil
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
	upgradeCmd.Flags().StringVarP(&upgradeOut, "out", "o", "", "Write to this file instead of in place")
}
