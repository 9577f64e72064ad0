package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/classlogo/designer/internal/document"
)

var validateCmd = &cobra.Command{
	Use:   "validate [project.json...]",
	Short: "Check that project files load",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := 0
		for _, path := range args {
			n, err := validateFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Printf("%s: ok (%d objects)\n", path, n)
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func validateFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	objects, err := document.Decode(data)
	if err != nil {
		return 0, err
	}
	return len(objects), nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
