package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Gil-1/crewai-gamedevs/internal/assets"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create config/, knowledge/ and out/ with the bundled defaults",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		written, skipped, err := writeDefaults(dir, initForce)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, p := range written {
			fmt.Fprintf(out, "%s %s\n", successStyle.Render("created"), p)
		}
		for _, p := range skipped {
			fmt.Fprintf(out, "%s %s %s\n", dimStyle.Render("exists "), p, dimStyle.Render("(use --force to overwrite)"))
		}
		return nil
	},
}

// writeDefaults copies the embedded files into dir and creates the
// output directory.
func writeDefaults(dir string, force bool) (written, skipped []string, err error) {
	err = fs.WalkDir(assets.FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if _, statErr := os.Stat(target); statErr == nil && !force {
			skipped = append(skipped, target)
			return nil
		} else if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
			return statErr
		}

		data, err := fs.ReadFile(assets.FS(), path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to write defaults: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "out"), 0755); err != nil {
		return nil, nil, err
	}
	return written, skipped, nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	rootCmd.AddCommand(initCmd)
}
