package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Track files or directories",
	Long: "Copy content into the cache, write a <file>.dvc manifest next to each file " +
		"and list the file in .gitignore. Directories are added recursively.",
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}

	var errs []error
	for _, arg := range args {
		// Arguments are relative to the working directory, not --root.
		path, err := filepath.Abs(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		res, err := p.Add(cmd.Context(), path)
		if res != nil {
			for _, f := range res.Files {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", f.Path)
			}
		}
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
