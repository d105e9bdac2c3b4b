package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <path>...",
	Short: "Check tracked files against the cache",
	Long:  "Re-hash the cached content referenced by each <path>.dvc manifest and report mismatches.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	p, err := openProject(cmd)
	if err != nil {
		return err
	}

	var errs []error
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		tf, err := p.Verify(cmd.Context(), path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tf.Path, tf.Digest)
	}

	return errors.Join(errs...)
}
