package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List tracked files",
	Long:  "List all tracked files in the project, optionally limited to a directory relative to the root.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	p, err := openProject(cmd)
	if err != nil {
		return err
	}

	count := 0
	for tf, err := range p.List(prefix) {
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", tf.Path, tf.Digest, tf.SizeBytes)
		count++
	}

	if count == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "(no tracked files)")
	}

	return nil
}
