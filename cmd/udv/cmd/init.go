package cmd

import (
	"fmt"

	"github.com/aweris/udv"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a udv project",
	Long:  "Create the .udv control directory in the current git working tree.",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	root := getRoot()

	fmt.Fprintln(cmd.ErrOrStderr(), "Initializing udv project...")

	if err := udv.Init(root); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "udv project initialized successfully.")
	return nil
}
