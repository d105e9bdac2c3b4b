package cmd

import (
	"os"

	"github.com/aweris/udv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "udv",
	Short:        "Version large files alongside git",
	Long:         "Track large files in a content-addressed cache and version small .dvc manifests in git instead.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("root", ".", "project root (the git working tree)")
	rootCmd.PersistentFlags().Int("jobs", 0, "files processed in parallel (default from .udv/config, else 1)")
	rootCmd.PersistentFlags().String("algorithm", "", "hash algorithm: sha256, sha384 or sha512 (default from .udv/config)")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
}

func initConfig() {
	viper.SetEnvPrefix("UDV")
	viper.AutomaticEnv()
	viper.SetDefault("root", ".")
}

// bindProjectFlags lets explicitly set flags override .udv/config and env.
func bindProjectFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		viper.BindPFlag("jobs", f)
	}
	if f := flags.Lookup("algorithm"); f != nil && f.Changed {
		viper.BindPFlag("hash_algorithm", f)
	}
}

func getRoot() string {
	return viper.GetString("root")
}

// openProject loads .udv/config and opens the project at --root.
func openProject(cmd *cobra.Command) (*udv.Project, error) {
	root := getRoot()
	if !udv.Initialized(root) {
		return nil, udv.ErrNotInitialized
	}

	bindProjectFlags(cmd)
	cfg, err := udv.LoadConfig(viper.GetViper(), root)
	if err != nil {
		return nil, err
	}

	opts := append(cfg.Options(), udv.WithLogOutput(cmd.ErrOrStderr()))
	return udv.Open(root, opts...)
}
