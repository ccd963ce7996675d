package cmd

import (
	"fmt"
	"os"

	"github.com/Norgate-AV/dtgen/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:          "dtgen",
	Short:        "Doctest invocation generator",
	Long:         `Generates the doctest runner invocation for a library build and writes it as a Go source artifact.`,
	RunE:         runGen,
	SilenceUsage: true,
	Args:         cobra.MaximumNArgs(1),
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().StringP("plan", "p", "", "Path to the build plan exported by the build system")
	rootCmd.PersistentFlags().StringP("suite", "s", "", "Test suite that receives the generated artifact")
	rootCmd.PersistentFlags().StringP("toolchain", "t", "", "Toolchain version override (e.g. ghc-9.4.8)")
	rootCmd.PersistentFlags().String("cache-dir", "", "Artifact cache directory")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the artifact cache")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(genCmd)

	viper.SetDefault("plan", "build-plan.json")
	viper.SetDefault("suite", "doctests")
	viper.SetDefault("verbose", false)
	viper.SetDefault("no_cache", false)
}
