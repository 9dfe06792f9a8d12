package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "veil",
	Short: "Record transformation pipelines for sensitive data",
	Long: "Veil transforms JSON records with declarative pipelines:\n" +
		"redaction, hashing, fake values, bucketing, date shifting and\n" +
		"format-preserving encryption, driven by entity labels.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
