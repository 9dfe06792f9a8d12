package main

import (
	"github.com/spf13/cobra"

	"github.com/veildata/veil"
)

var restoreFlags struct {
	specPath        string
	inputPath       string
	outputPath      string
	continueOnError bool
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore previously transformed JSONL records",
	Long: "Reverses the reversible transformers of the pipeline (date shift,\n" +
		"format-preserving encryption) on each input record. Fails if the\n" +
		"pipeline contains irreversible transformers on a matched path.",
	RunE: runRestore,
}

func init() {
	f := restoreCmd.Flags()
	f.StringVarP(&restoreFlags.specPath, "spec", "s", "", "Pipeline spec file (required)")
	f.StringVarP(&restoreFlags.inputPath, "in", "i", "", "Input JSONL file (default stdin)")
	f.StringVarP(&restoreFlags.outputPath, "out", "o", "", "Output JSONL file (default stdout)")
	f.BoolVar(&restoreFlags.continueOnError, "continue-on-error", false, "Skip failing records instead of aborting")

	_ = restoreCmd.MarkFlagRequired("spec")
}

func runRestore(cmd *cobra.Command, _ []string) error {
	return runBatch(cmd, restoreFlags.specPath, restoreFlags.inputPath, restoreFlags.outputPath,
		restoreFlags.continueOnError, veil.RestoreStream)
}
