package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veildata/veil"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec-file>",
	Short: "Validate a pipeline spec",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	specData, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read spec: %w", err)
	}
	pipelineId, err := veil.ValidatePipelineSpec(specData)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Spec is valid (pipeline: %s)\n", pipelineId)
	return nil
}
