package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/veildata/veil"
	"github.com/veildata/veil/entity/transform"
)

var transformFlags struct {
	specPath        string
	inputPath       string
	outputPath      string
	continueOnError bool
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform JSONL records through a pipeline spec",
	Long: "Reads one JSON record payload per line from the input (or stdin),\n" +
		"runs each through the pipeline and writes the transformed records\n" +
		"as JSONL to the output (or stdout).",
	RunE: runTransform,
}

func init() {
	f := transformCmd.Flags()
	f.StringVarP(&transformFlags.specPath, "spec", "s", "", "Pipeline spec file (required)")
	f.StringVarP(&transformFlags.inputPath, "in", "i", "", "Input JSONL file (default stdin)")
	f.StringVarP(&transformFlags.outputPath, "out", "o", "", "Output JSONL file (default stdout)")
	f.BoolVar(&transformFlags.continueOnError, "continue-on-error", false, "Skip failing records instead of aborting")

	_ = transformCmd.MarkFlagRequired("spec")
}

func runTransform(cmd *cobra.Command, _ []string) error {
	return runBatch(cmd, transformFlags.specPath, transformFlags.inputPath, transformFlags.outputPath,
		transformFlags.continueOnError, veil.TransformStream)
}

type streamFunc func(context.Context, *transform.Pipeline, io.Reader, io.Writer, veil.BatchOptions) (veil.BatchMetrics, error)

// runBatch streams JSONL payloads through the pipeline, shared by the
// transform and restore commands.
func runBatch(cmd *cobra.Command, specPath, inputPath, outputPath string, continueOnError bool, stream streamFunc) error {
	specData, err := os.ReadFile(specPath)
	if err != nil {
		return fmt.Errorf("read spec: %w", err)
	}
	pipeline, err := veil.NewPipeline(specData)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if inputPath != "" {
		f, err := os.Open(inputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	metrics, err := stream(cmd.Context(), pipeline, in, out, veil.BatchOptions{
		ContinueOnError: continueOnError,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d record(s), %d transformed, %d failed (%d bytes in %d ms)\n",
		metrics.RecordsProcessed, metrics.RecordsTransformed, metrics.RecordsFailed,
		metrics.BytesProcessed, metrics.ProcessingTimeMicros/1000)
	return nil
}
