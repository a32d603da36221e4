// Package batch handles batch calculation of payload files
package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"fjacquet/household-split/cmd/common"
	"fjacquet/household-split/cmd/root"
	"fjacquet/household-split/internal/batch"
	"fjacquet/household-split/internal/dateutils"
	"fjacquet/household-split/internal/models"

	"github.com/spf13/cobra"
)

var (
	// Format selects the per-file report format; empty uses output.format.
	Format string
	// Workers overrides batch.workers when positive.
	Workers int
	// Pattern overrides batch.pattern when not empty.
	Pattern string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Calculate every payload of a directory",
	Long: `Batch calculates every payload file of an input directory independently and
in parallel, and writes one report per file to the output directory. A file
that fails is reported and does not stop the others. The summary combines the
settlements of all files into one net transfer.

Example:
  household-split batch -i payloads/ -o reports/ --workers 8 --format yaml`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().StringVarP(&Format, "format", "f", "", "Report format: json, yaml, csv or text (default from output.format)")
	Cmd.Flags().IntVarP(&Workers, "workers", "w", 0, "Number of files processed concurrently (default from batch.workers)")
	Cmd.Flags().StringVar(&Pattern, "pattern", "", "Glob selecting payload files (default from batch.pattern)")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}

	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	format, err := common.ResolveFormat(Format, appContainer.GetConfig().Output.Format)
	if err != nil {
		return err
	}

	runner := appContainer.NewBatchRunner(format, batch.WithWorkers(Workers), batch.WithPattern(Pattern))
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	summary, err := runner.Run(ctx, inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("error during batch calculation: %w", err)
	}

	printSummary(cmd, summary)
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d payload files failed", summary.Failed, summary.Files)
	}
	return nil
}

func printSummary(cmd *cobra.Command, summary batch.BatchSummary) {
	out := cmd.OutOrStdout()
	for _, r := range summary.Results {
		name := filepath.Base(r.Input)
		if r.Err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", name, r.Err)
			continue
		}
		fmt.Fprintf(out, "OK   %s -> %s (%s %s)\n", name, filepath.Base(r.Output), r.Direction, r.Amount)
	}
	fmt.Fprintf(out, "Files: %d, succeeded: %d, failed: %d\n", summary.Files, summary.Succeeded, summary.Failed)
	if !summary.Period.IsZero() {
		period := models.Period{
			Start: dateutils.ToISODate(summary.Period.Start),
			End:   dateutils.ToISODate(summary.Period.End),
		}
		fmt.Fprintf(out, "Period: %s\n", period)
	}
	fmt.Fprintf(out, "Net settlement: %s %s\n", summary.NetDirection, summary.NetAmount)
}
