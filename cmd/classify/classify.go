// Package classify implements the classify command: label the records of a
// payload without settling.
package classify

import (
	"fmt"

	"fjacquet/household-split/cmd/common"
	"fjacquet/household-split/cmd/root"
	"fjacquet/household-split/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Settings holds the settings overrides of the command.
	Settings common.SettingsFlags
	// Format selects the report format; empty uses output.format.
	Format string
)

// Cmd represents the classify command
var Cmd = &cobra.Command{
	Use:   "classify",
	Short: "Label payload records as owner, spouse, shared or excluded",
	Long: `Classify reads a JSON payload and writes every record with its calculation
target, the number of records per target and the records whose identification
value was empty. Ratios are not needed.

Example:
  household-split classify -i march.json --column memo --format csv -o march.csv`,
	RunE: classifyFunc,
}

func init() {
	Settings.Register(Cmd)
	Cmd.Flags().StringVarP(&Format, "format", "f", "", "Output format: json, yaml, csv or text (default from output.format)")
}

func classifyFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	logger := appContainer.GetLogger().WithField("command", "classify")
	cfg := appContainer.GetConfig()

	format, err := common.ResolveFormat(Format, cfg.Output.Format)
	if err != nil {
		return err
	}

	req, err := common.ReadRequest(cmd, root.SharedFlags.Input)
	if err != nil {
		return err
	}
	settings, err := Settings.Apply(req.ResolveSettings(cfg.DefaultSettings()))
	if err != nil {
		return err
	}

	outcome, err := appContainer.GetEngine().Classify(req.Records, settings)
	if err != nil {
		return err
	}

	warnings := make([]string, 0, len(outcome.Warnings))
	for _, w := range outcome.Warnings {
		warnings = append(warnings, w.Error())
	}

	out, err := appContainer.GetReportGenerator().GenerateClassification(outcome.Records, outcome.Counts, warnings, format)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if err := common.WriteOutput(cmd, root.SharedFlags.Output, out); err != nil {
		return err
	}

	logger.Debug("Classification written",
		logging.Field{Key: logging.FieldCount, Value: outcome.Counts.Total()},
		logging.Field{Key: logging.FieldFormat, Value: format})
	return nil
}
