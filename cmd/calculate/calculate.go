// Package calculate implements the calculate command: classify a payload
// and report the settlement.
package calculate

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

// Cmd represents the calculate command
var Cmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate who owes whom for a household payload",
	Long: `Calculate reads a JSON payload {"records": [...], "settings": {...}}, labels every
record as owner, spouse, shared or excluded, applies the cost-sharing ratio to
the shared expenses and reports the settlement.

Settings missing from the payload come from the configuration; flags override
both.

Example:
  household-split calculate -i march.json --owner-pattern '^夫' --owner-ratio 60
  cat march.json | household-split calculate --format text`,
	RunE: calculateFunc,
}

func init() {
	Settings.Register(Cmd)
	Cmd.Flags().StringVarP(&Format, "format", "f", "", "Output format: json, yaml, csv or text (default from output.format)")
}

func calculateFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}
	logger := appContainer.GetLogger().WithField("command", "calculate")
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

	result, err := appContainer.GetEngine().Calculate(req.Records, settings)
	if err != nil {
		return err
	}

	out, err := appContainer.GetReportGenerator().GenerateReport(&result, format)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if err := common.WriteOutput(cmd, root.SharedFlags.Output, out); err != nil {
		return err
	}

	if root.SharedFlags.Output != "" {
		logger.Info("Settlement report written",
			logging.Field{Key: logging.FieldOutputFile, Value: root.SharedFlags.Output},
			logging.Field{Key: logging.FieldFormat, Value: format})
	}
	return nil
}
