// Package validate implements the validate command: check the settings of
// a payload without calculating.
package validate

import (
	"fmt"

	"fjacquet/household-split/cmd/common"
	"fjacquet/household-split/cmd/root"

	"github.com/spf13/cobra"
)

// Settings holds the settings overrides of the command.
var Settings common.SettingsFlags

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the settings of a payload",
	Long: `Validate resolves the settings of a payload the same way calculate does and
reports the first configuration error: an invalid or empty pattern, an unknown
identification column, ratios outside [0, 100] or not adding up to 100, or an
unknown amount convention. Records with an empty identification value are
listed as warnings.

Example:
  household-split validate -i march.json`,
	RunE: validateFunc,
}

func init() {
	Settings.Register(Cmd)
}

func validateFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return fmt.Errorf("container not initialized")
	}

	req, err := common.ReadRequest(cmd, root.SharedFlags.Input)
	if err != nil {
		return err
	}
	settings, err := Settings.Apply(req.ResolveSettings(appContainer.GetConfig().DefaultSettings()))
	if err != nil {
		return err
	}

	engine := appContainer.GetEngine()
	if err := engine.Validate(settings); err != nil {
		return err
	}
	outcome, err := engine.Classify(req.Records, settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Settings are valid: %s\n", settings.Summary())
	fmt.Fprintf(out, "Records: %d (owner %d, spouse %d, shared %d, excluded %d)\n",
		outcome.Counts.Total(), outcome.Counts.Owner, outcome.Counts.Spouse, outcome.Counts.Shared, outcome.Counts.Excluded)
	for _, w := range outcome.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w.Error())
	}
	return nil
}
