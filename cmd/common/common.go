// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"strings"

	"fjacquet/household-split/internal/fileutils"
	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/payload"
	"fjacquet/household-split/internal/report"
	"fjacquet/household-split/internal/spliterror"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// SettingsFlags are the command-line overrides of the calculation settings.
// Empty values leave the payload or configured value untouched.
type SettingsFlags struct {
	Column        string
	OwnerPattern  string
	SpousePattern string
	OwnerRatio    string
	SpouseRatio   string
	AmountSign    string
}

// Register adds the settings flags to cmd.
func (f *SettingsFlags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Column, "column", "", "Identification column (content, institution, large_category, medium_category, memo, id or a ledger header such as 中項目)")
	cmd.Flags().StringVar(&f.OwnerPattern, "owner-pattern", "", "Regular expression identifying the owner's records")
	cmd.Flags().StringVar(&f.SpousePattern, "spouse-pattern", "", "Regular expression identifying the spouse's records")
	cmd.Flags().StringVar(&f.OwnerRatio, "owner-ratio", "", "Owner's percentage of shared expenses (spouse gets the rest when --spouse-ratio is omitted)")
	cmd.Flags().StringVar(&f.SpouseRatio, "spouse-ratio", "", "Spouse's percentage of shared expenses")
	cmd.Flags().StringVar(&f.AmountSign, "amount-sign", "", "Amount convention: as_is or negative_expense")
}

// Reset clears all values.
func (f *SettingsFlags) Reset() {
	*f = SettingsFlags{}
}

// Apply returns settings with the flag values applied. When only one ratio
// is given, the other one is set to 100 minus it.
func (f *SettingsFlags) Apply(settings models.Settings) (models.Settings, error) {
	if f.Column != "" {
		settings.IdentificationColumn = f.Column
	}
	if f.OwnerPattern != "" {
		settings.OwnerPattern = f.OwnerPattern
	}
	if f.SpousePattern != "" {
		settings.SpousePattern = f.SpousePattern
	}
	if f.AmountSign != "" {
		settings.AmountSign = models.AmountSign(f.AmountSign)
	}

	hundred := decimal.NewFromInt(models.RatioTotal)
	owner, err := parseRatio("owner_ratio", f.OwnerRatio)
	if err != nil {
		return settings, err
	}
	spouse, err := parseRatio("spouse_ratio", f.SpouseRatio)
	if err != nil {
		return settings, err
	}
	switch {
	case owner != nil && spouse != nil:
		settings.OwnerRatio, settings.SpouseRatio = *owner, *spouse
	case owner != nil:
		settings.OwnerRatio, settings.SpouseRatio = *owner, hundred.Sub(*owner)
	case spouse != nil:
		settings.OwnerRatio, settings.SpouseRatio = hundred.Sub(*spouse), *spouse
	}
	return settings, nil
}

func parseRatio(setting, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(value), "%"))
	if err != nil {
		return nil, &spliterror.ConfigurationError{Setting: setting, Value: value, Reason: "not a number", Err: err}
	}
	return &d, nil
}

// ReadRequest decodes the payload at input, or from the command's stdin
// when input is empty or "-".
func ReadRequest(cmd *cobra.Command, input string) (*payload.Request, error) {
	if input == "" || input == "-" {
		return payload.Decode(cmd.InOrStdin(), "stdin")
	}
	return payload.DecodeFile(input)
}

// WriteOutput writes data to output, or to the command's stdout when
// output is empty or "-".
func WriteOutput(cmd *cobra.Command, output string, data []byte) error {
	if output == "" || output == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write report to stdout: %w", err)
		}
		return nil
	}
	if err := fileutils.WriteFile(output, data); err != nil {
		return fmt.Errorf("failed to write report to file %s: %w", output, err)
	}
	return nil
}

// ResolveFormat returns flagValue, or configured when the flag is empty,
// after checking it is a supported report format.
func ResolveFormat(flagValue, configured string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(flagValue))
	if format == "" {
		format = configured
	}
	if !report.IsSupported(format) {
		return "", fmt.Errorf("unsupported output format: %s (must be one of %s)", format, strings.Join(report.Formats, ", "))
	}
	return format, nil
}
