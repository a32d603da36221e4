// Package report renders calculation and classification results as JSON,
// YAML, CSV or a plain-text summary.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/models"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
	FormatText = "text"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatCSV, FormatText}

// IsSupported reports whether format is one of Formats.
func IsSupported(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Extension returns the file extension used for format.
func Extension(format string) string {
	if format == FormatText {
		return "txt"
	}
	return format
}

// ReportGenerator renders results in the supported formats.
type ReportGenerator struct {
	logger    logging.Logger
	delimiter rune
}

// NewReportGenerator creates a ReportGenerator writing CSV with a comma
// delimiter. A nil logger selects the default one.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger:    logging.OrDefault(logger).WithField(logging.FieldComponent, "ReportGenerator"),
		delimiter: ',',
	}
}

// WithDelimiter returns a copy of g writing CSV with delim.
func (g *ReportGenerator) WithDelimiter(delim rune) *ReportGenerator {
	clone := *g
	clone.delimiter = delim
	return &clone
}

// GenerateReport renders a calculation result. The CSV format contains the
// annotated records only.
func (g *ReportGenerator) GenerateReport(result *models.CalculationResult, format string) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("cannot render a nil result")
	}
	view := newResultView(result)

	switch format {
	case FormatJSON:
		return g.generateJSON(view)
	case FormatYAML:
		return g.generateYAML(view)
	case FormatCSV:
		return g.generateCSV(view.Records)
	case FormatText:
		return []byte(Summary(result)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// GenerateClassification renders annotated records with their per-label
// counts and the reasons records fell back to shared.
func (g *ReportGenerator) GenerateClassification(records []models.Transaction, counts models.TargetCounts, warnings []string, format string) ([]byte, error) {
	view := classificationView{
		Counts:   counts,
		Warnings: warnings,
		Records:  newRecordViews(records),
	}

	switch format {
	case FormatJSON:
		return g.generateJSON(view)
	case FormatYAML:
		return g.generateYAML(view)
	case FormatCSV:
		return g.generateCSV(view.Records)
	case FormatText:
		return []byte(countsSummary(counts)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSON(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *ReportGenerator) generateYAML(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) generateCSV(records []recordView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Comma = g.delimiter

	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(writer)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal records to CSV")
		return nil, fmt.Errorf("error writing CSV data: %w", err)
	}
	return buf.Bytes(), nil
}

// Summary renders a result for the terminal.
func Summary(result *models.CalculationResult) string {
	var b strings.Builder
	period := result.Period.String()
	if period == "" {
		period = "-"
	}
	fmt.Fprintf(&b, "Period:        %s\n", period)
	fmt.Fprintf(&b, "Total expense: %s\n", result.TotalExpense)
	fmt.Fprintf(&b, "  owner:       %s\n", result.OwnerTotal)
	fmt.Fprintf(&b, "  spouse:      %s\n", result.SpouseTotal)
	fmt.Fprintf(&b, "  shared:      %s\n", result.SharedTotal)
	fmt.Fprintf(&b, "Owner share:   %s\n", result.OwnerShare)
	fmt.Fprintf(&b, "Spouse share:  %s\n", result.SpouseShare)

	switch result.SettlementDirection {
	case models.DirectionSpouseToOwner:
		fmt.Fprintf(&b, "Settlement:    spouse pays owner %s\n", result.SettlementAmount)
	case models.DirectionOwnerToSpouse:
		fmt.Fprintf(&b, "Settlement:    owner pays spouse %s\n", result.SettlementAmount)
	default:
		b.WriteString("Settlement:    none\n")
	}
	b.WriteString(countsSummary(result.Counts))
	return b.String()
}

func countsSummary(c models.TargetCounts) string {
	return fmt.Sprintf("Records:       %d (owner %d, spouse %d, shared %d, excluded %d)\n",
		c.Total(), c.Owner, c.Spouse, c.Shared, c.Excluded)
}
