package report

import (
	"strings"

	"fjacquet/household-split/internal/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// amount renders a decimal as a bare number in JSON and YAML and as plain
// text in CSV, without going through float64.
type amount decimal.Decimal

func (a amount) String() string {
	return decimal.Decimal(a).String()
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a amount) MarshalYAML() (interface{}, error) {
	value := a.String()
	tag := "!!int"
	if strings.Contains(value, ".") {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}, nil
}

func (a amount) MarshalCSV() (string, error) {
	return a.String(), nil
}

// recordView is an annotated transaction as written to reports.
type recordView struct {
	CalculationTarget models.CalculationTarget `json:"calculation_target" yaml:"calculation_target" csv:"calculation_target"`
	ID                string                   `json:"id" yaml:"id" csv:"id"`
	Date              string                   `json:"date" yaml:"date" csv:"date"`
	Content           string                   `json:"content" yaml:"content" csv:"content"`
	Amount            amount                   `json:"amount" yaml:"amount" csv:"amount"`
	Institution       string                   `json:"institution" yaml:"institution" csv:"institution"`
	LargeCategory     string                   `json:"large_category" yaml:"large_category" csv:"large_category"`
	MediumCategory    string                   `json:"medium_category" yaml:"medium_category" csv:"medium_category"`
	Memo              string                   `json:"memo" yaml:"memo" csv:"memo"`
	Transfer          string                   `json:"transfer" yaml:"transfer" csv:"transfer"`
}

// resultView mirrors models.CalculationResult with report-friendly
// amounts.
type resultView struct {
	Period              models.Period              `json:"period" yaml:"period"`
	OwnerTotal          amount                     `json:"owner_total" yaml:"owner_total"`
	SpouseTotal         amount                     `json:"spouse_total" yaml:"spouse_total"`
	SharedTotal         amount                     `json:"shared_total" yaml:"shared_total"`
	TotalExpense        amount                     `json:"total_expense" yaml:"total_expense"`
	OwnerShare          amount                     `json:"owner_share" yaml:"owner_share"`
	SpouseShare         amount                     `json:"spouse_share" yaml:"spouse_share"`
	SettlementAmount    amount                     `json:"settlement_amount" yaml:"settlement_amount"`
	SettlementDirection models.SettlementDirection `json:"settlement_direction" yaml:"settlement_direction"`
	Counts              models.TargetCounts        `json:"counts" yaml:"counts"`
	Records             []recordView               `json:"records" yaml:"records"`
}

// classificationView is the output of a classification without settlement.
type classificationView struct {
	Counts   models.TargetCounts `json:"counts" yaml:"counts"`
	Warnings []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Records  []recordView        `json:"records" yaml:"records"`
}

func newRecordViews(records []models.Transaction) []recordView {
	views := make([]recordView, 0, len(records))
	for _, r := range records {
		views = append(views, recordView{
			CalculationTarget: r.CalculationTarget,
			ID:                r.ID,
			Date:              r.Date,
			Content:           r.Content,
			Amount:            amount(r.Amount),
			Institution:       r.Institution,
			LargeCategory:     r.LargeCategory,
			MediumCategory:    r.MediumCategory,
			Memo:              r.Memo,
			Transfer:          string(r.Transfer),
		})
	}
	return views
}

func newResultView(result *models.CalculationResult) resultView {
	return resultView{
		Period:              result.Period,
		OwnerTotal:          amount(result.OwnerTotal),
		SpouseTotal:         amount(result.SpouseTotal),
		SharedTotal:         amount(result.SharedTotal),
		TotalExpense:        amount(result.TotalExpense),
		OwnerShare:          amount(result.OwnerShare),
		SpouseShare:         amount(result.SpouseShare),
		SettlementAmount:    amount(result.SettlementAmount),
		SettlementDirection: result.SettlementDirection,
		Counts:              result.Counts,
		Records:             newRecordViews(result.Records),
	}
}
