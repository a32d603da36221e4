package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Period is the date range spanned by the counted records, as ISO dates.
type Period struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// IsZero reports whether no dated record contributed to the period.
func (p Period) IsZero() bool {
	return p.Start == "" && p.End == ""
}

// String returns the period in the "start 〜 end" form shown on the result
// screen.
func (p Period) String() string {
	if p.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s 〜 %s", p.Start, p.End)
}

// TargetCounts holds the number of records per calculation target.
type TargetCounts struct {
	Owner    int `json:"owner" yaml:"owner"`
	Spouse   int `json:"spouse" yaml:"spouse"`
	Shared   int `json:"shared" yaml:"shared"`
	Excluded int `json:"excluded" yaml:"excluded"`
}

// Add increments the counter for target.
func (c *TargetCounts) Add(target CalculationTarget) {
	switch target {
	case TargetOwner:
		c.Owner++
	case TargetSpouse:
		c.Spouse++
	case TargetShared:
		c.Shared++
	case TargetExcluded:
		c.Excluded++
	}
}

// Total returns the number of counted records.
func (c TargetCounts) Total() int {
	return c.Owner + c.Spouse + c.Shared + c.Excluded
}

// CalculationResult is the outcome of one settlement calculation.
type CalculationResult struct {
	Period              Period              `json:"period" yaml:"period"`
	OwnerTotal          decimal.Decimal     `json:"owner_total" yaml:"owner_total"`
	SpouseTotal         decimal.Decimal     `json:"spouse_total" yaml:"spouse_total"`
	SharedTotal         decimal.Decimal     `json:"shared_total" yaml:"shared_total"`
	TotalExpense        decimal.Decimal     `json:"total_expense" yaml:"total_expense"`
	OwnerShare          decimal.Decimal     `json:"owner_share" yaml:"owner_share"`
	SpouseShare         decimal.Decimal     `json:"spouse_share" yaml:"spouse_share"`
	SettlementAmount    decimal.Decimal     `json:"settlement_amount" yaml:"settlement_amount"`
	SettlementDirection SettlementDirection `json:"settlement_direction" yaml:"settlement_direction"`
	Counts              TargetCounts        `json:"counts" yaml:"counts"`
	Records             []Transaction       `json:"records" yaml:"records"`
}

// RequiresTransfer reports whether one party has to pay the other.
func (r CalculationResult) RequiresTransfer() bool {
	return r.SettlementDirection != DirectionNone && !r.SettlementAmount.IsZero()
}

// RecordsFor returns the records labelled with target, in input order.
func (r CalculationResult) RecordsFor(target CalculationTarget) []Transaction {
	var out []Transaction
	for _, rec := range r.Records {
		if rec.CalculationTarget == target {
			out = append(out, rec)
		}
	}
	return out
}
