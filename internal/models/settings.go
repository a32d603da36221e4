package models

import (
	"fmt"

	"fjacquet/household-split/internal/spliterror"

	"github.com/shopspring/decimal"
)

// ratioTolerance absorbs float drift in callers that compute one ratio
// as 100 minus the other.
var ratioTolerance = decimal.New(1, -6)

var hundred = decimal.NewFromInt(RatioTotal)

// Settings configures one calculation run.
type Settings struct {
	IdentificationColumn string          `json:"identification_column" yaml:"identification_column"`
	OwnerPattern         string          `json:"owner_pattern" yaml:"owner_pattern"`
	SpousePattern        string          `json:"spouse_pattern" yaml:"spouse_pattern"`
	OwnerRatio           decimal.Decimal `json:"owner_ratio" yaml:"owner_ratio"`
	SpouseRatio          decimal.Decimal `json:"spouse_ratio" yaml:"spouse_ratio"`
	AmountSign           AmountSign      `json:"amount_sign,omitempty" yaml:"amount_sign,omitempty"`
}

// Sign returns the configured amount convention, AmountSignAsIs when unset.
func (s Settings) Sign() AmountSign {
	if s.AmountSign == "" {
		return AmountSignAsIs
	}
	return s.AmountSign
}

// ValidateRatios checks that both ratios lie in [0, 100] and add up to 100.
func (s Settings) ValidateRatios() error {
	for _, r := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"owner_ratio", s.OwnerRatio},
		{"spouse_ratio", s.SpouseRatio},
	} {
		if r.value.IsNegative() || r.value.GreaterThan(hundred) {
			return &spliterror.ConfigurationError{
				Setting: r.name,
				Value:   r.value.String(),
				Reason:  "ratio must be between 0 and 100",
			}
		}
	}

	sum := s.OwnerRatio.Add(s.SpouseRatio)
	if sum.Sub(hundred).Abs().GreaterThan(ratioTolerance) {
		return &spliterror.ConfigurationError{
			Setting: "owner_ratio+spouse_ratio",
			Value:   sum.String(),
			Reason:  "ratios must add up to 100",
		}
	}
	return nil
}

// ValidateSign checks the amount sign convention.
func (s Settings) ValidateSign() error {
	switch s.Sign() {
	case AmountSignAsIs, AmountSignNegativeExpense:
		return nil
	default:
		return &spliterror.ConfigurationError{
			Setting: "amount_sign",
			Value:   string(s.AmountSign),
			Reason:  "must be 'as_is' or 'negative_expense'",
		}
	}
}

// Column resolves the identification column to its canonical name.
func (s Settings) Column() (string, error) {
	column, ok := ResolveColumn(s.IdentificationColumn)
	if !ok {
		return "", &spliterror.ConfigurationError{
			Setting: "identification_column",
			Value:   s.IdentificationColumn,
			Reason:  "unknown column",
		}
	}
	return column, nil
}

// ExpenseAmount returns the amount that counts towards the totals under
// the configured sign convention. The boolean is false when the row is
// not an expense at all (income under AmountSignNegativeExpense).
func (s Settings) ExpenseAmount(tx Transaction) (decimal.Decimal, bool) {
	if s.Sign() == AmountSignNegativeExpense {
		if !tx.Amount.IsNegative() {
			return decimal.Zero, false
		}
		return tx.Amount.Neg(), true
	}
	return tx.Amount, true
}

// Summary renders the settings for log output.
func (s Settings) Summary() string {
	return fmt.Sprintf("column=%s ratio=%s/%s sign=%s",
		s.IdentificationColumn, s.OwnerRatio, s.SpouseRatio, s.Sign())
}
