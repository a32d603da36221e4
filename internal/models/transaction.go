// Package models provides the data structures shared by the classifier,
// the settlement calculator and the payload codec.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is one expense row of a household ledger export.
type Transaction struct {
	CalculationTarget CalculationTarget `json:"calculation_target" yaml:"calculation_target" csv:"calculation_target"`
	Date              string            `json:"date" yaml:"date" csv:"date"`
	Content           string            `json:"content" yaml:"content" csv:"content"`
	Amount            decimal.Decimal   `json:"amount" yaml:"amount" csv:"amount"`
	Institution       string            `json:"institution" yaml:"institution" csv:"institution"`
	LargeCategory     string            `json:"large_category" yaml:"large_category" csv:"large_category"`
	MediumCategory    string            `json:"medium_category" yaml:"medium_category" csv:"medium_category"`
	Memo              string            `json:"memo" yaml:"memo" csv:"memo"`
	Transfer          TransferFlag      `json:"transfer" yaml:"transfer" csv:"transfer"`
	ID                string            `json:"id" yaml:"id" csv:"id"`
}

// TransferFlag is the transfer column of a record. Payloads may send it as
// a string, a boolean or a number; booleans become "true"/"false" and
// numbers "1" (non-zero) or "0".
type TransferFlag string

// UnmarshalJSON accepts a JSON string, boolean, number or null.
func (f *TransferFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*f = TransferFlag(data)
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = TransferFlag(s)
	default:
		n, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("transfer must be a string, boolean or number, got %s", data)
		}
		if n.IsZero() {
			*f = "0"
		} else {
			*f = "1"
		}
	}
	return nil
}

// transferValues lists the flag values that mark an internal account transfer.
var transferValues = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
	"y":    true,
	"on":   true,
	"振替":   true,
}

// IsTransfer reports whether the row moves money between the household's
// own accounts rather than recording a real expense.
func (t Transaction) IsTransfer() bool {
	return transferValues[strings.ToLower(strings.TrimSpace(string(t.Transfer)))]
}

// FieldValue returns the value of the canonical column name.
// The boolean is false when the column is unknown.
func (t Transaction) FieldValue(column string) (string, bool) {
	switch column {
	case ColumnContent:
		return t.Content, true
	case ColumnInstitution:
		return t.Institution, true
	case ColumnLargeCategory:
		return t.LargeCategory, true
	case ColumnMediumCategory:
		return t.MediumCategory, true
	case ColumnMemo:
		return t.Memo, true
	case ColumnID:
		return t.ID, true
	default:
		return "", false
	}
}

// WithTarget returns a copy of the transaction labelled with target.
func (t Transaction) WithTarget(target CalculationTarget) Transaction {
	t.CalculationTarget = target
	return t
}

// ResolveColumn maps an identification column setting to a canonical
// column name. Ledger header aliases are accepted; an empty name selects
// the default column.
func ResolveColumn(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultIdentificationColumn, true
	}
	if alias, ok := columnAliases[name]; ok {
		return alias, true
	}
	canonical := strings.ToLower(name)
	if _, ok := (Transaction{}).FieldValue(canonical); ok {
		return canonical, true
	}
	return "", false
}
