package models

import (
	"encoding/json"
	"errors"
	"testing"

	"fjacquet/household-split/internal/spliterror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumn(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{"empty selects default", "", ColumnMediumCategory, true},
		{"whitespace selects default", "  ", ColumnMediumCategory, true},
		{"canonical", "memo", ColumnMemo, true},
		{"canonical upper case", "Large_Category", ColumnLargeCategory, true},
		{"ledger header content", "内容", ColumnContent, true},
		{"ledger header institution", "保有金融機関", ColumnInstitution, true},
		{"ledger header medium category", "中項目", ColumnMediumCategory, true},
		{"ledger header id", "ID", ColumnID, true},
		{"unknown", "amount", "", false},
		{"date is not descriptive", "date", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumn(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTransaction_IsTransfer(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", " yes ", "y", "On", "振替"} {
		assert.True(t, Transaction{Transfer: TransferFlag(v)}.IsTransfer(), "value %q", v)
	}
	for _, v := range []string{"", "0", "false", "no", "transfer"} {
		assert.False(t, Transaction{Transfer: TransferFlag(v)}.IsTransfer(), "value %q", v)
	}
}

func TestTransferFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw      string
		want     TransferFlag
		transfer bool
	}{
		{`"1"`, "1", true},
		{`"振替"`, "振替", true},
		{`""`, "", false},
		{`true`, "true", true},
		{`false`, "false", false},
		{`1`, "1", true},
		{`0`, "0", false},
		{`2.5`, "1", true},
		{`null`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var tx Transaction
			require.NoError(t, json.Unmarshal([]byte(`{"transfer": `+tt.raw+`}`), &tx))
			assert.Equal(t, tt.want, tx.Transfer)
			assert.Equal(t, tt.transfer, tx.IsTransfer())
		})
	}

	for _, raw := range []string{`[1]`, `{"x": 1}`} {
		var tx Transaction
		assert.Error(t, json.Unmarshal([]byte(`{"transfer": `+raw+`}`), &tx), raw)
	}
}

func TestTransaction_FieldValueAndWithTarget(t *testing.T) {
	tx := Transaction{
		Content:        "Supermarket",
		Institution:    "Bank A",
		LargeCategory:  "Food",
		MediumCategory: "Groceries",
		Memo:           "weekly",
		ID:             "r-1",
	}

	v, ok := tx.FieldValue(ColumnInstitution)
	assert.True(t, ok)
	assert.Equal(t, "Bank A", v)

	_, ok = tx.FieldValue("amount")
	assert.False(t, ok)

	labelled := tx.WithTarget(TargetShared)
	assert.Equal(t, TargetShared, labelled.CalculationTarget)
	assert.Empty(t, tx.CalculationTarget)
}

func TestCalculationTarget_IsValid(t *testing.T) {
	for _, target := range []CalculationTarget{TargetOwner, TargetSpouse, TargetShared, TargetExcluded} {
		assert.True(t, target.IsValid())
	}
	assert.False(t, CalculationTarget("").IsValid())
	assert.False(t, CalculationTarget("both").IsValid())
}

func TestSettings_ValidateRatios(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		spouse  string
		setting string
	}{
		{"even split", "50", "50", ""},
		{"all owner", "100", "0", ""},
		{"fractional", "33.3", "66.7", ""},
		{"within tolerance", "60.0000001", "40", ""},
		{"negative owner", "-10", "110", "owner_ratio"},
		{"spouse above 100", "0", "100.5", "spouse_ratio"},
		{"sum below 100", "60", "30", "owner_ratio+spouse_ratio"},
		{"sum above 100", "60", "50", "owner_ratio+spouse_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{
				OwnerRatio:  decimal.RequireFromString(tt.owner),
				SpouseRatio: decimal.RequireFromString(tt.spouse),
			}
			err := s.ValidateRatios()
			if tt.setting == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, spliterror.ErrConfiguration))
			var cfgErr *spliterror.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.setting, cfgErr.Setting)
		})
	}
}

func TestSettings_ValidateSign(t *testing.T) {
	assert.NoError(t, Settings{}.ValidateSign())
	assert.NoError(t, Settings{AmountSign: AmountSignNegativeExpense}.ValidateSign())

	err := Settings{AmountSign: "inverted"}.ValidateSign()
	assert.ErrorIs(t, err, spliterror.ErrConfiguration)
	assert.Contains(t, err.Error(), "amount_sign")
}

func TestSettings_Column(t *testing.T) {
	column, err := Settings{IdentificationColumn: "メモ"}.Column()
	require.NoError(t, err)
	assert.Equal(t, ColumnMemo, column)

	_, err = Settings{IdentificationColumn: "payee"}.Column()
	assert.ErrorIs(t, err, spliterror.ErrConfiguration)
}

func TestSettings_ExpenseAmount(t *testing.T) {
	tests := []struct {
		name     string
		sign     AmountSign
		amount   string
		expected string
		ok       bool
	}{
		{"as is positive", AmountSignAsIs, "1200", "1200", true},
		{"as is refund", AmountSignAsIs, "-300", "-300", true},
		{"unset behaves as is", "", "15.5", "15.5", true},
		{"negative expense", AmountSignNegativeExpense, "-1200", "1200", true},
		{"negative expense income", AmountSignNegativeExpense, "5000", "0", false},
		{"negative expense zero", AmountSignNegativeExpense, "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{AmountSign: tt.sign}
			got, ok := s.ExpenseAmount(Transaction{Amount: decimal.RequireFromString(tt.amount)})
			assert.Equal(t, tt.ok, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "", Period{}.String())
	assert.True(t, Period{}.IsZero())
	assert.Equal(t, "2024-01-01 〜 2024-01-31", Period{Start: "2024-01-01", End: "2024-01-31"}.String())
}

func TestTargetCounts(t *testing.T) {
	var c TargetCounts
	for _, target := range []CalculationTarget{TargetOwner, TargetShared, TargetShared, TargetExcluded, "bogus"} {
		c.Add(target)
	}
	assert.Equal(t, TargetCounts{Owner: 1, Shared: 2, Excluded: 1}, c)
	assert.Equal(t, 4, c.Total())
}

func TestCalculationResult_Helpers(t *testing.T) {
	r := CalculationResult{
		SettlementAmount:    decimal.NewFromInt(500),
		SettlementDirection: DirectionOwnerToSpouse,
		Records: []Transaction{
			{ID: "1", CalculationTarget: TargetOwner},
			{ID: "2", CalculationTarget: TargetShared},
			{ID: "3", CalculationTarget: TargetOwner},
		},
	}
	assert.True(t, r.RequiresTransfer())

	owner := r.RecordsFor(TargetOwner)
	require.Len(t, owner, 2)
	assert.Equal(t, "1", owner[0].ID)
	assert.Equal(t, "3", owner[1].ID)
	assert.Empty(t, r.RecordsFor(TargetSpouse))

	settled := CalculationResult{SettlementDirection: DirectionNone}
	assert.False(t, settled.RequiresTransfer())
}
