package models

// CalculationTarget is the label the classifier assigns to a transaction.
type CalculationTarget string

// Calculation targets
const (
	TargetOwner    CalculationTarget = "owner"
	TargetSpouse   CalculationTarget = "spouse"
	TargetShared   CalculationTarget = "shared"
	TargetExcluded CalculationTarget = "excluded"
)

// IsValid reports whether t is one of the four known labels.
func (t CalculationTarget) IsValid() bool {
	switch t {
	case TargetOwner, TargetSpouse, TargetShared, TargetExcluded:
		return true
	default:
		return false
	}
}

// SettlementDirection tells which party has to pay the other.
type SettlementDirection string

// Settlement directions
const (
	DirectionSpouseToOwner SettlementDirection = "spouse_to_owner"
	DirectionOwnerToSpouse SettlementDirection = "owner_to_spouse"
	DirectionNone          SettlementDirection = "none"
)

// AmountSign selects how transaction amounts are read as expenses.
type AmountSign string

// Amount sign conventions
const (
	// AmountSignAsIs sums amounts exactly as recorded.
	AmountSignAsIs AmountSign = "as_is"
	// AmountSignNegativeExpense reads negative amounts as expenses and
	// excludes zero and positive rows (income, refunds).
	AmountSignNegativeExpense AmountSign = "negative_expense"
)

// Descriptive columns usable as identification column
const (
	ColumnContent        = "content"
	ColumnInstitution    = "institution"
	ColumnLargeCategory  = "large_category"
	ColumnMediumCategory = "medium_category"
	ColumnMemo           = "memo"
	ColumnID             = "id"

	DefaultIdentificationColumn = ColumnMediumCategory
)

// columnAliases maps household-ledger export headers to canonical columns.
var columnAliases = map[string]string{
	"内容":     ColumnContent,
	"保有金融機関": ColumnInstitution,
	"大項目":    ColumnLargeCategory,
	"中項目":    ColumnMediumCategory,
	"メモ":     ColumnMemo,
	"ID":     ColumnID,
}

// RatioTotal is the value owner_ratio + spouse_ratio must add up to.
const RatioTotal = 100

// File permissions
const (
	PermissionReportFile = 0644
	PermissionDirectory  = 0750
)
