package classifier

import (
	"regexp"
	"strings"

	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/spliterror"
)

// Rule binds a compiled pattern to the label it assigns.
type Rule struct {
	Target  models.CalculationTarget
	Setting string
	Pattern *regexp.Regexp
}

// Matches reports whether the rule's pattern matches value.
func (r Rule) Matches(value string) bool {
	return r.Pattern.MatchString(value)
}

// Plan is a validated, compiled form of Settings. Rules are evaluated in
// order and the first match wins, so the owner rule always comes first.
type Plan struct {
	Column string
	Sign   models.AmountSign
	Rules  []Rule
}

// Compile validates the classification settings and compiles the patterns.
// Any problem is returned as a *spliterror.ConfigurationError.
func Compile(settings models.Settings) (*Plan, error) {
	column, err := settings.Column()
	if err != nil {
		return nil, err
	}
	if err := settings.ValidateSign(); err != nil {
		return nil, err
	}

	owner, err := compileRule(models.TargetOwner, "owner_pattern", settings.OwnerPattern)
	if err != nil {
		return nil, err
	}
	spouse, err := compileRule(models.TargetSpouse, "spouse_pattern", settings.SpousePattern)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Column: column,
		Sign:   settings.Sign(),
		Rules:  []Rule{owner, spouse},
	}, nil
}

func compileRule(target models.CalculationTarget, setting, pattern string) (Rule, error) {
	// An empty expression matches every value and would swallow all records.
	if strings.TrimSpace(pattern) == "" {
		return Rule{}, &spliterror.ConfigurationError{
			Setting: setting,
			Value:   pattern,
			Reason:  "pattern must not be empty",
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, &spliterror.ConfigurationError{
			Setting: setting,
			Value:   pattern,
			Reason:  "not a valid regular expression",
			Err:     err,
		}
	}
	return Rule{Target: target, Setting: setting, Pattern: re}, nil
}

// Target labels one transaction. The returned ValidationError is non-nil
// when the identification field is empty; the record is then shared.
func (p *Plan) Target(tx models.Transaction) (models.CalculationTarget, *spliterror.ValidationError) {
	if tx.IsTransfer() {
		return models.TargetExcluded, nil
	}
	if p.Sign == models.AmountSignNegativeExpense && !tx.Amount.IsNegative() {
		return models.TargetExcluded, nil
	}

	value, _ := tx.FieldValue(p.Column)
	if strings.TrimSpace(value) == "" {
		return models.TargetShared, &spliterror.ValidationError{
			RecordID: tx.ID,
			Field:    p.Column,
			Reason:   "identification value is empty",
		}
	}

	for _, rule := range p.Rules {
		if rule.Matches(value) {
			return rule.Target, nil
		}
	}
	return models.TargetShared, nil
}
