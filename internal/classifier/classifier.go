// Package classifier labels household transactions as owner, spouse,
// shared or excluded from the identification column and the two patterns
// of the calculation settings.
package classifier

import (
	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/spliterror"
)

// Outcome is the detailed result of a classification run.
type Outcome struct {
	Records  []models.Transaction
	Counts   models.TargetCounts
	Warnings []*spliterror.ValidationError
}

// Classifier applies a Plan to a list of transactions. It holds no state
// between calls and is safe for concurrent use.
type Classifier struct {
	logger logging.Logger
}

// NewClassifier creates a Classifier. A nil logger selects the default one.
func NewClassifier(logger logging.Logger) *Classifier {
	return &Classifier{logger: logging.OrDefault(logger)}
}

// Classify returns a copy of records with CalculationTarget set on every
// record. The input slice is not modified.
func (c *Classifier) Classify(records []models.Transaction, settings models.Settings) ([]models.Transaction, error) {
	outcome, err := c.ClassifyDetailed(records, settings)
	if err != nil {
		return nil, err
	}
	return outcome.Records, nil
}

// ClassifyDetailed is Classify plus per-label counts and the records whose
// identification value was empty.
func (c *Classifier) ClassifyDetailed(records []models.Transaction, settings models.Settings) (Outcome, error) {
	plan, err := Compile(settings)
	if err != nil {
		c.logger.WithError(err).Error("Invalid classification settings")
		return Outcome{}, err
	}
	return c.Apply(plan, records), nil
}

// Apply labels records with an already compiled plan.
func (c *Classifier) Apply(plan *Plan, records []models.Transaction) Outcome {
	outcome := Outcome{Records: make([]models.Transaction, len(records))}

	for i, rec := range records {
		target, warning := plan.Target(rec)
		if warning != nil {
			outcome.Warnings = append(outcome.Warnings, warning)
			c.logger.Debug("Empty identification value, counting record as shared",
				logging.Field{Key: logging.FieldRecordID, Value: rec.ID},
				logging.Field{Key: logging.FieldColumn, Value: plan.Column})
		}

		outcome.Records[i] = rec.WithTarget(target)
		outcome.Counts.Add(target)

		c.logger.Debug("Record classified",
			logging.Field{Key: logging.FieldRecordID, Value: rec.ID},
			logging.Field{Key: logging.FieldTarget, Value: string(target)},
			logging.Field{Key: logging.FieldAmount, Value: rec.Amount.String()})
	}

	c.logger.Info("Classification completed",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: "owner", Value: outcome.Counts.Owner},
		logging.Field{Key: "spouse", Value: outcome.Counts.Spouse},
		logging.Field{Key: "shared", Value: outcome.Counts.Shared},
		logging.Field{Key: "excluded", Value: outcome.Counts.Excluded})

	return outcome
}
