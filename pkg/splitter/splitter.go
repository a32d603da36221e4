// Package splitter is the public entry point of the household split
// engine: it classifies transactions and settles the result in one call.
package splitter

import (
	"fmt"
	"time"

	"fjacquet/household-split/internal/classifier"
	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/settlement"

	"github.com/google/uuid"
)

// Engine runs calculations. It keeps no state between calls and can be
// shared between goroutines.
type Engine struct {
	classifier *classifier.Classifier
	calculator *settlement.Calculator
	logger     logging.Logger
}

// NewEngine creates an Engine. Options are passed on to the settlement
// calculator. A nil logger selects the default one.
func NewEngine(logger logging.Logger, opts ...settlement.Option) *Engine {
	logger = logging.OrDefault(logger)
	return &Engine{
		classifier: classifier.NewClassifier(logger),
		calculator: settlement.NewCalculator(logger, opts...),
		logger:     logger,
	}
}

// Calculate classifies records and derives the settlement. Settings are
// fully validated before any record is looked at, so a configuration
// error never comes with a partial result.
func (e *Engine) Calculate(records []models.Transaction, settings models.Settings) (models.CalculationResult, error) {
	started := time.Now()
	logger := e.logger.WithField(logging.FieldRunID, uuid.NewString())
	logger.Info("Starting calculation",
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldSettings, Value: settings.Summary()})

	if err := settings.ValidateRatios(); err != nil {
		logger.WithError(err).Error("Calculation rejected")
		return models.CalculationResult{}, fmt.Errorf("calculate: %w", err)
	}
	plan, err := classifier.Compile(settings)
	if err != nil {
		logger.WithError(err).Error("Calculation rejected")
		return models.CalculationResult{}, fmt.Errorf("calculate: %w", err)
	}

	outcome := e.classifier.Apply(plan, records)
	for _, w := range outcome.Warnings {
		logger.Warn("Record counted as shared",
			logging.Field{Key: logging.FieldRecordID, Value: w.RecordID},
			logging.Field{Key: logging.FieldColumn, Value: w.Field},
			logging.Field{Key: logging.FieldError, Value: w.Reason})
	}

	result, err := e.calculator.Settle(outcome.Records, settings)
	if err != nil {
		logger.WithError(err).Error("Settlement failed")
		return models.CalculationResult{}, fmt.Errorf("settle: %w", err)
	}

	logger.Info("Calculation completed",
		logging.Field{Key: logging.FieldDirection, Value: string(result.SettlementDirection)},
		logging.Field{Key: logging.FieldSettlement, Value: result.SettlementAmount.String()},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(started).String()})
	return result, nil
}

// Classify only labels the records. Settings are checked the same way as
// in Calculate, except for the ratios.
func (e *Engine) Classify(records []models.Transaction, settings models.Settings) (classifier.Outcome, error) {
	return e.classifier.ClassifyDetailed(records, settings)
}

// Validate reports the first configuration error in settings, or nil.
func (e *Engine) Validate(settings models.Settings) error {
	if err := settings.ValidateRatios(); err != nil {
		return err
	}
	_, err := classifier.Compile(settings)
	return err
}

// Calculate runs a calculation with a default Engine.
func Calculate(records []models.Transaction, settings models.Settings) (models.CalculationResult, error) {
	return NewEngine(nil).Calculate(records, settings)
}
