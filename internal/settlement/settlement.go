// Package settlement reduces classified household transactions into
// per-party totals, ratio-based shares and the single transfer that
// settles the difference.
package settlement

import (
	"fjacquet/household-split/internal/dateutils"
	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/spliterror"

	"github.com/shopspring/decimal"
)

// DefaultEpsilon is the tolerance under which the owner's balance counts
// as settled.
var DefaultEpsilon = decimal.New(1, -6)

// NoRounding disables rounding of the owner's part of shared expenses.
const NoRounding int32 = -1

var hundred = decimal.NewFromInt(models.RatioTotal)

// Calculator computes settlements. It holds only configuration and is safe
// for concurrent use.
type Calculator struct {
	logger      logging.Logger
	epsilon     decimal.Decimal
	roundPlaces int32
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithEpsilon sets the settled-balance tolerance. Negative values are
// ignored.
func WithEpsilon(epsilon decimal.Decimal) Option {
	return func(c *Calculator) {
		if !epsilon.IsNegative() {
			c.epsilon = epsilon
		}
	}
}

// WithRounding rounds the owner's part of shared expenses to places
// decimal places (half away from zero). The spouse's part is still
// derived by subtraction. NoRounding disables it.
func WithRounding(places int32) Option {
	return func(c *Calculator) {
		c.roundPlaces = places
	}
}

// NewCalculator creates a Calculator. A nil logger selects the default one.
func NewCalculator(logger logging.Logger, opts ...Option) *Calculator {
	c := &Calculator{
		logger:      logging.OrDefault(logger),
		epsilon:     DefaultEpsilon,
		roundPlaces: NoRounding,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// totals accumulates amounts per calculation target.
type totals struct {
	owner, spouse, shared decimal.Decimal
	counts                models.TargetCounts
	period                dateutils.DateRange
}

// Settle aggregates classified records and derives the settlement. Every
// record must carry one of the four calculation targets. Ratios are
// validated before anything is summed.
func (c *Calculator) Settle(classified []models.Transaction, settings models.Settings) (models.CalculationResult, error) {
	if err := settings.ValidateRatios(); err != nil {
		c.logger.WithError(err).Error("Invalid settlement ratios")
		return models.CalculationResult{}, err
	}
	if err := settings.ValidateSign(); err != nil {
		return models.CalculationResult{}, err
	}

	t, err := c.aggregate(classified, settings)
	if err != nil {
		return models.CalculationResult{}, err
	}

	result := c.split(t, settings.OwnerRatio)
	result.Counts = t.counts
	result.Records = make([]models.Transaction, len(classified))
	copy(result.Records, classified)
	if !t.period.IsZero() {
		result.Period = models.Period{
			Start: dateutils.ToISODate(t.period.Start),
			End:   dateutils.ToISODate(t.period.End),
		}
	}

	c.logger.Info("Settlement calculated",
		logging.Field{Key: "period", Value: result.Period.String()},
		logging.Field{Key: "owner_total", Value: result.OwnerTotal.String()},
		logging.Field{Key: "spouse_total", Value: result.SpouseTotal.String()},
		logging.Field{Key: "shared_total", Value: result.SharedTotal.String()},
		logging.Field{Key: "owner_share", Value: result.OwnerShare.String()},
		logging.Field{Key: "spouse_share", Value: result.SpouseShare.String()},
		logging.Field{Key: logging.FieldSettlement, Value: result.SettlementAmount.String()},
		logging.Field{Key: logging.FieldDirection, Value: string(result.SettlementDirection)})

	return result, nil
}

func (c *Calculator) aggregate(classified []models.Transaction, settings models.Settings) (totals, error) {
	t := totals{owner: decimal.Zero, spouse: decimal.Zero, shared: decimal.Zero}

	for _, rec := range classified {
		if !rec.CalculationTarget.IsValid() {
			return totals{}, &spliterror.ValidationError{
				RecordID: rec.ID,
				Field:    "calculation_target",
				Reason:   "record has not been classified",
			}
		}
		t.counts.Add(rec.CalculationTarget)
		if rec.CalculationTarget == models.TargetExcluded {
			continue
		}

		amount, ok := settings.ExpenseAmount(rec)
		if !ok {
			// Income rows are labelled excluded by the classifier; a
			// differently labelled one means the inputs disagree.
			return totals{}, &spliterror.ValidationError{
				RecordID: rec.ID,
				Field:    "amount",
				Reason:   "not an expense under amount_sign " + string(settings.Sign()),
			}
		}

		switch rec.CalculationTarget {
		case models.TargetOwner:
			t.owner = t.owner.Add(amount)
		case models.TargetSpouse:
			t.spouse = t.spouse.Add(amount)
		case models.TargetShared:
			t.shared = t.shared.Add(amount)
		}

		if date, _, err := dateutils.ParseDate(rec.Date); err == nil {
			t.period = t.period.Extend(date)
		} else if rec.Date != "" {
			c.logger.Warn("Unparseable date ignored for period",
				logging.Field{Key: logging.FieldRecordID, Value: rec.ID},
				logging.Field{Key: "date", Value: rec.Date})
		}
	}
	return t, nil
}

// split applies the owner ratio to the shared bucket and derives shares and
// the settlement. The spouse's part is shared minus the owner's part so
// that both parts always add up to the shared total.
func (c *Calculator) split(t totals, ownerRatio decimal.Decimal) models.CalculationResult {
	ownerShared := t.shared.Mul(ownerRatio).Div(hundred)
	if c.roundPlaces >= 0 {
		ownerShared = ownerShared.Round(c.roundPlaces)
	}
	spouseShared := t.shared.Sub(ownerShared)

	ownerShare := t.owner.Add(ownerShared)
	spouseShare := t.spouse.Add(spouseShared)

	result := models.CalculationResult{
		OwnerTotal:   t.owner,
		SpouseTotal:  t.spouse,
		SharedTotal:  t.shared,
		TotalExpense: t.owner.Add(t.spouse).Add(t.shared),
		OwnerShare:   ownerShare,
		SpouseShare:  spouseShare,
	}

	balance := t.owner.Sub(ownerShare)
	switch {
	case balance.Abs().LessThanOrEqual(c.epsilon):
		result.SettlementAmount = decimal.Zero
		result.SettlementDirection = models.DirectionNone
	case balance.IsPositive():
		result.SettlementAmount = balance
		result.SettlementDirection = models.DirectionSpouseToOwner
	default:
		result.SettlementAmount = balance.Neg()
		result.SettlementDirection = models.DirectionOwnerToSpouse
	}
	return result
}
