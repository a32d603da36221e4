// Package batch runs independent calculations over a directory of payload
// files in parallel and summarizes the outcome.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/household-split/internal/dateutils"
	"fjacquet/household-split/internal/fileutils"
	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/payload"
	"fjacquet/household-split/internal/report"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Calculator computes the settlement of one payload.
type Calculator interface {
	Calculate(records []models.Transaction, settings models.Settings) (models.CalculationResult, error)
}

// Renderer turns a result into report bytes.
type Renderer interface {
	GenerateReport(result *models.CalculationResult, format string) ([]byte, error)
}

// FileResult is the outcome for one payload file.
type FileResult struct {
	Input     string
	Output    string
	Direction models.SettlementDirection
	Amount    decimal.Decimal
	Period    models.Period
	Err       error
}

// Succeeded reports whether the file was calculated and written.
func (r FileResult) Succeeded() bool {
	return r.Err == nil
}

// balance returns the settlement signed from the owner's side: positive
// when the spouse pays the owner.
func (r FileResult) balance() decimal.Decimal {
	switch r.Direction {
	case models.DirectionSpouseToOwner:
		return r.Amount
	case models.DirectionOwnerToSpouse:
		return r.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// BatchSummary aggregates the results of one batch run. Results are in
// file name order.
type BatchSummary struct {
	Files     int
	Succeeded int
	Failed    int
	Results   []FileResult
	// Period spans the periods of all succeeded files.
	Period dateutils.DateRange
	// NetAmount and NetDirection combine the settlements of all succeeded
	// files into one transfer.
	NetAmount    decimal.Decimal
	NetDirection models.SettlementDirection
}

// Failures returns the results that carry an error.
func (s BatchSummary) Failures() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if !r.Succeeded() {
			out = append(out, r)
		}
	}
	return out
}

// Runner processes payload files with a bounded number of workers.
type Runner struct {
	calculator Calculator
	renderer   Renderer
	logger     logging.Logger
	workers    int
	pattern    string
	format     string
	defaults   models.Settings
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of files processed concurrently. Values
// below 1 are ignored.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithPattern sets the glob selecting payload files in the input directory.
func WithPattern(pattern string) Option {
	return func(r *Runner) {
		if pattern != "" {
			r.pattern = pattern
		}
	}
}

// WithFormat sets the report format written per file.
func WithFormat(format string) Option {
	return func(r *Runner) {
		if format != "" {
			r.format = format
		}
	}
}

// WithDefaults sets the settings used for payloads without settings and
// for the fields a payload leaves empty.
func WithDefaults(settings models.Settings) Option {
	return func(r *Runner) {
		r.defaults = settings
	}
}

// NewRunner creates a Runner with 4 workers, the *.json pattern and JSON
// reports.
func NewRunner(calculator Calculator, renderer Renderer, logger logging.Logger, opts ...Option) *Runner {
	r := &Runner{
		calculator: calculator,
		renderer:   renderer,
		logger:     logging.OrDefault(logger).WithField(logging.FieldComponent, "BatchRunner"),
		workers:    4,
		pattern:    "*.json",
		format:     report.FormatJSON,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run calculates every payload of inputDir and writes one report per file
// to outputDir. A failing file is recorded in the summary and never stops
// the others; the returned error is reserved for problems with the
// directories themselves and for cancellation.
func (r *Runner) Run(ctx context.Context, inputDir, outputDir string) (BatchSummary, error) {
	started := time.Now()

	files, err := fileutils.MatchFiles(inputDir, r.pattern)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("failed to list payload files: %w", err)
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return BatchSummary{}, err
	}
	if len(files) == 0 {
		r.logger.Warn("No payload files found in input directory",
			logging.Field{Key: logging.FieldInputFile, Value: inputDir},
			logging.Field{Key: "pattern", Value: r.pattern})
		return BatchSummary{NetAmount: decimal.Zero, NetDirection: models.DirectionNone}, nil
	}

	r.logger.Info("Found payload files",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "workers", Value: r.workers})

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = FileResult{Input: file, Err: err}
				return nil
			}
			results[i] = r.processFile(file, outputDir)
			return nil
		})
	}
	_ = g.Wait()

	summary := summarize(results)
	r.logger.Info("Batch completed",
		logging.Field{Key: "files", Value: summary.Files},
		logging.Field{Key: "succeeded", Value: summary.Succeeded},
		logging.Field{Key: "failed", Value: summary.Failed},
		logging.Field{Key: logging.FieldDirection, Value: string(summary.NetDirection)},
		logging.Field{Key: logging.FieldSettlement, Value: summary.NetAmount.String()},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(started).String()})

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) processFile(file, outputDir string) FileResult {
	res := FileResult{Input: file}
	logger := r.logger.WithField(logging.FieldInputFile, filepath.Base(file))

	req, err := payload.DecodeFile(file)
	if err != nil {
		res.Err = err
		logger.WithError(err).Error("Failed to decode payload")
		return res
	}

	result, err := r.calculator.Calculate(req.Records, req.ResolveSettings(r.defaults))
	if err != nil {
		res.Err = err
		logger.WithError(err).Error("Calculation failed")
		return res
	}

	out, err := r.renderer.GenerateReport(&result, r.format)
	if err != nil {
		res.Err = err
		logger.WithError(err).Error("Failed to render report")
		return res
	}

	output := fileutils.OutputPath(file, outputDir, report.Extension(r.format))
	if samePath(output, file) {
		res.Err = fmt.Errorf("report would overwrite its payload: %s", file)
		logger.WithError(res.Err).Error("Refusing to write report")
		return res
	}
	if err := fileutils.WriteFile(output, out); err != nil {
		res.Err = err
		logger.WithError(err).Error("Failed to write report")
		return res
	}

	res.Output = output
	res.Direction = result.SettlementDirection
	res.Amount = result.SettlementAmount
	res.Period = result.Period
	logger.Info("Payload calculated",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldDirection, Value: string(res.Direction)},
		logging.Field{Key: logging.FieldSettlement, Value: res.Amount.String()})
	return res
}

func summarize(results []FileResult) BatchSummary {
	summary := BatchSummary{Files: len(results), Results: results}
	net := decimal.Zero

	for _, res := range results {
		if !res.Succeeded() {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		net = net.Add(res.balance())
		summary.Period = summary.Period.Merge(periodRange(res.Period))
	}

	switch {
	case net.IsZero():
		summary.NetAmount = decimal.Zero
		summary.NetDirection = models.DirectionNone
	case net.IsPositive():
		summary.NetAmount = net
		summary.NetDirection = models.DirectionSpouseToOwner
	default:
		summary.NetAmount = net.Neg()
		summary.NetDirection = models.DirectionOwnerToSpouse
	}
	return summary
}

func periodRange(p models.Period) dateutils.DateRange {
	var dr dateutils.DateRange
	for _, s := range []string{p.Start, p.End} {
		if date, _, err := dateutils.ParseDate(s); err == nil {
			dr = dr.Extend(date)
		}
	}
	return dr
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
