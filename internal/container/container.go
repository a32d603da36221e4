// Package container provides dependency injection for the household-split
// application. It centralizes the creation and wiring of the logger, the
// calculation engine, the report generator and the batch runner.
package container

import (
	"fmt"

	"fjacquet/household-split/internal/batch"
	"fjacquet/household-split/internal/config"
	"fjacquet/household-split/internal/logging"
	"fjacquet/household-split/internal/report"
	"fjacquet/household-split/internal/settlement"
	"fjacquet/household-split/pkg/splitter"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	engine    *splitter.Engine
	generator *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies from cfg.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger is NewContainer with an already built logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger = logging.OrDefault(logger)

	opts := []settlement.Option{
		settlement.WithEpsilon(cfg.SettlementEpsilon()),
	}
	if cfg.Settlement.RoundPlaces >= 0 {
		opts = append(opts, settlement.WithRounding(int32(cfg.Settlement.RoundPlaces))) // #nosec G115 -- bounded by validateConfig
	}

	engine := splitter.NewEngine(logger, opts...)
	generator := report.NewReportGenerator(logger)

	logger.Debug("Container initialized",
		logging.Field{Key: "epsilon", Value: cfg.Settlement.Epsilon},
		logging.Field{Key: "round_places", Value: cfg.Settlement.RoundPlaces},
		logging.Field{Key: "workers", Value: cfg.Batch.Workers})

	return &Container{
		logger:    logger,
		config:    cfg,
		engine:    engine,
		generator: generator,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetEngine returns the calculation engine.
func (c *Container) GetEngine() *splitter.Engine {
	return c.engine
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.generator
}

// NewBatchRunner returns a batch runner configured from the batch and
// settings sections. format overrides output.format when not empty; opts
// are applied last.
func (c *Container) NewBatchRunner(format string, opts ...batch.Option) *batch.Runner {
	if format == "" {
		format = c.config.Output.Format
	}
	all := []batch.Option{
		batch.WithWorkers(c.config.Batch.Workers),
		batch.WithPattern(c.config.Batch.Pattern),
		batch.WithFormat(format),
		batch.WithDefaults(c.config.DefaultSettings()),
	}
	return batch.NewRunner(c.engine, c.generator, c.logger, append(all, opts...)...)
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
