// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"fjacquet/household-split/internal/config"
	"fjacquet/household-split/internal/container"
	"fjacquet/household-split/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input     string
	Output    string
	Config    string
	LogLevel  string
	LogFormat string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies of the running command.
	AppContainer *container.Container

	// SharedFlags are the persistent flags of the root command.
	SharedFlags = CommonFlags{}

	initOnce sync.Once

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "household-split",
		Short: "Split household expenses between owner and spouse and compute the settlement.",
		Long: `household-split classifies household ledger records as owner, spouse, shared
or excluded using two regular expressions on an identification column, applies
the cost-sharing ratio to shared expenses and reports the single transfer that
settles the month.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to household-split!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}
)

// Init registers the persistent flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input payload file (default: stdin); input directory for batch")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout); output directory for batch")
		Cmd.PersistentFlags().StringVar(&SharedFlags.Config, "config", "", "Config file (default: $SPLIT_CONFIG, then config.yaml in $HOME/.household-split, .household-split or .)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
	})
}

// Initialize loads .env, the configuration and the container. Flag values
// override the configuration.
func Initialize() error {
	if envFile, err := config.LoadEnv(); err != nil {
		Log.WithError(err).Warn("Failed to load .env file")
	} else if envFile != "" {
		Log.Debug("Loaded environment file", logging.Field{Key: "file", Value: envFile})
	}

	configFile := SharedFlags.Config
	if configFile == "" {
		configFile = config.GetEnv(config.EnvPrefix+"_CONFIG", "")
	}
	cfg, err := config.InitializeConfigFromFile(configFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	Log = config.ConfigureLoggingFromConfig(cfg)
	c, err := container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	AppConfig = cfg
	AppContainer = c
	return nil
}

// GetContainer returns the container built by Initialize, or nil.
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogger returns the command logger.
func GetLogger() logging.Logger {
	return Log
}
