// Package cli provides the command-line interface for the trading journal.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradevision/internal/config"
	"tradevision/internal/flow"
	"tradevision/internal/ledger"
	"tradevision/internal/logging"
	"tradevision/internal/models"
	"tradevision/internal/schedule"
	"tradevision/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    *store.Store
	Ledger   *ledger.Service
	Flows    *flow.Service
	Catalog  *flow.Catalog
	Schedule *schedule.Service
}

// Mode resolves the execution mode for a command, preferring the
// --mode flag over the configured default.
func (a *App) Mode(cmd *cobra.Command) (models.ExecutionMode, error) {
	flag, _ := cmd.Flags().GetString("mode")
	if flag != "" {
		return ParseMode(flag)
	}
	return ParseMode(a.Config.Trading.DefaultMode)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, error) {
	dataStore, err := store.Open(cfg.Data.Dir, logger)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		Logger:   logger,
		Store:    dataStore,
		Ledger:   ledger.NewService(dataStore, logger),
		Flows:    flow.NewService(dataStore, logger),
		Catalog:  flow.NewCatalog(dataStore),
		Schedule: schedule.NewService(dataStore, logger),
	}

	rootCmd := &cobra.Command{
		Use:   "tradevision",
		Short: "TradeVision - structured trading journal CLI",
		Long: `TradeVision is a structured trading journal for discretionary traders.

It keeps a catalog of market conditions, a time-block confirmation schedule,
and trading-flow definitions, matches the day's confirmations against flows,
and records trades in parallel real and theoretical ledgers so execution can
be scored against the plan.

Use 'tradevision help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradevision)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("mode", "", "execution mode: real or theoretical (default from config)")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addCatalogCommands(rootCmd, app)
	addBlockCommands(rootCmd, app)
	addFlowCommands(rootCmd, app)
	addEdgeCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addOrderCommands(rootCmd, app)
	addScoreCommands(rootCmd, app)
	addActivityCommands(rootCmd, app)
	addRuleCommands(rootCmd, app)
	addDataCommands(rootCmd, app)

	return rootCmd, nil
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("TradeVision v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Trading Configuration")
	output.Printf("  Default Mode:     %s\n", cfg.Trading.DefaultMode)
	output.Printf("  Long Trade Limit: %.2f\n", cfg.Trading.LongTradeLimit)
	output.Printf("  Short Trade Limit: %.2f\n", cfg.Trading.ShortTradeLimit)
	output.Println()

	output.Bold("Scoring Configuration")
	output.Printf("  Entry Miss Penalty: %d\n", cfg.Scoring.EntryMissPenalty)
	output.Println()

	output.Bold("Data")
	output.Printf("  Directory: %s\n", cfg.Data.Dir)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level: %s\n", cfg.Logging.Level)
	output.Printf("  File:  %v\n", cfg.Logging.File)

	return nil
}
