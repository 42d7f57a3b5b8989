package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"options-tracker/internal/config"
	"options-tracker/internal/logging"
	"options-tracker/internal/store"
)

// Version information
const (
	Version = "0.3.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	DBPath string
}

// OpenStore opens the SQLite store at the configured path.
func (a *App) OpenStore() (store.DataStore, error) {
	path := a.DBPath
	if path == "" {
		path = config.DefaultDBPath()
	}
	return store.NewSQLiteStore(path)
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		DBPath: filepath.Join(config.DefaultConfigDir(), "optrack.db"),
	}

	rootCmd := &cobra.Command{
		Use:   "optrack",
		Short: "optrack - options trade reconstruction from broker exports",
		Long: `optrack rebuilds logical option trades from brokerage transaction exports.

It reads tastytrade and Robinhood CSV activity files, groups related legs
into orders, infers the multi-leg strategy (verticals, straddles, iron
condors, ...), matches closes to opens FIFO, and keeps the reconstructed
trades in a local SQLite database for listing, reporting, and export.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optrack)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
	rootCmd.AddCommand(newTradesCmd(app))
	rootCmd.AddCommand(newReportCmd(app))
	rootCmd.AddCommand(newExportCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("optrack v%s\n", Version)
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
			output.Bold("Import")
			output.Printf("  Default Account: %s\n", app.Config.Import.DefaultAccount)
			output.Printf("  Default Broker:  %s\n", orAuto(app.Config.Import.DefaultBroker))
			output.Printf("  Timezone:        %s\n", app.Config.Import.Timezone)
			output.Println()
			output.Bold("Logging")
			output.Printf("  Level:   %s\n", app.Config.Logging.Level)
			output.Printf("  Console: %v\n", app.Config.Logging.Console)
			output.Printf("  File:    %v\n", app.Config.Logging.File)
			return nil
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

func orAuto(s string) string {
	if s == "" {
		return "auto-detect"
	}
	return s
}
