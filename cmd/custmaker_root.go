// Package cmd holds the custmaker command line.
package cmd

import (
	"custmaker/config"
	"custmaker/pkg/logger"

	"github.com/spf13/cobra"
)

var configPath string

// RootCmd is the custmaker entry point.
var RootCmd = &cobra.Command{
	Use:   "custmaker",
	Short: "Synthetic customer generator",
	Long: `custmaker samples fictitious customers (name, sex, birthdate, join date) from
reference distributions stored in PostgreSQL, and compares the generated
population with the references.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML database file (can also use CUSTMAKER_CONFIG env var)")

	RootCmd.AddCommand(ServeCmd)
	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(InitDBCmd)
	RootCmd.AddCommand(ImportCmd)
	RootCmd.AddCommand(CompareCmd)
	RootCmd.AddCommand(TokenCmd)
}

// loadConfig reads and validates the configuration, then configures the logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Service: "custmaker",
		Console: cfg.IsDevelopment(),
	})
	return cfg, nil
}
