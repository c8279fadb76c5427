package cmd

import (
	"fmt"

	"custmaker/internal/bootstrap"

	"github.com/spf13/cobra"
)

// InitDBCmd creates the customer and reference tables.
var InitDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the customer and reference tables",
	RunE:  runInitDB,
}

func runInitDB(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, cleanup, err := bootstrap.NewDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := deps.EnsureSchema(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema ready")
	return nil
}
