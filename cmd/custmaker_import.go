package cmd

import (
	"fmt"
	"os"

	"custmaker/core/domain"
	"custmaker/internal/bootstrap"

	"github.com/spf13/cobra"
)

var (
	importCategory string
	importFile     string
)

// ImportCmd loads a value,ratio CSV into a reference table.
var ImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a reference distribution from CSV",
	Long: `Reads a two-column CSV (value,ratio; header optional) and upserts it into the
reference table of --category: sex, lastname, firstname, age or region.`,
	Example: "  custmaker import --category lastname --file lastname.csv",
	RunE:    runImport,
}

func init() {
	ImportCmd.Flags().StringVar(&importCategory, "category", "", "Reference category")
	ImportCmd.Flags().StringVar(&importFile, "file", "", "CSV file path")
	_ = ImportCmd.MarkFlagRequired("category")
	_ = ImportCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	category, err := domain.ParseCategory(importCategory)
	if err != nil {
		return err
	}

	f, err := os.Open(importFile)
	if err != nil {
		return err
	}
	defer f.Close()

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

	n, err := deps.CustomerService.ImportReference(cmd.Context(), category, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows into %s\n", n, category)
	return nil
}
