package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"custmaker/core/domain"
	"custmaker/core/port/in"
	"custmaker/core/service/comparison"
	"custmaker/internal/bootstrap"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	compareTop    int
	compareName   string
	compareFrom   int
	compareTo     int
	compareAsJSON bool
)

// CompareCmd prints a reference-vs-actual report.
var CompareCmd = &cobra.Command{
	Use:       "compare [sex|lastname|firstname|age]",
	Short:     "Compare reference and generated distributions",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"sex", "lastname", "firstname", "age"},
	RunE:      runCompare,
}

func init() {
	CompareCmd.Flags().IntVar(&compareTop, "top", comparison.DefaultTopN, "Number of last names (1-25)")
	CompareCmd.Flags().StringVar(&compareName, "name", "", "First name to look up")
	CompareCmd.Flags().IntVar(&compareFrom, "from", comparison.MinAge, "Youngest age")
	CompareCmd.Flags().IntVar(&compareTo, "to", comparison.MaxAge, "Oldest age")
	CompareCmd.Flags().BoolVar(&compareAsJSON, "json", false, "Print JSON instead of a table")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps, cleanup, err := bootstrap.NewDependencies(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := buildReport(cmd, deps.ComparisonService, args[0])
	if err != nil {
		return err
	}

	if compareAsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printComparison(cmd.OutOrStdout(), report)
}

func buildReport(cmd *cobra.Command, svc in.ComparisonService, kind string) (*domain.Comparison, error) {
	ctx := cmd.Context()
	switch kind {
	case "sex":
		return svc.Sex(ctx)
	case "lastname":
		return svc.LastNames(ctx, compareTop)
	case "firstname":
		return svc.FirstNames(ctx, compareName)
	case "age":
		return svc.Ages(ctx, compareFrom, compareTo)
	default:
		return nil, fmt.Errorf("unknown report %q", kind)
	}
}

func printComparison(w io.Writer, c *domain.Comparison) error {
	fmt.Fprintln(w, c.Title)
	if c.Message != "" {
		fmt.Fprintln(w, c.Message)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REFERENCE\tRATIO(%)\t\tACTUAL\tRATIO(%)\tCOUNT")
	for i := 0; i < max(len(c.Reference), len(c.Actual)); i++ {
		var refLabel, refRatio, actLabel, actRatio, actCount string
		if i < len(c.Reference) {
			refLabel, refRatio = c.Reference[i].Label, fmt.Sprintf("%.2f", c.Reference[i].Ratio)
		}
		if i < len(c.Actual) {
			a := c.Actual[i]
			actLabel, actRatio, actCount = a.Label, fmt.Sprintf("%.2f", a.Ratio), fmt.Sprint(a.Count)
		}
		fmt.Fprintf(tw, "%s\t%s\t\t%s\t%s\t%s\n", refLabel, refRatio, actLabel, actRatio, actCount)
	}
	return tw.Flush()
}
