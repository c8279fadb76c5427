package cmd

import (
	"fmt"
	"time"

	"custmaker/core/port/in"
	"custmaker/core/service/generator"
	"custmaker/internal/bootstrap"

	"github.com/spf13/cobra"
)

var (
	generateCount    int
	generateJoinDate string
	generateSeed     uint64
)

// GenerateCmd samples and stores one batch of customers.
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and store synthetic customers",
	Long: `Samples --count customers from the reference tables and inserts them into the
customer table in one transaction. All customers share --join-date (YYYYMMDD).
A non-zero --seed makes the batch reproducible.`,
	Example: "  custmaker generate --count 1000 --join-date 20230101",
	RunE:    runGenerate,
}

func init() {
	GenerateCmd.Flags().IntVar(&generateCount, "count", 0, "Number of customers to generate")
	GenerateCmd.Flags().StringVar(&generateJoinDate, "join-date", "", "Join date shared by the batch (YYYYMMDD)")
	GenerateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "Random seed (0 = random)")
	_ = GenerateCmd.MarkFlagRequired("count")
	_ = GenerateCmd.MarkFlagRequired("join-date")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	var opts []generator.Option
	if generateSeed != 0 {
		opts = append(opts, generator.WithSeed(generateSeed))
	}

	deps, cleanup, err := bootstrap.NewDependencies(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	defer cleanup()

	run, err := deps.CustomerService.Generate(ctx, &in.GenerateRequest{
		Count:    generateCount,
		JoinDate: generateJoinDate,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d customers joined %s in %v\n",
		run.ID, run.Count, run.JoinDate, run.Duration.Round(time.Millisecond))
	return nil
}
