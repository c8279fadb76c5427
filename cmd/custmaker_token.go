package cmd

import (
	"fmt"

	"custmaker/config"
	"custmaker/infra/middleware"

	"github.com/spf13/cobra"
)

var tokenSubject string

// TokenCmd signs an admin token for the generate and reset routes.
var TokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin bearer token signed with ADMIN_JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.AdminJWTSecret == "" {
			return fmt.Errorf("ADMIN_JWT_SECRET is not set")
		}
		token, err := middleware.SignAdminToken(cfg.AdminJWTSecret, tokenSubject)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	TokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "Token subject")
}
