package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"insightedge/backend/utils"
)

func newTokenCmd() *cobra.Command {
	var subject, scope string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the API (signed with JWT_SECRET)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			tok, err := utils.GenerateJWT(secret, subject, scope, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	cmd.Flags().StringVar(&scope, "scope", "dashboard", "Token scope claim")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
