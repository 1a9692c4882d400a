package cli

import (
	"context"
	"time"

	"github.com/quiz-signup/internal/config"
	"github.com/quiz-signup/internal/infrastructure/dynamo"
	"github.com/spf13/cobra"
)

// NewBootstrapCmd builds the subcommand that creates the DynamoDB tables.
func NewBootstrapCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Create DynamoDB tables and TTL settings if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := dynamo.NewClient(ctx, cfg)
			if err != nil {
				return err
			}
			dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for table creation")
	return cmd
}
