package cli

import (
	"fmt"

	"serveon_backend/internal/records/seed"
	"serveon_backend/internal/records/service"

	"github.com/spf13/cobra"
)

// NewMigrateCmd applies pending database migrations.
func NewMigrateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

// NewSeedCmd loads the sample master data into empty entity types.
func NewSeedCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample master data into empty entity types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			batches, err := seed.Default()
			if err != nil {
				return err
			}

			repo, closeRepo, err := env.Repository(ctx)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer closeRepo()
			kv, closeKV := env.KV(ctx)
			defer closeKV()

			created, err := seed.Apply(ctx, service.New(repo, kv, nil), batches)
			for _, b := range batches {
				if n := created[b.Entity]; n > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", b.Entity, n)
				}
			}
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to seed")
			}
			return nil
		},
	}
}
