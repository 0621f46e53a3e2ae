package cli

import (
	"fmt"

	"serveon_backend/internal/records/service"
	"serveon_backend/internal/records/transport"

	"github.com/spf13/cobra"
)

// NewExportCmd writes the CSV export of an entity type to stdout.
func NewExportCmd(env *Env) *cobra.Command {
	var req transport.ListRequest

	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Write an entity type's records as CSV",
		Example: `  serveonctl export countries
  serveonctl export customers --q maria
  serveonctl export states --filter uf:equals:PR > estados.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			repo, closeRepo, err := env.Repository(ctx)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer closeRepo()
			kv, closeKV := env.KV(ctx)
			defer closeKV()

			export, err := service.New(repo, kv, nil).Export(ctx, service.Caller{Scope: Scope}, args[0], req)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(export.Body); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d rows exported (%s)\n", export.Rows, export.Filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Query, "q", "", "Text search over the entity's search keys")
	cmd.Flags().StringArrayVar(&req.Filters, "filter", nil, "Condition as field:operator:value (repeatable)")

	return cmd
}
