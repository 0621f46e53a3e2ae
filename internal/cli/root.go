package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd assembles serveonctl.
func NewRootCmd(env *Env, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "serveonctl",
		Short: "Serveon back-office tooling",
		Long: `serveonctl runs maintenance tasks against the Serveon database and lets
you exercise the list search and navigation search from a terminal.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(NewMigrateCmd(env))
	root.AddCommand(NewSeedCmd(env))
	root.AddCommand(NewExportCmd(env))
	root.AddCommand(NewNavCmd(env))
	root.AddCommand(NewBrowseCmd(env))

	return root
}
