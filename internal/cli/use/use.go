// Package use holds all cli commands related to setting contextual information
// e.g., bbct use ...
package use

import (
	"github.com/spf13/cobra"
)

// UseCmd returns the use parent command
func UseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Manage contextual settings (database)",
		Long: `Set and manage contextual information for the current shell session.

The 'use' command prints shell exports that apply to subsequent commands,
eliminating the need to repeatedly edit the config file.

Examples:
  eval $(bbct use database trades)   # Work on trades.db
  eval $(bbct use database --clear)  # Back to the configured database
  bbct use database --show           # Show current database`,
	}

	cmd.AddCommand(DatabaseCmd())

	return cmd
}
