package use

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/bbct/bbct/internal/cli"
)

// databaseEnv selects the named card store for every bbct process
const databaseEnv = "BBCT_DATABASE"

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// DatabaseCmd returns the use database subcommand
func DatabaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "database [name]",
		Short: "Set the card database for current shell session",
		Long: `Select a named card database using an environment variable.
This command outputs shell commands that should be evaluated:

  eval $(bbct use database trades)    # Use <data dir>/trades.db
  eval $(bbct use database --clear)   # Clear the override
  bbct use database --show            # Show the database in use

BBCT_DATABASE is set in your current shell session only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUseDatabase,
	}

	cmd.Flags().Bool("clear", false, "Clear the database override")
	cmd.Flags().Bool("show", false, "Show the database in use")
	cmd.Flags().Bool("dry-run", false, "Show what would be exported without outputting shell commands")

	return cmd
}

func runUseDatabase(cmd *cobra.Command, args []string) error {
	clearFlag, _ := cmd.Flags().GetBool("clear")
	showFlag, _ := cmd.Flags().GetBool("show")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if showFlag {
		cfg, err := cli.LoadConfig(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Current database: %s (%s)\n", cfg.Database, cfg.DatabasePath())
		return nil
	}

	if clearFlag {
		if dryRun {
			fmt.Fprintf(errOut, "Would clear %s\n", databaseEnv)
			return nil
		}
		fmt.Fprintf(out, "unset %s\n", databaseEnv)
		fmt.Fprintf(errOut, "Cleared database override\n")
		return nil
	}

	if len(args) == 0 {
		return &cli.ExitError{
			Code: cli.ExitUsage,
			Err:  fmt.Errorf("database name required\nUsage: eval $(bbct use database <name>)"),
		}
	}

	name := args[0]
	if !validName.MatchString(name) {
		return cli.UsageError("invalid database name %q (letters, digits, '-' and '_' only)", name)
	}

	if dryRun {
		fmt.Fprintf(errOut, "Would set %s=%s\n", databaseEnv, name)
		return nil
	}

	fmt.Fprintf(out, "export %s=%s\n", databaseEnv, name)
	fmt.Fprintf(errOut, "Now using database %s\n", name)
	return nil
}
