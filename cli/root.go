/*
Package cli implements the leave-planner command line tool.

COMMANDS:
  compute    allocate leave and print budgets, income and warnings
  encode     print the share token (and URL) for a configuration
  decode     print the configuration behind a share token
  holidays   list national holidays for a year
  tax        export or check tax tables

A configuration comes either from --token or from the individual flags
(--birth, --salary, --budget, --period, ...). Flags given next to --token
override the token values that they name.

SEE ALSO:
  - cmd/planner/main.go: binary entry point
  - planner/: the computation behind every command
*/
package cli

import (
	"github.com/spf13/cobra"

	"github.com/warp/leave-planner/finance"
	"github.com/warp/leave-planner/holidays"
)

// App holds the collaborators shared by all commands.
type App struct {
	Dutch     *holidays.Dutch
	TaxTables *finance.TaxTables
}

// NewApp returns an App with the built-in holiday and tax tables.
func NewApp() *App {
	return &App{
		Dutch:     holidays.NewDefaultDutch(),
		TaxTables: finance.NewTaxTables(),
	}
}

// NewRootCmd creates the top-level "planner" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Dutch birth and parental leave planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newComputeCmd(app),
		newEncodeCmd(app),
		newDecodeCmd(app),
		newHolidaysCmd(app),
		newTaxCmd(app),
	)

	return root
}
