package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/uispec/cmd/uispec/cmd/diff"
	"github.com/agentstation/uispec/cmd/uispec/cmd/normalize"
	"github.com/agentstation/uispec/cmd/uispec/cmd/reconcile"
	"github.com/agentstation/uispec/cmd/uispec/cmd/serve"
	"github.com/agentstation/uispec/cmd/uispec/cmd/validate"
	"github.com/agentstation/uispec/cmd/uispec/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(normalize.NewCommand(a))
	rootCmd.AddCommand(reconcile.NewCommand(a))
	rootCmd.AddCommand(diff.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}
