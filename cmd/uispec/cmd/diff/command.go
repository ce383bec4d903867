// Package diff provides the diff command.
package diff

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/internal/cmd/cmdutil"
	"github.com/agentstation/uispec/internal/cmd/output"
	"github.com/agentstation/uispec/internal/cmd/table"
	"github.com/agentstation/uispec/pkg/differ"
)

// NewCommand creates the diff command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		ignore  []string
		noState bool
		shallow bool
	)

	cmd := &cobra.Command{
		Use:     "diff OLD NEW",
		GroupID: "core",
		Short:   "Compare two trees",
		Long: `Diff compares two trees element by element and reports added, updated
and removed elements plus state changes. Trees are read as-is, without
sanitizing or repair.

Ignored fields match the change path exactly or by prefix, e.g. "props.value"
or "state".`,
		Example: `  uispec diff turn1.json turn2.json
  uispec diff turn1.json turn2.json --ignore props.value --no-state -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdutil.CheckStdin(args...); err != nil {
				return err
			}
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}

			existing, err := cmdutil.ReadTree(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			updated, err := cmdutil.ReadTree(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}

			changeset := differ.New(
				differ.WithIgnoredFields(ignore...),
				differ.WithState(!noState),
				differ.WithDeepComparison(!shallow),
			).Trees(existing, updated)

			w := cmd.OutOrStdout()
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.Print(w, format, output.Data{}, changeset)
			}
			if changeset.IsEmpty() {
				fmt.Fprintln(w, "No changes detected")
				return nil
			}
			if err := output.Print(w, format, table.ChangesetToTableData(changeset), nil); err != nil {
				return err
			}
			fmt.Fprintln(w, table.SummaryLine(changeset.Summary))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "change paths to ignore (comma-separated)")
	cmd.Flags().BoolVar(&noState, "no-state", false, "skip state comparison")
	cmd.Flags().BoolVar(&shallow, "shallow", false, "report a changed nested prop as one change")

	return cmd
}
