// Package reconcile provides the reconcile command: one full turn against a
// previous tree, with optional live interactions.
package reconcile

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/internal/cmd/cmdutil"
	"github.com/agentstation/uispec/internal/cmd/output"
	"github.com/agentstation/uispec/internal/cmd/table"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/provenance"
	"github.com/agentstation/uispec/pkg/state"
)

// Options holds the reconcile flags.
type Options struct {
	Previous       string
	Live           string
	Provenance     bool
	SaveProvenance string
	Paths          []string
}

// NewCommand creates the reconcile command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:     "reconcile NEXT",
		GroupID: "core",
		Short:   "Reconcile a snapshot against the previous tree",
		Long: `Reconcile runs the full pipeline on NEXT: sanitize, repair, deduplicate,
match elements against the previous tree so ids stay stable, and merge state.

Live interactions are applied on top of the merged state. They are read from
a JSON or YAML list of {path, value} entries.

Without --previous the snapshot is treated as the first turn.`,
		Example: `  uispec reconcile turn2.json --previous turn1.tree.json
  uispec reconcile turn2.json --previous turn1.tree.json --live clicks.yaml
  uispec reconcile turn2.json --previous turn1.tree.json --save-provenance prov.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Previous, "previous", "", "previous finalized tree")
	cmd.Flags().StringVar(&opts.Live, "live", "", "live interactions to apply")
	cmd.Flags().BoolVar(&opts.Provenance, "provenance", false, "track where every state value came from")
	cmd.Flags().StringVar(&opts.SaveProvenance, "save-provenance", "", "write state provenance to a YAML file")
	cmd.Flags().StringSliceVar(&opts.Paths, "paths", nil, "limit provenance to state paths (glob or /prefix/*)")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, next string, opts *Options) error {
	if err := cmdutil.CheckStdin(next, opts.Previous, opts.Live); err != nil {
		return err
	}
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}

	var pipelineOpts []pipeline.Option
	if opts.Provenance || opts.SaveProvenance != "" {
		pipelineOpts = append(pipelineOpts, pipeline.WithProvenance(true))
	}
	p, err := app.Pipeline(pipelineOpts...)
	if err != nil {
		return err
	}

	in := pipeline.Input{}
	if in.Next, err = cmdutil.ReadSnapshot(next, cmd.InOrStdin()); err != nil {
		return err
	}
	if opts.Previous != "" {
		if in.Previous, err = cmdutil.ReadTree(opts.Previous, cmd.InOrStdin()); err != nil {
			return err
		}
	}
	if opts.Live != "" {
		writes, err := cmdutil.ReadLive(opts.Live, cmd.InOrStdin())
		if err != nil {
			return err
		}
		in.Live = state.NewLive(writes...)
	}

	result, err := p.Run(cmd.Context(), in)
	if err != nil {
		return err
	}

	result.Provenance = filterProvenance(result.Provenance, opts.Paths)
	if opts.SaveProvenance != "" {
		if err := provenance.Save(opts.SaveProvenance, result.Provenance); err != nil {
			return err
		}
		app.Logger().Info().Str("path", opts.SaveProvenance).Int("paths", len(result.Provenance)).Msg("Provenance saved")
	}

	return render(cmd.OutOrStdout(), format, result)
}

// filterProvenance keeps the paths matching any pattern.
func filterProvenance(m provenance.Map, patterns []string) provenance.Map {
	if len(patterns) == 0 || m == nil {
		return m
	}
	filtered := make(provenance.Map, len(m))
	for path, history := range m {
		if table.MatchPath(path, patterns) {
			filtered[path] = history
		}
	}
	return filtered
}

func render(w io.Writer, format output.Format, result *pipeline.Result) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.Print(w, format, output.Data{}, result.Payload())
	}

	fmt.Fprintln(w, result.Summary())
	if !result.HasTree() {
		return nil
	}
	wide := format == output.FormatWide
	tables := []output.Data{table.TreeToTableData(result.Tree, wide)}
	if result.Changeset.HasChanges() {
		tables = append(tables, table.ChangesetToTableData(result.Changeset))
	}
	if wide {
		if fixes := result.Fixes(); len(fixes) > 0 {
			tables = append(tables, table.FixesToTableData(fixes))
		}
		if len(result.Provenance) > 0 {
			tables = append(tables, table.ProvenanceToTableData(result.Provenance))
		}
	}
	for _, data := range tables {
		fmt.Fprintln(w)
		if err := output.Print(w, format, data, nil); err != nil {
			return err
		}
	}
	return nil
}
