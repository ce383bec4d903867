// Package normalize provides the normalize command: sanitize, repair and
// deduplicate snapshots without a previous tree.
package normalize

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/internal/cmd/cmdutil"
	"github.com/agentstation/uispec/internal/cmd/output"
	"github.com/agentstation/uispec/internal/cmd/table"
	"github.com/agentstation/uispec/pkg/pipeline"
)

// FileResult pairs a result with the file it came from.
type FileResult struct {
	File             string `json:"file" yaml:"file"`
	pipeline.Payload `yaml:",inline"`
}

// NewCommand creates the normalize command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:     "normalize FILE...",
		GroupID: "core",
		Short:   "Sanitize, repair and deduplicate snapshots",
		Long: `Normalize processes each snapshot on its own, as the first turn of a
conversation: the snapshot is sanitized, structurally repaired and
deduplicated. Files may be JSON or YAML; "-" reads standard input.

Files are processed concurrently.`,
		Example: `  uispec normalize snapshot.json
  uispec normalize turns/*.yaml -o json
  cat snapshot.json | uispec normalize -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args, concurrency)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", runtime.NumCPU(), "number of files processed at once")

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, files []string, concurrency int) error {
	if err := cmdutil.CheckStdin(files...); err != nil {
		return err
	}
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}
	p, err := app.Pipeline()
	if err != nil {
		return err
	}

	results := make([]*pipeline.Result, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, concurrency))
	for i, file := range files {
		g.Go(func() error {
			raw, err := cmdutil.ReadSnapshot(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			result, err := p.Run(ctx, pipeline.Input{Next: raw})
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	app.Logger().Debug().Int("files", len(files)).Msg("Snapshots normalized")
	return render(cmd.OutOrStdout(), format, files, results)
}

func render(w io.Writer, format output.Format, files []string, results []*pipeline.Result) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		if len(results) == 1 {
			return output.Print(w, format, output.Data{}, results[0].Payload())
		}
		raw := make([]FileResult, len(results))
		for i, result := range results {
			raw[i] = FileResult{File: files[i], Payload: result.Payload()}
		}
		return output.Print(w, format, output.Data{}, raw)
	}

	wide := format == output.FormatWide
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s: %s\n", files[i], result.Summary())
		if !result.HasTree() {
			continue
		}
		if err := output.Print(w, format, table.TreeToTableData(result.Tree, wide), nil); err != nil {
			return err
		}
		if wide && len(result.Fixes()) > 0 {
			if err := output.Print(w, format, table.FixesToTableData(result.Fixes()), nil); err != nil {
				return err
			}
		}
	}
	return nil
}
