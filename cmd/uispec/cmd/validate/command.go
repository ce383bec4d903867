// Package validate provides the validate command, which reports the fixes
// a snapshot needs without printing the repaired tree.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/uispec/internal/appcontext"
	"github.com/agentstation/uispec/internal/cmd/cmdutil"
	"github.com/agentstation/uispec/internal/cmd/emoji"
	"github.com/agentstation/uispec/internal/cmd/output"
	"github.com/agentstation/uispec/internal/cmd/table"
	"github.com/agentstation/uispec/pkg/errors"
	"github.com/agentstation/uispec/pkg/pipeline"
	"github.com/agentstation/uispec/pkg/spec"
)

// Report is the structured result for one file.
type Report struct {
	File   string     `json:"file" yaml:"file"`
	Valid  bool       `json:"valid" yaml:"valid"`
	NoTree bool       `json:"no_tree,omitempty" yaml:"no_tree,omitempty"`
	Fixes  []spec.Fix `json:"fixes" yaml:"fixes"`
}

// NewCommand creates the validate command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:     "validate FILE...",
		GroupID: "core",
		Short:   "Report the fixes snapshots need",
		Long: `Validate runs each snapshot through the pipeline as a first turn and
lists every fix that was applied. A snapshot is valid when it needs no fixes.

With --strict the command fails when any snapshot is invalid.`,
		Example: `  uispec validate snapshot.json
  uispec validate turns/*.json --strict`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdutil.CheckStdin(args...); err != nil {
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

			reports := make([]Report, 0, len(args))
			invalid := 0
			for _, file := range args {
				raw, err := cmdutil.ReadSnapshot(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				result, err := p.Run(cmd.Context(), pipeline.Input{Next: raw})
				if err != nil {
					return err
				}
				report := Report{File: file, NoTree: !result.HasTree(), Fixes: result.Fixes()}
				if report.Fixes == nil {
					report.Fixes = []spec.Fix{}
				}
				report.Valid = !report.NoTree && len(report.Fixes) == 0
				if !report.Valid {
					invalid++
				}
				reports = append(reports, report)
			}

			w := cmd.OutOrStdout()
			switch format {
			case output.FormatJSON, output.FormatYAML:
				if err := output.Print(w, format, output.Data{}, reports); err != nil {
					return err
				}
			default:
				for _, report := range reports {
					switch {
					case report.NoTree:
						fmt.Fprintf(w, "%s %s: no tree\n", emoji.Error, report.File)
					case report.Valid:
						fmt.Fprintf(w, "%s %s: valid\n", emoji.Success, report.File)
					default:
						fmt.Fprintf(w, "%s %s: %d fixes\n", emoji.Warning, report.File, len(report.Fixes))
						if err := output.Print(w, format, table.FixesToTableData(report.Fixes), nil); err != nil {
							return err
						}
					}
				}
			}

			if strict && invalid > 0 {
				return &errors.ValidationError{
					Field:   "snapshot",
					Message: fmt.Sprintf("%d of %d snapshots need fixes", invalid, len(reports)),
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any snapshot needs fixes")

	return cmd
}
