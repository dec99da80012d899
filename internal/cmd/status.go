package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/ekstrap/internal/config"
	"github.com/quantmind-br/ekstrap/internal/helpers"
	"github.com/quantmind-br/ekstrap/internal/report"
	"github.com/quantmind-br/ekstrap/internal/tools"
	"github.com/quantmind-br/ekstrap/internal/ui"
)

// NewStatusCmd creates the status command
func NewStatusCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status [tool]",
		Short: "Show which tools are installed",
		Long:  `Probe the search path for each managed tool and report the version it answers with.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner := helpers.NewOSCommandRunner()

			// Resolve the tool argument before probing anything
			var only tools.Tool
			if len(args) == 1 {
				tool, err := tools.Find(args[0])
				if err != nil {
					ui.PrintError("%v", err)
					return err
				}
				only = tool
			}

			statuses := report.Collect(ctx, runner)
			if only != "" {
				narrowed := make([]report.ToolStatus, 0, 1)
				for _, status := range statuses {
					if status.Tool == only {
						narrowed = append(narrowed, status)
					}
				}
				statuses = narrowed
			}

			// JSON output
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(statuses); err != nil {
					return fmt.Errorf("encode status: %w", err)
				}
			} else {
				report.Render(cmd.OutOrStdout(), statuses, nil)
			}

			// Exit status mirrors the table so scripted callers can
			// branch without parsing output.
			if !report.AllPresent(statuses) {
				return fmt.Errorf("%d of %d tools are not installed", countMissing(statuses), len(statuses))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}
