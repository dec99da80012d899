// Package report renders the end-of-run summary for the managed tools.
package report

import (
	"context"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/quantmind-br/ekstrap/internal/helpers"
	"github.com/quantmind-br/ekstrap/internal/tools"
	"github.com/quantmind-br/ekstrap/internal/ui"
)

// NotInstalledMarker is printed in place of a version for absent tools.
const NotInstalledMarker = "not installed"

// ToolStatus is one live row of the summary: presence on PATH at check
// time and the version the binary reported.
type ToolStatus struct {
	Tool    tools.Tool `json:"tool"`
	Present bool       `json:"present"`
	Version string     `json:"version,omitempty"`
}

// Collect probes every managed tool on the live PATH. Install results
// are never reused here: a tool counts as present only if its executable
// resolves at check time.
func Collect(ctx context.Context, runner helpers.CommandRunner) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(tools.All()))
	for _, tool := range tools.All() {
		present, version := tools.Probe(ctx, runner, tool)
		statuses = append(statuses, ToolStatus{Tool: tool, Present: present, Version: version})
	}
	return statuses
}

// AllPresent reports whether every probed tool resolved on PATH.
func AllPresent(statuses []ToolStatus) bool {
	for _, status := range statuses {
		if !status.Present {
			return false
		}
	}
	return true
}

// Render writes the summary table to w. Results from a preceding install
// run add an outcome column; pass nil when only probing.
func Render(w io.Writer, statuses []ToolStatus, results []tools.Result) {
	byTool := make(map[tools.Tool]tools.Result, len(results))
	for _, result := range results {
		byTool[result.Tool] = result
	}

	headers := []string{"Tool", "Status", "Version"}
	if len(results) > 0 {
		headers = []string{"Tool", "Outcome", "Status", "Version"}
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithHeader(headers),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, status := range statuses {
		mark := ui.CheckMark
		version := status.Version
		if version == "" {
			version = "-"
		}
		if !status.Present {
			mark = ui.CrossMark
			version = ui.OutcomeFailed.Sprint(NotInstalledMarker)
		}

		if len(results) > 0 {
			outcome := "-"
			if result, ok := byTool[status.Tool]; ok {
				outcome = ui.ColorizeOutcome(string(result.Outcome))
			}
			table.Append(status.Tool.DisplayName(), outcome, mark, version)
		} else {
			table.Append(status.Tool.DisplayName(), mark, version)
		}
	}

	table.Render()
}
