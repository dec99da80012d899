package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tcnksm/go-latest"

	"github.com/quantmind-br/ekstrap/internal/ui"
)

// NewVersionCmd creates the version command
func NewVersionCmd(version string) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Printf("ekstrap version %s\n", version)

			if !check {
				return nil
			}

			githubTag := &latest.GithubTag{
				Owner:      "quantmind-br",
				Repository: "ekstrap",
			}
			res, err := latest.Check(githubTag, strings.TrimPrefix(version, "v"))
			if err != nil {
				return fmt.Errorf("failed to check for a newer release: %w", err)
			}

			if res.Outdated {
				ui.PrintWarning("a newer release is available: %s", res.Current)
			} else {
				ui.PrintSuccess("you are on the latest release")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")

	return cmd
}
