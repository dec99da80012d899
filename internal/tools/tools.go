// Package tools installs and verifies the managed workstation binaries:
// the AWS CLI, eksctl, and kubectl.
package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/quantmind-br/ekstrap/internal/helpers"
)

// Tool identifies one managed binary by its command name.
type Tool string

const (
	ToolAWS     Tool = "aws"
	ToolEksctl  Tool = "eksctl"
	ToolKubectl Tool = "kubectl"
)

// All returns the managed tools in installation order.
func All() []Tool {
	return []Tool{ToolAWS, ToolEksctl, ToolKubectl}
}

// Names returns the tool command names in installation order.
func Names() []string {
	names := make([]string, 0, len(All()))
	for _, tool := range All() {
		names = append(names, tool.Command())
	}
	return names
}

// Command returns the executable name the tool provides on PATH.
func (t Tool) Command() string {
	return string(t)
}

// DisplayName returns the human-readable name used in output.
func (t Tool) DisplayName() string {
	switch t {
	case ToolAWS:
		return "AWS CLI v2"
	case ToolEksctl:
		return "eksctl"
	case ToolKubectl:
		return "kubectl"
	}
	return string(t)
}

// VersionArgs returns the arguments that make the tool print its version.
func (t Tool) VersionArgs() []string {
	switch t {
	case ToolAWS:
		return []string{"--version"}
	case ToolEksctl:
		return []string{"version"}
	case ToolKubectl:
		return []string{"version", "--client"}
	}
	return nil
}

// Find resolves a user-supplied name to a managed tool, suggesting the
// closest command name for near misses.
func Find(name string) (Tool, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, tool := range All() {
		if needle == tool.Command() {
			return tool, nil
		}
	}

	best := ""
	bestDistance := 3
	for _, tool := range All() {
		if d := fuzzy.LevenshteinDistance(needle, tool.Command()); d < bestDistance {
			best = tool.Command()
			bestDistance = d
		}
	}
	if best != "" {
		return "", fmt.Errorf("unknown tool %q (did you mean %q?)", name, best)
	}
	return "", fmt.Errorf("unknown tool %q (choose from: %s)", name, strings.Join(Names(), ", "))
}

// Outcome classifies how a tool install attempt ended.
type Outcome string

const (
	OutcomeInstalled      Outcome = "installed"
	OutcomeAlreadyPresent Outcome = "already present"
	OutcomeFailed         Outcome = "failed"
)

// Result records the outcome of one tool install attempt. Err is set
// only for OutcomeFailed; Version may be empty when the binary was
// placed but did not answer its version query.
type Result struct {
	Tool    Tool
	Outcome Outcome
	Version string
	Err     error
}

// Probe reports whether the tool's command resolves on PATH right now
// and, when it does, the version the binary reports. A resolvable binary
// that fails its version query counts as present with an empty version.
func Probe(ctx context.Context, runner helpers.CommandRunner, tool Tool) (present bool, version string) {
	if !runner.CommandExists(tool.Command()) {
		return false, ""
	}

	stdout, stderr, err := runner.RunCommandWithOutput(ctx, tool.Command(), tool.VersionArgs()...)
	if err != nil {
		return true, ""
	}

	version = helpers.FirstLine(stdout)
	if version == "" {
		// Older AWS CLI builds print the version to stderr.
		version = helpers.FirstLine(stderr)
	}
	return true, version
}
