package cmd

import (
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/ekstrap/internal/config"
	"github.com/quantmind-br/ekstrap/internal/osinfo"
	"github.com/quantmind-br/ekstrap/internal/report"
	"github.com/quantmind-br/ekstrap/internal/tools"
)

func TestNewInstallCmd(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)
	cfg := &config.Config{Install: config.InstallConfig{Timeout: 900}}

	cmd := NewInstallCmd(cfg, &logger)

	assert.NotNil(t, cmd)
	assert.Equal(t, "install", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestInstallCmd_Flags(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)
	cfg := &config.Config{Install: config.InstallConfig{Timeout: 900}}

	cmd := NewInstallCmd(cfg, &logger)

	timeout := cmd.Flags().Lookup("timeout")
	require.NotNil(t, timeout)
	assert.Equal(t, "900", timeout.DefValue)

	assert.NotNil(t, cmd.Flags().Lookup("no-progress"))
	assert.NotNil(t, cmd.Flags().Lookup("keep-scratch"))
}

func TestInstallCmd_RejectsArguments(t *testing.T) {
	t.Parallel()
	logger := zerolog.New(io.Discard)
	cfg := &config.Config{Install: config.InstallConfig{Timeout: 900}}

	cmd := NewInstallCmd(cfg, &logger)
	cmd.SetArgs([]string{"kubectl"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()
	require.Error(t, err)
}

func TestDistroLabel(t *testing.T) {
	t.Parallel()

	t.Run("prefers pretty name", func(t *testing.T) {
		t.Parallel()
		info := &osinfo.Info{ID: "ubuntu", PrettyName: "Ubuntu 24.04.1 LTS"}
		assert.Equal(t, "Ubuntu 24.04.1 LTS", distroLabel(info))
	})

	t.Run("falls back to id", func(t *testing.T) {
		t.Parallel()
		info := &osinfo.Info{ID: "rhel"}
		assert.Equal(t, "rhel", distroLabel(info))
	})
}

func TestCountMissing(t *testing.T) {
	t.Parallel()

	statuses := []report.ToolStatus{
		{Tool: tools.ToolAWS, Present: true, Version: "aws-cli/2.17.32"},
		{Tool: tools.ToolEksctl, Present: false},
		{Tool: tools.ToolKubectl, Present: false},
	}

	assert.Equal(t, 2, countMissing(statuses))
	assert.Equal(t, 0, countMissing(statuses[:1]))
}
