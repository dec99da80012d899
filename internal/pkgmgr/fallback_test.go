package pkgmgr

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/ekstrap/internal/helpers"
	"github.com/quantmind-br/ekstrap/internal/logging"
)

// fakeManager drives Fallback and EnsureDownloadTool tests without a
// real package manager.
type fakeManager struct {
	installErr func(names []string) error
	installs   [][]string
}

func (f *fakeManager) Name() string                      { return "fake" }
func (f *fakeManager) Refresh(ctx context.Context) error { return nil }

func (f *fakeManager) Install(ctx context.Context, names []string) error {
	f.installs = append(f.installs, names)
	if f.installErr != nil {
		return f.installErr(names)
	}
	return nil
}

func (f *fakeManager) EnsurePackages(ctx context.Context, pkgs []Package) ([]string, error) {
	return nil, nil
}

func TestRunFirstSuccess(t *testing.T) {
	t.Parallel()

	log := logging.NewTestLogger(io.Discard)

	t.Run("stops at first success", func(t *testing.T) {
		t.Parallel()

		var ran []string
		chain := []Fallback{
			{Name: "first", Run: func(ctx context.Context) error {
				ran = append(ran, "first")
				return nil
			}},
			{Name: "second", Run: func(ctx context.Context) error {
				ran = append(ran, "second")
				return nil
			}},
		}

		winner, ok := RunFirstSuccess(context.Background(), log, chain)
		assert.True(t, ok)
		assert.Equal(t, "first", winner)
		assert.Equal(t, []string{"first"}, ran)
	})

	t.Run("falls through failures in order", func(t *testing.T) {
		t.Parallel()

		var ran []string
		chain := []Fallback{
			{Name: "first", Run: func(ctx context.Context) error {
				ran = append(ran, "first")
				return errors.New("boom")
			}},
			{Name: "second", Run: func(ctx context.Context) error {
				ran = append(ran, "second")
				return nil
			}},
		}

		winner, ok := RunFirstSuccess(context.Background(), log, chain)
		assert.True(t, ok)
		assert.Equal(t, "second", winner)
		assert.Equal(t, []string{"first", "second"}, ran)
	})

	t.Run("reports failure when every candidate fails", func(t *testing.T) {
		t.Parallel()

		chain := []Fallback{
			{Name: "only", Run: func(ctx context.Context) error { return errors.New("boom") }},
		}

		winner, ok := RunFirstSuccess(context.Background(), log, chain)
		assert.False(t, ok)
		assert.Empty(t, winner)
	})

	t.Run("empty chain fails", func(t *testing.T) {
		t.Parallel()

		_, ok := RunFirstSuccess(context.Background(), log, nil)
		assert.False(t, ok)
	})
}

func TestEnsureDownloadTool(t *testing.T) {
	t.Parallel()

	log := logging.NewTestLogger(io.Discard)

	t.Run("present tool needs no install", func(t *testing.T) {
		t.Parallel()

		mgr := &fakeManager{}
		runner := &helpers.MockCommandRunner{
			CommandExistsFunc: func(name string) bool { return name == "curl" },
		}

		assert.True(t, EnsureDownloadTool(context.Background(), mgr, runner, log))
		assert.Empty(t, mgr.installs)
	})

	t.Run("installs full package first", func(t *testing.T) {
		t.Parallel()

		mgr := &fakeManager{}
		runner := &helpers.MockCommandRunner{}

		assert.True(t, EnsureDownloadTool(context.Background(), mgr, runner, log))
		require.Len(t, mgr.installs, 1)
		assert.Equal(t, []string{"curl"}, mgr.installs[0])
	})

	t.Run("falls back to minimal package on conflict", func(t *testing.T) {
		t.Parallel()

		mgr := &fakeManager{
			installErr: func(names []string) error {
				if names[0] == "curl" {
					return errors.New("conflicting requests")
				}
				return nil
			},
		}
		runner := &helpers.MockCommandRunner{}

		assert.True(t, EnsureDownloadTool(context.Background(), mgr, runner, log))
		require.Len(t, mgr.installs, 2)
		assert.Equal(t, []string{"curl"}, mgr.installs[0])
		assert.Equal(t, []string{"curl-minimal"}, mgr.installs[1])
	})

	t.Run("gives up without failing the run", func(t *testing.T) {
		t.Parallel()

		mgr := &fakeManager{
			installErr: func(names []string) error { return errors.New("no repo") },
		}
		runner := &helpers.MockCommandRunner{}

		assert.False(t, EnsureDownloadTool(context.Background(), mgr, runner, log))
		assert.Len(t, mgr.installs, 2)
	})
}
