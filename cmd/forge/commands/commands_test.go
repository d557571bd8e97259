package commands_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/cmd/forge/commands"
	"go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/stamp"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/engine/fingerprint"
	"go.trai.ch/forge/internal/engine/scheduler"
)

func newCLI(t *testing.T) *commands.CLI {
	t.Helper()

	log := logger.New()
	log.SetOutput(io.Discard)

	store := stamp.NewStore()
	sched := scheduler.NewScheduler(
		fs.NewResolver(),
		fingerprint.NewEvaluator(fs.NewHasher(), store),
		log,
		telemetry.NewNoopRecorder(),
	)
	return commands.New(app.New(sched, config.NewLoader(), store, log))
}

func TestCleanCommand(t *testing.T) {
	workspace := t.TempDir()
	configPath := filepath.Join(workspace, "forge.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("cache: .forge\n"), 0o600))

	cacheDir := filepath.Join(workspace, ".forge")
	require.NoError(t, os.MkdirAll(cacheDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cacheDir, "compile.none.none"), []byte("{}"), 0o600))

	cli := newCLI(t)
	cli.SetArgs([]string{"clean", "--config", configPath})
	require.NoError(t, cli.Execute(context.Background()))

	_, err := os.Stat(cacheDir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCleanCommand_MissingConfig(t *testing.T) {
	cli := newCLI(t)
	cli.SetArgs([]string{"clean", "--config", filepath.Join(t.TempDir(), "forge.yaml")})

	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestVersionCommand(t *testing.T) {
	cli := newCLI(t)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
}

func TestUnknownCommand(t *testing.T) {
	cli := newCLI(t)
	cli.SetArgs([]string{"frobnicate"})

	err := cli.Execute(context.Background())
	require.Error(t, err)
}
