package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/rcliao/compintel/internal/config"
	"github.com/rcliao/compintel/internal/store"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got := confirm(strings.NewReader(tt.input), &out, "Delete?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Delete? [y/N] ", out.String())
	}
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}

func TestOpenStoreAndResolve(t *testing.T) {
	cfg = config.DefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "sub", "compintel.db")
	t.Cleanup(func() { cfg = config.DefaultConfig() })

	ctx := context.Background()
	s, err := openStore(ctx)
	require.NoError(t, err)
	defer s.Close()

	c, err := s.Add(ctx, store.NewCompetitor{Name: "SAP Ariba"})
	require.NoError(t, err)

	got, err := resolve(s, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "SAP Ariba", got.Name)

	got, err = resolve(s, "SAP Ariba")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = resolve(s, "sap ariba")
	assert.Error(t, err)
}

func TestAddLogRmCommands(t *testing.T) {
	for _, k := range []string{config.EnvDB, config.EnvAPIURL, config.EnvAPIKey, config.EnvLogLevel} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	global := []string{"--db", filepath.Join(dir, "compintel.db"), "--config", filepath.Join(dir, "config.yaml")}
	t.Cleanup(func() {
		RootCmd.SetArgs(nil)
		dbPath, configPath = "", config.DefaultConfigPath
		cfg = config.DefaultConfig()
	})

	run := func(args ...string) {
		t.Helper()
		RootCmd.SetArgs(append(args, global...))
		require.NoError(t, RootCmd.Execute())
	}
	ctx := context.Background()

	run("add", "Zip", "--notes", "Intake-to-procure focus")
	run("log", "Zip", "-s", "Raised Series D", "--change", "AI agents", "--change", "New pricing")

	s, err := openStore(ctx)
	require.NoError(t, err)
	c, ok := s.FindByName("Zip")
	require.True(t, ok)
	require.Len(t, c.Logs, 2)
	assert.Equal(t, "Raised Series D", c.Logs[0].Summary)
	assert.Equal(t, []string{"AI agents", "New pricing"}, c.Logs[0].KeyChanges)
	assert.Equal(t, "Intake-to-procure focus", c.Logs[1].ComparisonNotes)
	require.NoError(t, s.Close())

	run("rm", c.ID, "--yes")

	s, err = openStore(ctx)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 0, s.Len())
}
