package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	t.Cleanup(a.close)

	var out bytes.Buffer
	root := newRootCmd(a)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSeedTemplates_RequiresFile(t *testing.T) {
	_, err := run(t, "seed", "templates")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "file" not set`)
}

func TestSeedTemplates_InvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - shift: Brunch\n"), 0o644))

	_, err := run(t, "seed", "templates", "-f", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown shift type")
}

func TestOccupancyImport_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "june.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Percentage,Notes\n2024-06-01,85,Full house\n2024-06-02,40\n"), 0o644))

	out, err := run(t, "occupancy", "import", path, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01\t85%\tFull house\n2024-06-02\t40%\t\n", out)
}

func TestOccupancyImport_NeedsFile(t *testing.T) {
	_, err := run(t, "occupancy", "import")
	assert.Error(t, err)
}

func TestHistoryExport_RejectsOtherFormats(t *testing.T) {
	_, err := run(t, "history", "export", "history.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xlsx")
}
