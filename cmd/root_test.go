package cmd

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"mlist-manager/core/persist"
	"mlist-manager/core/reconcile"
	"mlist-manager/feature/history"
	"mlist-manager/feature/roster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runCLI executes the command tree with args and returns stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func rosterArgs(dir string, op string, extra ...string) []string {
	args := []string{
		op,
		"--config-dir", dir,
		"-f", filepath.Join(dir, "full.csv"),
		"-c", filepath.Join(dir, "current.csv"),
		"-r", filepath.Join(dir, "removed.csv"),
	}
	return append(args, extra...)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 2, exitCode(reconcile.ErrUsage))
	assert.Equal(t, 1, exitCode(persist.ErrMissingFile))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestRoot_NoOperation(t *testing.T) {
	_, err := runCLI(t, "--config-dir", t.TempDir())
	assert.ErrorIs(t, err, reconcile.ErrUsage)
	assert.Contains(t, err.Error(), "no operation selected")
}

func TestRoot_UnknownOperation(t *testing.T) {
	_, err := runCLI(t, "merge")
	assert.ErrorIs(t, err, reconcile.ErrUsage)
}

func TestRoot_BadFlag(t *testing.T) {
	_, err := runCLI(t, "update", "--no-such-flag")
	assert.ErrorIs(t, err, reconcile.ErrUsage)
}

func TestUpdateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"full.csv":    "\"a@x.com\"\n\"b@x.com\"\n",
		"current.csv": "\"a@x.com\"\n",
	})

	_, err := runCLI(t, rosterArgs(dir, "update")...)
	require.NoError(t, err)

	assert.Equal(t, "\"b@x.com\"\n", readFile(t, filepath.Join(dir, "removed.csv")))
	assert.Equal(t, "\"a@x.com\"\n\"b@x.com\"\n", readFile(t, filepath.Join(dir, "full.csv")))
}

func TestUpdateCommand_MissingCurrent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"full.csv": "\"a@x.com\"\n"})

	_, err := runCLI(t, rosterArgs(dir, "update")...)
	assert.ErrorIs(t, err, persist.ErrMissingFile)
	assert.Equal(t, 1, exitCode(err))
}

func TestAddCommand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"full.csv":    "\"c@x.com\"\n",
		"current.csv": "\"c@x.com\"\n",
		"new.txt":     "Contact: C@X.com, c@x.com, d@y.org",
	})
	out := filepath.Join(dir, "import.csv")

	_, err := runCLI(t, rosterArgs(dir, "add", "-i", filepath.Join(dir, "new.txt"), "-o", out)...)
	require.NoError(t, err)
	assert.Equal(t, "\"d@y.org\"\n", readFile(t, out))

	// A second run refuses to clobber the import file.
	_, err = runCLI(t, rosterArgs(dir, "add", "-i", filepath.Join(dir, "new.txt"), "-o", out)...)
	assert.ErrorIs(t, err, persist.ErrDestinationExists)

	_, err = runCLI(t, rosterArgs(dir, "add", "-i", filepath.Join(dir, "new.txt"), "-o", out, "--force")...)
	require.NoError(t, err)
	assert.Equal(t, "", readFile(t, out), "d@y.org is in full after the first run")
}

func TestExtractCommand_Stdout(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"new.txt": "B@x.com and a@x.com"})

	stdout, err := runCLI(t, "extract", "--config-dir", dir, "-i", filepath.Join(dir, "new.txt"))
	require.NoError(t, err)
	assert.Equal(t, "\"a@x.com\"\n\"b@x.com\"\n", stdout)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"config.yaml": "roster:\n  full: from-file.csv\n  current: current-file.csv\n  removed_policy: replace\n",
	})

	root := newRootCmd()
	update, _, err := root.Find([]string{"update"})
	require.NoError(t, err)
	require.NoError(t, update.ParseFlags([]string{"--full", "from-flag.csv"}))

	opts := &options{configDir: dir, full: "from-flag.csv"}
	cfg, err := opts.loadConfig(update)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.csv", cfg.Roster.Full)
	assert.Equal(t, "current-file.csv", cfg.Roster.Current)
	assert.Equal(t, "removed.csv", cfg.Roster.Removed)
	assert.Equal(t, "replace", cfg.Roster.RemovedPolicy)
}

func TestNewApp(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"full.csv":    "\"a@x.com\"\n",
		"current.csv": "\"a@x.com\"\n",
	})
	cfg := reconcile.Config{
		Full:    filepath.Join(dir, "full.csv"),
		Current: filepath.Join(dir, "current.csv"),
		Removed: filepath.Join(dir, "removed.csv"),
	}
	svc := roster.NewService(persist.NewOS(), cfg, zap.NewNop(), nil, nil, 0)

	app, err := newApp(zap.NewNop(), "secret", roster.NewFeature(svc), history.NewFeature(nil, zap.NewNop()))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/roster", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	req := httptest.NewRequest("GET", "/roster", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))

	// History is disabled without a database.
	req = httptest.NewRequest("GET", "/history", nil)
	req.Header.Set("X-API-Key", "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestNewApp_DuplicateFeature(t *testing.T) {
	svc := roster.NewService(persist.NewOS(), reconcile.Config{}, zap.NewNop(), nil, nil, 0)
	_, err := newApp(zap.NewNop(), "", roster.NewFeature(svc), roster.NewFeature(svc))
	assert.Error(t, err)
}
