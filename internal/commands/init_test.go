package commands_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IO-n-A/quant-fin/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "incomereport-test-*")
	if err != nil {
		panic(err)
	}

	binaryPath = filepath.Join(tmpDir, "incomereport")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/incomereport")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmpDir)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

type runResult struct {
	stdout string
	stderr string
}

// runIn executes the binary in dir with extra environment variables.
func runIn(t *testing.T, dir string, env []string, args ...string) (runResult, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return runResult{stdout: stdout.String(), stderr: stderr.String()}, err
}

func runIncomeReport(t *testing.T, args ...string) (runResult, error) {
	t.Helper()
	return runIn(t, "", nil, args...)
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	res, err := runIncomeReport(t, "init", dir)
	require.NoError(t, err, res.stderr)
	assert.Contains(t, res.stdout, "Initialized income report project")

	info, err := os.Stat(filepath.Join(dir, "import"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, "import", ".gitkeep"))
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "reports/")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runIncomeReport(t, "init", dir)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.5, cfg.Clustering.Epsilon)
	assert.Equal(t, 3, cfg.Clustering.MinSamples)
	assert.Equal(t, "reports", cfg.Output.ArchiveDir)
	assert.Contains(t, cfg.Aliases.Amount, "Betrag")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runIncomeReport(t, "init", dir)
	require.NoError(t, err)

	res, err := runIncomeReport(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, res.stderr, "already exists")

	_, err = runIncomeReport(t, "init", dir, "--force")
	assert.NoError(t, err)
}

func TestInit_DefaultsToCurrentDir(t *testing.T) {
	dir := t.TempDir()
	_, err := runIn(t, dir, nil, "init")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	res, err := runIncomeReport(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, res.stdout, "incomereport version dev")
}
