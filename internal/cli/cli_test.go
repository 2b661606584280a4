package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asynclog/internal/producer"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default, since commands are
// package-level and keep state between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func readLogLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestRunThenVerifyThenArchive(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "app.log")
	cfg := filepath.Join(dir, "absent.yaml")

	out, err := executeCommand(t, "run", "--config", cfg, "--log-file", logFile,
		"--console", "discard", "-p", "3", "-n", "200", "--metrics")
	require.NoError(t, err, out)
	assert.Contains(t, out, "600 messages delivered")
	assert.Contains(t, out, "asynclog_messages_pushed_total")

	lines := readLogLines(t, logFile)
	require.Len(t, lines, 600)
	assert.True(t, producer.VerifyOrder(lines).OK())

	out, err = executeCommand(t, "verify", "--config", cfg, logFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 producer streams")

	out, err = executeCommand(t, "verify", "--config", cfg, logFile, "--messages", "200")
	require.NoError(t, err, out)
	assert.Contains(t, out, "holds 200 messages")

	out, err = executeCommand(t, "verify", "--config", cfg, logFile, "--messages", "201")
	require.Error(t, err)
	assert.Contains(t, out, "200 of 201 messages")

	csvDir := filepath.Join(dir, "csv")
	out, err = executeCommand(t, "archive", "--config", cfg, logFile,
		"--archive-type", "csv", "--archive-path", csvDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Archived 600/600 lines")
	assert.FileExists(t, filepath.Join(csvDir, "app.csv"))
}

func TestArchiveTypeWithoutPathUsesTypeDefault(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("ASYNCLOG_ARCHIVE_TYPE", "json")

	logFile := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(logFile, []byte("one\ntwo\n"), 0644))

	out, err := executeCommand(t, "archive", "--config", filepath.Join(dir, "absent.yaml"), logFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Archived 2/2 lines")
	assert.FileExists(t, filepath.Join(dir, "archive", "json", "app.json"))
	assert.NoDirExists(t, filepath.Join(dir, "logs.duckdb"))
}

func TestRunWithZapFormatting(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "zap.log")

	out, err := executeCommand(t, "run", "--config", filepath.Join(dir, "absent.yaml"),
		"--log-file", logFile, "--console", "discard", "-p", "2", "-n", "50", "--zap", "--level", "info")
	require.NoError(t, err, out)

	lines := readLogLines(t, logFile)
	require.Len(t, lines, 100)
	assert.Contains(t, lines[0], "INFO")
	rep := producer.VerifyOrder(lines)
	assert.True(t, rep.OK(), rep.OutOfOrder)
	assert.Equal(t, 100, rep.Matched)
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := executeCommand(t, "run", "--config", filepath.Join(dir, "absent.yaml"),
		"--log-file", filepath.Join(dir, "x.log"), "--console", "printer")
	require.Error(t, err)
	assert.Contains(t, out, "console (printer)")
}

func TestVerifyReportsOrderingProblems(t *testing.T) {
	const run = "0b6c1f2e-3a4d-4e5f-8a9b-0c1d2e3f4a5b"
	path := filepath.Join(t.TempDir(), "bad.log")
	body := producer.Format(run, 0, 1) + "\n" + producer.Format(run, 0, 0) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	out, err := executeCommand(t, "verify", path)
	require.Error(t, err)
	assert.Contains(t, out, "got seq 1, want 0")
}

func TestValidateWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	body := "log_file: " + filepath.Join(dir, "app.log") + "\n" +
		"archive_type: json\n" +
		"archive_path: " + filepath.Join(dir, "archive") + "\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0644))

	out, err := executeCommand(t, "validate", "--config", cfg)
	require.NoError(t, err, out)
	assert.Contains(t, out, "All validations passed")
	assert.NoFileExists(t, filepath.Join(dir, "app.log"), "validate must not leave an empty log behind")
}

func TestStorageInfo(t *testing.T) {
	out, err := executeCommand(t, "storage")
	require.NoError(t, err)
	assert.Contains(t, out, "DuckDB")
	assert.Contains(t, out, "CSV")
}
