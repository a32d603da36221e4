package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/household-split/cmd/batch"
	"fjacquet/household-split/cmd/calculate"
	"fjacquet/household-split/cmd/classify"
	"fjacquet/household-split/cmd/root"
	"fjacquet/household-split/cmd/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledger = `{
  "records": [
    {"id": "1", "date": "2024/05/02", "content": "スーパー", "medium_category": "食費", "amount": 4000},
    {"id": "2", "date": "2024/05/10", "content": "散髪", "medium_category": "夫小遣い", "amount": 1500},
    {"id": "3", "date": "2024/05/12", "content": "口座間移動", "medium_category": "夫口座", "amount": 30000, "transfer": "1"},
    {"id": "4", "date": "2024/05/20", "content": "化粧品", "medium_category": "妻美容", "amount": 2500}
  ],
  "settings": {
    "identification_column": "中項目",
    "owner_pattern": "^夫",
    "spouse_pattern": "^妻",
    "owner_ratio": 50,
    "spouse_ratio": 50
  }
}`

// execute runs the CLI in an isolated directory and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	wd, wdErr := os.Getwd()
	if wdErr != nil {
		t.Fatal(wdErr)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)

	t.Cleanup(func() {
		root.SharedFlags = root.CommonFlags{}
		calculate.Settings.Reset()
		calculate.Format = ""
		classify.Settings.Reset()
		classify.Format = ""
		validate.Settings.Reset()
		batch.Format, batch.Workers, batch.Pattern = "", 0, ""
	})

	var out bytes.Buffer
	root.Cmd.SetOut(&out)
	root.Cmd.SetErr(&out)
	root.Cmd.SetArgs(append(args, "--log-level", "error"))
	err := root.Cmd.Execute()
	return out.String(), err
}

func writeLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "may.json")
	require.NoError(t, os.WriteFile(path, []byte(ledger), 0600))
	return path
}

func TestCLI_Calculate(t *testing.T) {
	out, err := execute(t, "calculate", "-i", writeLedger(t))
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, float64(1500), result["owner_total"])
	assert.Equal(t, float64(2500), result["spouse_total"])
	assert.Equal(t, float64(4000), result["shared_total"])
	assert.Equal(t, float64(3500), result["owner_share"])
	assert.Equal(t, float64(4500), result["spouse_share"])
	assert.Equal(t, float64(2000), result["settlement_amount"])
	assert.Equal(t, "owner_to_spouse", result["settlement_direction"])
	assert.Equal(t, map[string]interface{}{"start": "2024-05-02", "end": "2024-05-20"}, result["period"])
}

func TestCLI_CalculateTextWithOverrides(t *testing.T) {
	out, err := execute(t, "calculate", "-i", writeLedger(t), "--owner-ratio", "75", "--format", "text")
	require.NoError(t, err)

	assert.Contains(t, out, "2024-05-02 〜 2024-05-20")
	assert.Contains(t, out, "Owner share:   4500")
	assert.Contains(t, out, "owner pays spouse 3000")
}

func TestCLI_CalculateToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "may.yaml")
	out, err := execute(t, "calculate", "-i", writeLedger(t), "-o", target, "-f", "yaml")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "settlement_direction: owner_to_spouse")
}

func TestCLI_CalculateConfigurationError(t *testing.T) {
	_, err := execute(t, "calculate", "-i", writeLedger(t), "--owner-pattern", "(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner_pattern")
}

func TestCLI_Classify(t *testing.T) {
	out, err := execute(t, "classify", "-i", writeLedger(t), "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "shared,1,"))
	assert.True(t, strings.HasPrefix(lines[2], "owner,2,"))
	assert.True(t, strings.HasPrefix(lines[3], "excluded,3,"))
	assert.True(t, strings.HasPrefix(lines[4], "spouse,4,"))
}

func TestCLI_Validate(t *testing.T) {
	out, err := execute(t, "validate", "-i", writeLedger(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Settings are valid")
	assert.Contains(t, out, "Records: 4 (owner 1, spouse 1, shared 1, excluded 1)")

	_, err = execute(t, "validate", "-i", writeLedger(t), "--owner-ratio", "60", "--spouse-ratio", "30")
	assert.ErrorContains(t, err, "ratios must add up to 100")
}

func TestCLI_Batch(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "may.json"), []byte(ledger), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "june.json"), []byte(ledger), 0600))

	out, err := execute(t, "batch", "-i", inputDir, "-o", outputDir, "--workers", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Files: 2, succeeded: 2, failed: 0")
	assert.Contains(t, out, "Net settlement: owner_to_spouse 4000")
	assert.FileExists(t, filepath.Join(outputDir, "may.json"))
	assert.FileExists(t, filepath.Join(outputDir, "june.json"))
}

func TestCLI_BatchRequiresDirectories(t *testing.T) {
	_, err := execute(t, "batch")
	assert.ErrorContains(t, err, "input and output directories must be specified")
}
