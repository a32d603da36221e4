package batch_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/household-split/cmd/batch"
	"fjacquet/household-split/cmd/root"
	"fjacquet/household-split/internal/config"
	"fjacquet/household-split/internal/container"
	"fjacquet/household-split/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"records": [{"id": "1", "date": "2024/06/01", "memo": "dinner", "amount": 300}]}`

func setupContainer(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level, cfg.Log.Format = "info", "text"
	cfg.Settings.IdentificationColumn = "memo"
	cfg.Settings.OwnerPattern = "^owner"
	cfg.Settings.SpousePattern = "^spouse"
	cfg.Settings.OwnerRatio, cfg.Settings.SpouseRatio = 50, 50
	cfg.Batch.Workers, cfg.Batch.Pattern = 2, "*.json"
	cfg.Output.Format = "json"

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	original, flags := root.AppContainer, root.SharedFlags
	root.AppContainer = c
	t.Cleanup(func() {
		root.AppContainer, root.SharedFlags = original, flags
		batch.Format, batch.Workers, batch.Pattern = "", 0, ""
	})
}

func TestBatchCommand_Metadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.Contains(t, batch.Cmd.Short, "every payload")
	assert.Contains(t, batch.Cmd.Long, "in parallel")
	assert.Contains(t, batch.Cmd.Long, "Example")
	assert.NotNil(t, batch.Cmd.RunE)

	workers := batch.Cmd.Flags().Lookup("workers")
	require.NotNil(t, workers)
	assert.Equal(t, "w", workers.Shorthand)
	assert.NotNil(t, batch.Cmd.Flags().Lookup("pattern"))
	assert.NotNil(t, batch.Cmd.Flags().Lookup("format"))
}

func TestBatchCommand_Run(t *testing.T) {
	setupContainer(t)
	inputDir, outputDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "june.json"), []byte(payload), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "july.json"), []byte(payload), 0600))
	root.SharedFlags = root.CommonFlags{Input: inputDir, Output: outputDir}
	batch.Format = "text"

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, batch.Cmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "OK   july.json -> july.txt (owner_to_spouse 150)")
	assert.Contains(t, out.String(), "Files: 2, succeeded: 2, failed: 0")
	assert.Contains(t, out.String(), "Period: 2024-06-01 〜 2024-06-01")
	assert.Contains(t, out.String(), "Net settlement: owner_to_spouse 300")
	assert.FileExists(t, filepath.Join(outputDir, "june.txt"))
}

func TestBatchCommand_FailureIsReported(t *testing.T) {
	setupContainer(t)
	inputDir, outputDir := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "good.json"), []byte(payload), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "bad.json"), []byte(`[`), 0600))
	root.SharedFlags = root.CommonFlags{Input: inputDir, Output: outputDir}

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	err := batch.Cmd.RunE(cmd, nil)
	assert.EqualError(t, err, "1 of 2 payload files failed")
	assert.Contains(t, out.String(), "FAIL bad.json")
	assert.Contains(t, out.String(), "OK   good.json")
}

func TestBatchCommand_Errors(t *testing.T) {
	setupContainer(t)

	root.SharedFlags = root.CommonFlags{}
	assert.ErrorContains(t, batch.Cmd.RunE(&cobra.Command{}, nil), "must be specified")

	root.SharedFlags = root.CommonFlags{Input: t.TempDir(), Output: t.TempDir()}
	batch.Format = "pdf"
	assert.ErrorContains(t, batch.Cmd.RunE(&cobra.Command{}, nil), "unsupported output format")

	batch.Format = ""
	root.SharedFlags = root.CommonFlags{Input: filepath.Join(t.TempDir(), "missing"), Output: t.TempDir()}
	assert.ErrorContains(t, batch.Cmd.RunE(&cobra.Command{}, nil), "error during batch calculation")
}
