package calculate_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/household-split/cmd/calculate"
	"fjacquet/household-split/cmd/root"
	"fjacquet/household-split/internal/config"
	"fjacquet/household-split/internal/container"
	"fjacquet/household-split/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupContainer(t *testing.T) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level, cfg.Log.Format = "info", "text"
	cfg.Settings.IdentificationColumn = "memo"
	cfg.Settings.OwnerPattern = "owner card"
	cfg.Settings.SpousePattern = "spouse card"
	cfg.Settings.OwnerRatio, cfg.Settings.SpouseRatio = 50, 50
	cfg.Settlement.Epsilon, cfg.Settlement.RoundPlaces = 1e-6, -1
	cfg.Batch.Workers, cfg.Batch.Pattern = 1, "*.json"
	cfg.Output.Format = "json"

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)

	original, flags := root.AppContainer, root.SharedFlags
	root.AppContainer = c
	t.Cleanup(func() {
		root.AppContainer, root.SharedFlags = original, flags
		calculate.Settings.Reset()
		calculate.Format = ""
	})
}

func TestCalculateCommand_Metadata(t *testing.T) {
	assert.Equal(t, "calculate", calculate.Cmd.Use)
	assert.Contains(t, calculate.Cmd.Short, "who owes whom")
	assert.Contains(t, calculate.Cmd.Long, "Example")
	assert.NotNil(t, calculate.Cmd.RunE)

	for _, name := range []string{"format", "column", "owner-pattern", "spouse-pattern", "owner-ratio", "spouse-ratio", "amount-sign"} {
		assert.NotNil(t, calculate.Cmd.Flags().Lookup(name), name)
	}
}

func TestCalculateCommand_StdinUsesConfiguredSettings(t *testing.T) {
	setupContainer(t)
	root.SharedFlags = root.CommonFlags{}
	calculate.Format = "text"

	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"records": [
		{"id": "1", "memo": "owner card", "amount": 800},
		{"id": "2", "memo": "groceries", "amount": 600}
	]}`))

	require.NoError(t, calculate.Cmd.RunE(cmd, nil))
	assert.Contains(t, out.String(), "Owner share:   1100")
	assert.Contains(t, out.String(), "owner pays spouse 300")
}

func TestCalculateCommand_OutputFile(t *testing.T) {
	setupContainer(t)
	input := filepath.Join(t.TempDir(), "in.json")
	output := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(input, []byte(`{"records": [{"id": "1", "memo": "spouse card", "amount": 10}]}`), 0600))
	root.SharedFlags = root.CommonFlags{Input: input, Output: output}
	calculate.Format = "csv"

	require.NoError(t, calculate.Cmd.RunE(&cobra.Command{}, nil))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "spouse,1,")
}

func TestCalculateCommand_Errors(t *testing.T) {
	setupContainer(t)
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(`{"records": []}`))

	calculate.Format = "xml"
	assert.ErrorContains(t, calculate.Cmd.RunE(cmd, nil), "unsupported output format")

	calculate.Format = ""
	calculate.Settings.OwnerRatio = "abc"
	cmd.SetIn(strings.NewReader(`{"records": []}`))
	assert.ErrorContains(t, calculate.Cmd.RunE(cmd, nil), "owner_ratio")

	calculate.Settings.Reset()
	cmd.SetIn(strings.NewReader(`not json`))
	assert.ErrorContains(t, calculate.Cmd.RunE(cmd, nil), "invalid payload stdin")

	root.AppContainer = nil
	assert.ErrorContains(t, calculate.Cmd.RunE(cmd, nil), "container not initialized")
}
