package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: basic_filter
description: filter accounts by balance
table:
  name: t
  columns:
    - name: name
      type: string
    - name: balance
      type: int64
pipeline:
  - op: filter
    field: balance
    cmp: ">"
    value: 150
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "basic_filter", scenario.Name)
	assert.Equal(t, "t", scenario.Table.Name)
	require.Len(t, scenario.Pipeline, 1)
	assert.Equal(t, "filter", scenario.Pipeline[0].Op)
	assert.Equal(t, 150, scenario.Pipeline[0].Value)
}

func TestLoadScenarioRejectsUnknownFields(t *testing.T) {
	path := writeScenario(t, `
name: typo
tabel:
  name: t
`)

	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestLoadScenarioRequiresName(t *testing.T) {
	path := writeScenario(t, `
table:
  name: t
  columns:
    - name: x
      type: int64
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestLoadScenarioRequiresTableName(t *testing.T) {
	path := writeScenario(t, `
name: no_table
pipeline: []
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table.name is required")
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
