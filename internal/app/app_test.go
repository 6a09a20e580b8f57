package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/dgraph/internal/app"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestAppRunWritesResolvedState(t *testing.T) {
	dir := t.TempDir()
	declPath := writeJSON(t, dir, "graph.json", []map[string]any{
		{"name": "greeting", "type": "static", "value": "hello, "},
		{"name": "who", "type": "alias", "mirror": "inputs.name"},
		{"name": "message", "type": "transform", "fn": "concat", "params": []any{"greeting", "who"}},
	})
	inputsPath := writeJSON(t, dir, "inputs.json", map[string]any{"name": "world"})

	config, err := app.NewConfig(app.Config{
		GraphDefinitions: []string{declPath},
		InputsPath:       inputsPath,
		LogLevel:         "debug",
	})
	require.NoError(t, err)

	var out bytes.Buffer
	testApp := app.NewApp(&out, config)
	require.NoError(t, testApp.Run(context.Background()))

	var state map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &state))

	require.Equal(t, "hello, ", state["greeting"])
	require.Equal(t, "world", state["who"])
	require.Equal(t, "hello, world", state["message"])
}

func TestAppRunLoadsDeclarationsFromDirectory(t *testing.T) {
	dir := t.TempDir()
	subdir := filepath.Join(dir, "defs")
	require.NoError(t, os.Mkdir(subdir, 0o755))
	writeJSON(t, subdir, "nodes.json", []map[string]any{
		{"name": "value", "type": "static", "value": 41.0},
		{"name": "result", "type": "transform", "fn": "add", "params": map[string]any{"a": "value", "b": 1.0}},
	})

	config, err := app.NewConfig(app.Config{GraphDefinitions: []string{subdir}})
	require.NoError(t, err)

	var out bytes.Buffer
	testApp := app.NewApp(&out, config)
	require.NoError(t, testApp.Run(context.Background()))

	var state map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &state))
	require.Equal(t, 42.0, state["result"])
}

func TestNewConfigRequiresGraphDefinitions(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	require.Error(t, err)
}

func TestSetupAppTestCapturesDebugLogs(t *testing.T) {
	dir := t.TempDir()
	declPath := writeJSON(t, dir, "graph.json", []map[string]any{
		{"name": "value", "type": "static", "value": 1.0},
	})

	testApp, logBuffer := app.SetupAppTest(t, app.Config{GraphDefinitions: []string{declPath}})
	require.NotNil(t, testApp)
	require.Empty(t, logBuffer.String())

	require.NoError(t, testApp.Run(context.Background()))
	require.Contains(t, logBuffer.String(), "app run started")
}
