package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dgraph/internal/cli"
)

func TestParseRequiresGraphDefinitions(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := cli.Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseCollectsRepeatableFlags(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := cli.Parse([]string{
		"--graph-definitions", "a.json",
		"--graph-definitions", "b.json",
		"--templates", "t.json",
		"--echo-inputs",
	}, &out)
	require.NoError(t, err)
	assert.False(t, shouldExit)
	require.NotNil(t, config)
	assert.Equal(t, []string{"a.json", "b.json"}, config.GraphDefinitions)
	assert.Equal(t, []string{"t.json"}, config.Templates)
	assert.True(t, config.EchoInputs)
}

func TestParseRejectsInvalidLogFormat(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{
		"--graph-definitions", "a.json",
		"--log-format", "xml",
	}, &out)
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseRejectsInvalidLogLevel(t *testing.T) {
	var out bytes.Buffer
	_, _, err := cli.Parse([]string{
		"--graph-definitions", "a.json",
		"--log-level", "verbose",
	}, &out)
	require.Error(t, err)
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
