package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aridcore/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	out, err := execute(t, "init", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	out, err = execute(t, "init", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")

	_, err = execute(t, "check", "-c", path)
	assert.ErrorIs(t, err, config.ErrTokenPlaceholder)

	_, err = execute(t, "set", "-c", path, "token", "abcdefghijklmnop")
	require.NoError(t, err)

	_, err = execute(t, "check", "-c", path)
	assert.NoError(t, err)

	out, err = execute(t, "get", "-c", path, "prefix")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPrefix+"\n", out)

	out, err = execute(t, "show", "-c", path)
	require.NoError(t, err)
	assert.Contains(t, out, "shards = 0")
	assert.NotContains(t, out, "abcdefghijklmnop")
}

func TestGetMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	_, err := execute(t, "get", "-c", path, "prefix")
	assert.ErrorIs(t, err, config.ErrNoDocument)

	_, err = execute(t, "init", "-c", path)
	require.NoError(t, err)
	_, err = execute(t, "get", "-c", path, "nope")
	assert.ErrorContains(t, err, `"nope" is not set`)
}
