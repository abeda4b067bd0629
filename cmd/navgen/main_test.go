package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorustyt/gridnavmesh/common"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := rootCmd()
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestBuildCheckInfo(t *testing.T) {
	dir := t.TempDir()
	gridFile := filepath.Join(dir, "room.txt")
	require.NoError(t, os.WriteFile(gridFile, []byte("....\n.#..\n....\n"), 0o644))
	cfgFile := filepath.Join(dir, "navgen.hjson")
	require.NoError(t, os.WriteFile(cfgFile, []byte("output: {\n codec: \"msgpack\"\n gzip: true\n}\nlog: {\n level: \"error\"\n}\n"), 0o644))

	out, err := run(t, "build", "--config", cfgFile, gridFile)
	require.NoError(t, err)
	meshFile := filepath.Join(dir, "room.gnav")
	assert.Equal(t, meshFile+"\n", out)

	out, err = run(t, "check", "--config", cfgFile, "--grid", gridFile, meshFile)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = run(t, "info", "--config", cfgFile, meshFile)
	require.NoError(t, err)
	assert.Contains(t, out, "size       4x3")
	assert.Contains(t, out, "area       11")

	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("....\n....\n....\n"), 0o644))
	_, err = run(t, "check", "--config", cfgFile, "--grid", other, meshFile)
	assert.ErrorIs(t, err, common.ErrPrecondition)
}

func TestBuildMissingGrid(t *testing.T) {
	_, err := run(t, "build", filepath.Join(t.TempDir(), "none.txt"))
	assert.Error(t, err)
}
