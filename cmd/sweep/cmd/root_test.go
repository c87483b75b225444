package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savedGame = `
config:
  rows: 2
  cols: 3
  mine_count: 1
status: playing
started_at: 2024-03-01T15:04:05Z
board: |
  ..#
  #O#
`

func execute(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, []byte(savedGame), 0o644))
	return path
}

func TestLoadAndWin(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t,
		"f 1 1\no 0 2\no 1 0\no 1 2\nq\n",
		"--load", writeSnapshot(t), "--snapshots-dir", dir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "you won")
	assert.Contains(t, out, "mines: 0")

	_, err = os.Stat(filepath.Join(dir, "20240301_150405_win.yaml"))
	assert.NoError(t, err)
}

func TestLoadFresh(t *testing.T) {
	out, err := execute(t, "q\n", "--load", writeSnapshot(t), "--fresh")
	require.NoError(t, err)
	assert.Contains(t, out, "  0 # # # \n")
	assert.Contains(t, out, "mines: 1")
}

func TestCustomBoard(t *testing.T) {
	out, err := execute(t, "q\n", "--rows", "2", "--cols", "12", "--mines", "3", "--seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "    0 1 2 3 4 5 6 7 8 9 0 1 \n")
	assert.Contains(t, out, "mines: 3")

	out, err = execute(t, "q\n", "-d", "4:4:3")
	require.NoError(t, err)
	assert.Contains(t, out, "mines: 3")
}

func TestBadArguments(t *testing.T) {
	testCases := [][]string{
		{"--difficulty", "impossible"},
		{"--rows", "3", "--cols", "3", "--mines", "9"},
		{"--load", filepath.Join(t.TempDir(), "missing.yaml")},
		{"extra"},
	}
	for _, args := range testCases {
		_, err := execute(t, "q\n", args...)
		assert.Error(t, err, args)
	}
}
