package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

const testLayout = `
version: v7
rooms:
  - id: 1
    name: Hall
    exits:
      - to: 2
        two_way: true
      - to: 5
  - id: 2
    name: Gallery
    exits:
      - to: 3
  - id: 3
    name: Stair
    exits:
      - to: 4
  - id: 4
    name: Vault
  - id: 5
    name: Chute
    exits:
      - to: 4
`

func writeLayout(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCmd(t *testing.T) {
	path := writeLayout(t, testLayout)

	out, err := run(t, "validate", "--layout", path)
	require.NoError(t, err)
	assert.Contains(t, out, "version v7, 5 rooms, 6 exits")

	bad := writeLayout(t, "version: v1\nrooms:\n  - id: 0\n    name: nowhere\n")
	_, err = run(t, "validate", "--layout", bad)
	assert.Error(t, err)
}

func TestRouteCmd(t *testing.T) {
	path := writeLayout(t, testLayout)

	out, err := run(t, "route", "1", "4", "--json", "--layout", path)
	require.NoError(t, err)
	var route world.Route
	require.NoError(t, json.Unmarshal([]byte(out), &route))
	assert.Equal(t, []graph.NodeID{1, 5, 4}, route.Rooms)
	assert.Equal(t, 2, route.Hops)

	out, err = run(t, "route", "1", "3", "--layout", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Stair")
	assert.Contains(t, out, "2 hops")

	_, err = run(t, "route", "4", "1", "--layout", path)
	assert.ErrorIs(t, err, world.ErrNoRoute)

	_, err = run(t, "route", "0", "1", "--layout", path)
	assert.Error(t, err)
	_, err = run(t, "route", "1", "--layout", path)
	assert.Error(t, err)
}
