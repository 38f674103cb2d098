package behavior

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGraphFile(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "patrol.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadGraphFile(t *testing.T) {
	path := writeGraphFile(t, `
name: patrol
nodes:
  - id: 0
    type: 0
  - id: 1
    type: 1
    params:
      state: 1
links:
  - fromNode: 0
    fromPin: out
    toNode: 1
    toPin: in
roots: [0]
`)

	g, err := LoadGraphFile(path)
	require.NoError(t, err)
	assert.Equal(t, "patrol", g.Name)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, NodeAction, g.Nodes[1].Type)
	assert.Equal(t, float32(1), g.Nodes[1].Params["state"])
	require.Len(t, g.Links, 1)
	assert.Equal(t, []NodeID{0}, g.Roots)
	assert.NoError(t, g.Validate())
}

func TestLoadGraphFile_MissingFile(t *testing.T) {
	_, err := LoadGraphFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadGraphFile_DanglingLinkFailsValidate(t *testing.T) {
	path := writeGraphFile(t, `
name: broken
nodes:
  - id: 0
    type: 0
links:
  - fromNode: 0
    fromPin: out
    toNode: 99
    toPin: in
roots: [0]
`)

	g, err := LoadGraphFile(path)
	require.NoError(t, err)
	assert.ErrorIs(t, g.Validate(), ErrGraphIntegrity)
}
