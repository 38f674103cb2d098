package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return path
}

func TestLoad_MigratesV3InjectsDefaultBoneAdjustment(t *testing.T) {
	path := writeConfig(t, `
yamlFileVersion: "3.0"
models:
  - name: hero
    path: hero.glb
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Models, 1)
	adj := cfg.Models[0].BoneAdjustments
	require.Len(t, adj, 1)
	assert.Equal(t, defaultBoneAdjustment(), adj[0])
}

func TestLoad_MigratesV4OnlyFillsEmptyAdjustments(t *testing.T) {
	path := writeConfig(t, `
yamlFileVersion: "4.0"
models:
  - name: hero
    path: hero.glb
  - name: villain
    path: villain.glb
    boneAdjustments:
      - offsetX: 1
        offsetY: 0
        offsetZ: 0
        radiusScale: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Models[0].BoneAdjustments, 1)
	assert.Equal(t, float32(2), cfg.Models[1].BoneAdjustments[0].RadiusScale)
}

func TestLoad_UnversionedFileSkipsMigration(t *testing.T) {
	path := writeConfig(t, `
models:
  - name: hero
    path: hero.glb
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Models[0].BoneAdjustments)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSave_StampsCurrentVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := &EngineConfig{
		Levels: []LevelConfig{{Name: "arena", Path: "arena.glb"}},
	}
	require.NoError(t, Save(path, cfg))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentYAMLFileVersion, reloaded.YAMLFileVersion)
	require.Len(t, reloaded.Levels, 1)
	assert.Equal(t, "arena", reloaded.Levels[0].Name)
}
