// Package config loads and saves the engine's YAML scene configuration
// (§6 EXTERNAL INTERFACES): the set of levels, models, behaviors, instances
// and cameras that make up a loadable scene, plus the collision/IK/
// navigation toggles and world bounds that govern a run. Grounded on the
// retrieval pack's yaml.v3 load idiom (defaults-merge-then-overlay, as seen
// in the neighbouring simulation config reader), adapted from a single
// embedded-defaults file to an explicit versioned migration step since this
// format carries its own yamlFileVersion field instead of a defaults.yaml.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oxyengine/charanim/engineerr"
)

// CurrentYAMLFileVersion is written by Save and is the version new configs
// are created at. "3.0" predates the bounding-sphere adjustment table and
// is accepted on Load only via migration.
const CurrentYAMLFileVersion = "4.0"

// BoneAdjustmentConfig mirrors asset.BoundingSphereAdjust for YAML
// round-tripping.
type BoneAdjustmentConfig struct {
	OffsetX     float32 `yaml:"offsetX"`
	OffsetY     float32 `yaml:"offsetY"`
	OffsetZ     float32 `yaml:"offsetZ"`
	RadiusScale float32 `yaml:"radiusScale"`
}

// LevelConfig names one level asset and the collision parameters that apply
// to it (§4.4).
type LevelConfig struct {
	Name                 string  `yaml:"name"`
	Path                 string  `yaml:"path"`
	MaxSlopeAngleDegrees float32 `yaml:"maxSlopeAngleDegrees"`
	MaxStairStepHeight   float32 `yaml:"maxStairStepHeight"`
}

// ModelConfig names one model asset plus the per-bone bounding-sphere
// adjustment table the §6 migration rules may need to backfill.
type ModelConfig struct {
	Name            string                 `yaml:"name"`
	Path            string                 `yaml:"path"`
	BoneAdjustments []BoneAdjustmentConfig `yaml:"boneAdjustments,omitempty"`
}

// BehaviorConfig names a loadable behavior graph file.
type BehaviorConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// InstanceConfig is one authored instance placement.
type InstanceConfig struct {
	ModelName    string     `yaml:"modelName"`
	BehaviorName string     `yaml:"behaviorName,omitempty"`
	Position     [3]float32 `yaml:"position"`
	Rotation     [3]float32 `yaml:"rotation"`
	Scale        [3]float32 `yaml:"scale"`
}

// CameraConfig is one authored camera (§9 free/orbit/follow).
type CameraConfig struct {
	Name           string     `yaml:"name"`
	Mode           string     `yaml:"mode"` // "free", "orbit", "follow"
	Position       [3]float32 `yaml:"position"`
	Target         [3]float32 `yaml:"target,omitempty"`
	FollowInstance int        `yaml:"followInstance,omitempty"`
}

// EngineConfig is the top-level §6 configuration document.
type EngineConfig struct {
	YAMLFileVersion string `yaml:"yamlFileVersion"`

	Levels    []LevelConfig    `yaml:"levels"`
	Models    []ModelConfig    `yaml:"models"`
	Behaviors []BehaviorConfig `yaml:"behaviors"`
	Instances []InstanceConfig `yaml:"instances"`
	Cameras   []CameraConfig   `yaml:"cameras"`

	SelectedLevel  int `yaml:"selectedLevel"`
	SelectedModel  int `yaml:"selectedModel"`
	SelectedCamera int `yaml:"selectedCamera"`

	CollisionEnabled   bool `yaml:"collisionEnabled"`
	InteractionEnabled bool `yaml:"interactionEnabled"`
	IKEnabled          bool `yaml:"ikEnabled"`
	IKIterations       int  `yaml:"ikIterations"`
	NavigationEnabled  bool `yaml:"navigationEnabled"`

	WorldBoundsMin [3]float32 `yaml:"worldBoundsMin"`
	WorldBoundsMax [3]float32 `yaml:"worldBoundsMax"`
}

// Load reads and parses a scene configuration file, applying the
// yamlFileVersion migration rules (§6) before returning it.
func Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.KindFileIO, fmt.Errorf("reading config file: %w", err))
	}

	cfg := &EngineConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, engineerr.Wrap(engineerr.KindFileIO, fmt.Errorf("parsing config file: %w", err))
	}

	migrate(cfg)

	return cfg, nil
}

// Save writes cfg to path as YAML, stamping the current file version.
func Save(path string, cfg *EngineConfig) error {
	cfg.YAMLFileVersion = CurrentYAMLFileVersion
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return engineerr.Wrap(engineerr.KindFileIO, fmt.Errorf("marshaling config: %w", err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return engineerr.Wrap(engineerr.KindFileIO, fmt.Errorf("writing config file: %w", err))
	}
	return nil
}

// migrate applies the §6 yamlFileVersion rules in place: for files at
// "3.0" or "4.0", every model whose adjustment table is empty gets a
// default (0,0,0,1) bounding-sphere adjustment injected. The config holds
// no bone counts, so the injected table has a single entry, not one entry
// per bone; models that already carry adjustments are left unchanged.
func migrate(cfg *EngineConfig) {
	switch cfg.YAMLFileVersion {
	case "3.0":
		for i := range cfg.Models {
			if len(cfg.Models[i].BoneAdjustments) == 0 {
				cfg.Models[i].BoneAdjustments = []BoneAdjustmentConfig{defaultBoneAdjustment()}
			}
		}
	case "4.0":
		for i := range cfg.Models {
			if len(cfg.Models[i].BoneAdjustments) == 0 {
				cfg.Models[i].BoneAdjustments = []BoneAdjustmentConfig{defaultBoneAdjustment()}
			}
		}
	}
}

func defaultBoneAdjustment() BoneAdjustmentConfig {
	return BoneAdjustmentConfig{OffsetX: 0, OffsetY: 0, OffsetZ: 0, RadiusScale: 1}
}
