// Package collision implements level collision/gravity (§4.4) and the
// instance-to-instance collision resolver (§4.5).
package collision

import (
	"math"

	"github.com/oxyengine/charanim/engine/spatial"
)

// LevelConfig bundles the tunables referenced by §4.4's classification
// rules, sourced from the loaded config (§6).
type LevelConfig struct {
	MaxSlopeAngleDegrees  float32
	MaxStairStepHeight    float32
	GravityEnabled        bool
	FootClearance         float32 // tiny extension below the feet (step 1)
}

// TriangleClass is the §4.4 step-3 classification of a candidate triangle
// relative to an instance's feet.
type TriangleClass int

const (
	ClassWall TriangleClass = iota
	ClassWalkable
	ClassStair
	ClassBelowFoot
)

// Classify implements §4.4 step 3.
func Classify(cfg LevelConfig, tri spatial.Triangle, footY float32) TriangleClass {
	cosMaxSlope := float32(math.Cos(float64(cfg.MaxSlopeAngleDegrees) * math.Pi / 180))
	if tri.Normal[1] >= cosMaxSlope {
		return ClassWalkable
	}
	height := tri.AABB.Max[1] - tri.AABB.Min[1]
	if height < cfg.MaxStairStepHeight &&
		tri.AABB.Max[1] >= footY-cfg.MaxStairStepHeight &&
		tri.AABB.Min[1] <= footY+cfg.MaxStairStepHeight {
		return ClassStair
	}
	if tri.AABB.Max[1] < footY+cfg.MaxStairStepHeight {
		return ClassBelowFoot
	}
	return ClassWall
}

// GroundQueryResult is the outcome of one instance's §4.4 ground query.
type GroundQueryResult struct {
	OnGround       bool
	GroundY        float32
	GroundTriangle int32 // -1 if none found
	WallHit        bool
}

// expandedFeetBox builds the step-1 expanded AABB: the instance's cached
// box extended slightly below the feet so the ground plane is included in
// the octree query.
func expandedFeetBox(box spatial.Box, clearance float32) spatial.Box {
	out := box
	out.Min[1] -= clearance
	return out
}

// downwardRayHit casts a ray straight down from origin through the
// triangle's plane, returning the hit Y and whether the ray's XZ falls
// within the triangle's AABB footprint (an AABB-footprint test is used in
// place of full barycentric containment, matching the tolerance the
// octree's inflated AABBs already provide).
func downwardRayHit(origin [3]float32, tri spatial.Triangle) (y float32, hit bool) {
	if origin[0] < tri.AABB.Min[0] || origin[0] > tri.AABB.Max[0] ||
		origin[2] < tri.AABB.Min[2] || origin[2] > tri.AABB.Max[2] {
		return 0, false
	}
	if origin[1] < tri.AABB.Min[1] {
		return 0, false
	}
	n := tri.Normal
	if n[1] == 0 {
		return 0, false
	}
	v0 := tri.Vertices[0]
	d := -(n[0]*v0[0] + n[1]*v0[1] + n[2]*v0[2])
	planeY := -(n[0]*origin[0] + n[2]*origin[2] + d) / n[1]
	return planeY, planeY <= origin[1]
}

// QueryGround implements §4.4 steps 1-5 for a single instance.
func QueryGround(cfg LevelConfig, level *spatial.Octree[spatial.Triangle], instanceBox spatial.Box, footY float32, deltaTime float32, wasOnGround bool) GroundQueryResult {
	queryBox := expandedFeetBox(instanceBox, cfg.FootClearance)
	candidates := level.Query(queryBox)

	center := instanceBox.center()
	result := GroundQueryResult{GroundTriangle: -1}

	bestY := float32(math.Inf(-1))
	for _, tri := range candidates {
		class := Classify(cfg, tri, footY)
		switch class {
		case ClassWall:
			result.WallHit = true
		case ClassWalkable:
			if y, hit := downwardRayHit([3]float32{center[0], footY + cfg.FootClearance, center[2]}, tri); hit && y > bestY {
				bestY = y
				result.GroundTriangle = tri.Index
				result.OnGround = true
			}
		}
	}

	if !result.OnGround {
		if cfg.GravityEnabled {
			result.GroundY = footY - gravityDrop(deltaTime, wasOnGround)
		} else {
			result.GroundY = footY
		}
		return result
	}
	result.GroundY = bestY
	return result
}

const gravityAccel = 9.81

// gravityDrop returns the distance fallen this frame under the spec's
// constant gravity acceleration (§8 property 6: y(t+Δt) < y(t) by
// 9.81·Δt²/2 within fp tolerance, the standard constant-acceleration fall
// distance starting from zero vertical velocity at the instant ground
// contact is lost).
func gravityDrop(deltaTime float32, wasOnGround bool) float32 {
	return gravityAccel * deltaTime * deltaTime / 2
}
