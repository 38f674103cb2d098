package asset

import (
	"encoding/binary"
	"math"
)

// GPUVertexSource, GPUSkinnedVertexSource and GPUModelDataSource are inline
// WGSL struct stubs registered by engine/renderer/shader's pre-processor.
// Shader source compilation is out of scope here; these exist only so the
// @oxy:include annotation has a source string to inject.
var (
	GPUVertexSource        = "struct VertexInput {}\n"
	GPUSkinnedVertexSource = "struct SkinnedVertexInput {}\n"
	GPUModelDataSource     = "struct ModelData {}\n"
)

// GPUBoneInfo is the GPU-aligned per-bone record uploaded once per model:
// parent index and the inverse-bind (offset) matrix consumed by Animation
// Stage 2 (§4.2).
type GPUBoneInfo struct {
	ParentIndex int32
	_pad        [3]int32
	Offset      [16]float32
}

// Marshal serializes a GPUBoneInfo for SSBO upload.
func (b *GPUBoneInfo) Marshal() []byte {
	buf := make([]byte, 16+64)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(b.ParentIndex))
	for i, f := range b.Offset {
		off := 16 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
	}
	return buf
}

// GPULookupRow mirrors LookupRow for SSBO layout: inverse-time factor plus a
// 4-component value (std430, 20 bytes padded to 32 for vec4 alignment).
type GPULookupRow struct {
	InverseTime float32
	Value       [4]float32
}

// Marshal serializes a GPULookupRow for SSBO upload.
func (r *GPULookupRow) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(r.InverseTime))
	for i, f := range r.Value {
		off := 16 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
	}
	return buf
}

// MarshalAnimLookup flattens the model-immutable animLookup table into a
// single byte buffer suitable for one SSBO upload, in
// [clip][bone][translation|rotation|scale][row] order. This is uploaded
// once per model load and never rewritten (§5 "model-immutable SSBOs").
func MarshalAnimLookup(lookup [][]BoneChannel) []byte {
	if len(lookup) == 0 {
		return nil
	}
	boneCount := len(lookup[0])
	rowSize := 32
	total := len(lookup) * boneCount * 3 * LookupRowCount * rowSize
	buf := make([]byte, 0, total)
	for _, perBone := range lookup {
		for _, ch := range perBone {
			for _, row := range ch.Translation {
				buf = append(buf, row.Marshal()...)
			}
			for _, row := range ch.Rotation {
				buf = append(buf, row.Marshal()...)
			}
			for _, row := range ch.Scale {
				buf = append(buf, row.Marshal()...)
			}
		}
	}
	return buf
}

// GPUAABB mirrors AABB for upload of the per-clip bounding-box lookup.
type GPUAABB struct {
	Min [3]float32
	Max [3]float32
}

// Marshal serializes a GPUAABB for SSBO upload.
func (a *GPUAABB) Marshal() []byte {
	buf := make([]byte, 32)
	for i, f := range a.Min {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	for i, f := range a.Max {
		off := 16 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(f))
	}
	return buf
}

// MarshalAABBLookup flattens the per-clip AABB lookup for one SSBO upload.
func MarshalAABBLookup(lookup [][LookupRowCount]AABB) []byte {
	buf := make([]byte, 0, len(lookup)*LookupRowCount*32)
	for _, clip := range lookup {
		for _, box := range clip {
			g := GPUAABB{Min: box.Min, Max: box.Max}
			buf = append(buf, g.Marshal()...)
		}
	}
	return buf
}
