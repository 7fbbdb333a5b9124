package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/prism/pkg/math3d"
	"github.com/taigrr/prism/pkg/primitive"
)

// ErrUnsupported is returned for glTF content the loader cannot read.
var ErrUnsupported = errors.New("unsupported gltf content")

// LoadGLTF loads a .gltf or .glb file. Every mesh primitive is read
// according to its mode: points become markers, line modes become edges
// and triangle modes become faces.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("load gltf %s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// Decode converts all meshes of an opened document into one Mesh.
func Decode(doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh("")
	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			if err := decodePrimitive(doc, prim, mesh); err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
		}
	}
	if mesh.Empty() {
		return nil, ErrEmptyMesh
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func decodePrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := readVec3Accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var indices []int
	if prim.Indices != nil {
		if indices, err = readIndices(doc, *prim.Indices); err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]int, len(positions))
		for i := range indices {
			indices[i] = i
		}
	}

	base := len(mesh.Vertices)
	mesh.Vertices = append(mesh.Vertices, positions...)
	color := materialColor(doc, prim.Material)
	at := func(i int) int { return base + indices[i] }

	switch prim.Mode {
	case gltf.PrimitivePoints:
		for i := range indices {
			mesh.Markers = append(mesh.Markers, Marker{V: at(i), Color: color})
		}
	case gltf.PrimitiveLines:
		for i := 0; i+1 < len(indices); i += 2 {
			mesh.Edges = append(mesh.Edges, Edge{V: [2]int{at(i), at(i + 1)}, Color: color})
		}
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		for i := 0; i+1 < len(indices); i++ {
			mesh.Edges = append(mesh.Edges, Edge{V: [2]int{at(i), at(i + 1)}, Color: color})
		}
		if prim.Mode == gltf.PrimitiveLineLoop && len(indices) > 2 {
			mesh.Edges = append(mesh.Edges, Edge{V: [2]int{at(len(indices) - 1), at(0)}, Color: color})
		}
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Faces = append(mesh.Faces, Face{V: [3]int{at(i), at(i + 1), at(i + 2)}, Color: color})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < len(indices); i++ {
			f := [3]int{at(i), at(i + 1), at(i + 2)}
			if i%2 == 1 {
				f[0], f[1] = f[1], f[0]
			}
			mesh.Faces = append(mesh.Faces, Face{V: f, Color: color})
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < len(indices); i++ {
			mesh.Faces = append(mesh.Faces, Face{V: [3]int{at(0), at(i), at(i + 1)}, Color: color})
		}
	default:
		return fmt.Errorf("mode %v: %w", prim.Mode, ErrUnsupported)
	}
	return nil
}

// materialColor returns the base color factor of the material, or
// DefaultColor.
func materialColor(doc *gltf.Document, idx *int) primitive.Color {
	if idx == nil || *idx < 0 || *idx >= len(doc.Materials) {
		return DefaultColor
	}
	pbr := doc.Materials[*idx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return DefaultColor
	}
	f := pbr.BaseColorFactor
	return primitive.FromFloat(f[0], f[1], f[2])
}

// accessorBytes returns the buffer backing accessor, its start offset and
// the element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view: %w", ErrUnsupported)
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	data := doc.Buffers[view.Buffer].Data
	if data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data: %w", ErrUnsupported)
	}

	start := view.ByteOffset + accessor.ByteOffset
	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if n := accessor.Count; n > 0 {
		if end := start + (n-1)*stride + elemSize; end > len(data) {
			return nil, 0, 0, fmt.Errorf("accessor needs %d bytes, buffer has %d", end, len(data))
		}
	}
	return data, start, stride, nil
}

// readVec3Accessor reads float VEC3 data.
func readVec3Accessor(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	accessor := doc.Accessors[idx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v %v: %w", accessor.ComponentType, accessor.Type, ErrUnsupported)
	}
	data, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	out := make([]math3d.Vec3, accessor.Count)
	for i := range out {
		b := data[start+i*stride:]
		out[i] = math3d.V3(
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))),
			float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))),
		)
	}
	return out, nil
}

// readIndices reads unsigned SCALAR index data of any width.
func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	accessor := doc.Accessors[idx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR, got %v: %w", accessor.Type, ErrUnsupported)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("index component %v: %w", accessor.ComponentType, ErrUnsupported)
	}
	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, accessor.Count)
	for i := range out {
		b := data[start+i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
