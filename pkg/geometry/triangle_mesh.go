package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// TriangleMesh is an indexed triangle list. Its triangles are flattened into the scene
// primitive list so the scene BVH indexes every triangle individually.
type TriangleMesh struct {
	triangles []*Triangle
	bbox      core.AABB
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	UVs         []core.Vec2 // Optional per-vertex texture coordinates
	Materials   []int       // Optional per-triangle material ids
	Scale       float64     // Optional uniform scale (0 = no scaling)
	Rotation    *core.Vec3  // Optional rotation (radians around X, Y, Z) to apply to vertices
	Center      *core.Vec3  // Optional center point for scaling and rotation
	Translation *core.Vec3  // Optional translation applied last
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// materialID: default material for all triangles
// options: optional parameters (can be nil for basic mesh)
func NewTriangleMesh(vertices []core.Vec3, faces []int, materialID int, options *TriangleMeshOptions) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("%w: %d face indices is not a multiple of 3", ErrInvalidMesh, len(faces))
	}

	numTriangles := len(faces) / 3
	if options == nil {
		options = &TriangleMeshOptions{}
	}
	if options.UVs != nil && len(options.UVs) != len(vertices) {
		return nil, fmt.Errorf("%w: %d uvs for %d vertices", ErrInvalidMesh, len(options.UVs), len(vertices))
	}
	if options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("%w: %d materials for %d triangles", ErrInvalidMesh, len(options.Materials), numTriangles)
	}

	workingVertices := make([]core.Vec3, len(vertices))
	for i, vertex := range vertices {
		workingVertices[i] = transformVertex(vertex, options)
	}

	mesh := &TriangleMesh{triangles: make([]*Triangle, numTriangles)}
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(workingVertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d out of %d", ErrInvalidMesh, i, idx, len(workingVertices))
			}
		}

		triangleMaterial := materialID
		if options.Materials != nil {
			triangleMaterial = options.Materials[i]
		}

		uvs := defaultTriangleUVs
		if options.UVs != nil {
			uvs = [3]core.Vec2{options.UVs[i0], options.UVs[i1], options.UVs[i2]}
		}

		triangle := NewTriangleWithUVs(workingVertices[i0], workingVertices[i1], workingVertices[i2], uvs, triangleMaterial)
		if err := triangle.Validate(); err != nil {
			return nil, fmt.Errorf("mesh face %d: %w", i, err)
		}
		mesh.triangles[i] = triangle

		if i == 0 {
			mesh.bbox = triangle.BoundingBox()
		} else {
			mesh.bbox = mesh.bbox.Union(triangle.BoundingBox())
		}
	}

	return mesh, nil
}

// Primitives returns the mesh triangles as scene primitives
func (tm *TriangleMesh) Primitives() []Primitive {
	prims := make([]Primitive, len(tm.triangles))
	for i, tri := range tm.triangles {
		prims[i] = tri
	}
	return prims
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

func transformVertex(vertex core.Vec3, options *TriangleMeshOptions) core.Vec3 {
	if options.Center != nil {
		vertex = vertex.Subtract(*options.Center)
	}
	if options.Scale != 0 {
		vertex = vertex.Multiply(options.Scale)
	}
	if options.Rotation != nil {
		vertex = rotateVertex(vertex, *options.Rotation)
	}
	if options.Center != nil {
		vertex = vertex.Add(*options.Center)
	}
	if options.Translation != nil {
		vertex = vertex.Add(*options.Translation)
	}
	return vertex
}

// rotateVertex applies rotation around X, Y, Z axes (in that order)
func rotateVertex(vertex, rotation core.Vec3) core.Vec3 {
	if rotation.X != 0 {
		cos := math.Cos(rotation.X)
		sin := math.Sin(rotation.X)
		y := vertex.Y*cos - vertex.Z*sin
		z := vertex.Y*sin + vertex.Z*cos
		vertex = core.NewVec3(vertex.X, y, z)
	}

	if rotation.Y != 0 {
		cos := math.Cos(rotation.Y)
		sin := math.Sin(rotation.Y)
		x := vertex.X*cos + vertex.Z*sin
		z := -vertex.X*sin + vertex.Z*cos
		vertex = core.NewVec3(x, vertex.Y, z)
	}

	if rotation.Z != 0 {
		cos := math.Cos(rotation.Z)
		sin := math.Sin(rotation.Z)
		x := vertex.X*cos - vertex.Y*sin
		y := vertex.X*sin + vertex.Y*cos
		vertex = core.NewVec3(x, y, vertex.Z)
	}

	return vertex
}
