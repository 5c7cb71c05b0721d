package geometry

import (
	"fmt"
	"sort"

	"github.com/df07/go-nee-pathtracer/pkg/core"
	"github.com/df07/go-nee-pathtracer/pkg/material"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection.
// It uses an internal BVH for hit tests and an area table for uniform sampling.
type TriangleMesh struct {
	triangles []*Triangle
	bvh       *BVH
	bbox      core.AABB
	material  material.Material
	cdf       []float64 // Cumulative triangle areas in face order
	area      float64
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices.
// Each group of 3 indices in faces forms a triangle.
func NewTriangleMesh(vertices []core.Vec3, faces []int, mat material.Material) (*TriangleMesh, error) {
	if len(faces) == 0 || len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a non-empty multiple of 3, got %d", len(faces))
	}

	numTriangles := len(faces) / 3
	triangles := make([]*Triangle, numTriangles)
	shapes := make([]Shape, numTriangles)
	cdf := make([]float64, numTriangles)
	area := 0.0

	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range []int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range [0, %d)", i, idx, len(vertices))
			}
		}

		triangle := NewTriangle(vertices[i0], vertices[i1], vertices[i2], mat)
		triangle.index = i
		triangles[i] = triangle
		shapes[i] = triangle

		area += triangle.Area()
		cdf[i] = area
	}

	bvh := NewBVH(shapes)
	return &TriangleMesh{
		triangles: triangles,
		bvh:       bvh,
		bbox:      bvh.Root.BoundingBox,
		material:  mat,
		cdf:       cdf,
		area:      area,
	}, nil
}

// Hit tests if a ray intersects with any triangle in the mesh.
// The reported object is the mesh itself; Primitive names the triangle.
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (*Intersection, bool) {
	hit, isHit := tm.bvh.Hit(ray, tMin, tMax)
	if !isHit {
		return nil, false
	}
	hit.Object = tm
	return hit, true
}

// BoundingBox returns the bounding box of the whole mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bbox
}

// GetTriangleCount returns the number of triangles in the mesh
func (tm *TriangleMesh) GetTriangleCount() int {
	return len(tm.triangles)
}

// HasEmission implements Object
func (tm *TriangleMesh) HasEmission() bool {
	return tm.material != nil && tm.material.HasEmission()
}

// Area returns the summed area of all triangles
func (tm *TriangleMesh) Area() float64 {
	return tm.area
}

// Sample picks a triangle proportionally to its area, then a uniform point on it.
// The first sample dimension is reused for the point after selection.
func (tm *TriangleMesh) Sample(sample core.Vec2) SurfaceSample {
	target := sample.X * tm.area
	i := sort.SearchFloat64s(tm.cdf, target)
	if i >= len(tm.triangles) {
		i = len(tm.triangles) - 1
	}

	lower := 0.0
	if i > 0 {
		lower = tm.cdf[i-1]
	}
	triangle := tm.triangles[i]
	remapped := 0.0
	if triangle.Area() > 0 {
		remapped = min(1, max(0, (target-lower)/triangle.Area()))
	}

	s := triangle.Sample(core.NewVec2(remapped, sample.Y))
	s.PDF = 1.0 / tm.area
	return s
}
