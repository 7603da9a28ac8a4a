// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Nuos/LoD/internal/engine/terrain"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
// minX, minY, minZ, maxX, maxY, maxZ define the box corners in world space.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// PatchWireframeVertices creates the wireframe box of one selected
// terrain patch. meshDim is the grid mesh dimension the patch scale
// applies to; minY/maxY bound the terrain height.
func PatchWireframeVertices(p terrain.Patch, meshDim int, minY, maxY float32) []float32 {
	half := float32(meshDim) / 2 * p.Scale
	return GenerateBBoxWireframeVertices(
		p.X-half, minY, p.Z-half,
		p.X+half, maxY, p.Z+half,
	)
}
