package terrain

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Nuos/LoD/pkg/math"
)

// Patch is one selected quadtree node, rendered with the shared
// GridMesh at a node-specific offset and scale. A sub-quad flag is
// false when a finer child patch covers that quadrant instead.
type Patch struct {
	X, Z  float32 // world-space center of the patch
	Scale float32 // world units per grid mesh cell
	Level int

	BL, BR, TL, TR bool
}

// QuadTree selects terrain patches with distance-dependent detail.
// Every node renders the same GridMesh; nearby nodes are split into
// their children so the mesh covers less ground per vertex.
type QuadTree struct {
	root    *treeNode
	meshDim int
	levels  int
	ranges  []float32
}

type treeNode struct {
	cx, cz     float32
	extent     float32 // half edge length in world units
	level      int
	minH, maxH float32
	children   [4]*treeNode // bl, br, tl, tr; nil on leaves
}

// BuildQuadTree builds a quadtree of the given depth over the
// heightmap. A leaf patch spans meshDim world units, its parent twice
// that, and so on; the root is centered on the map. leafRange is the
// distance within which leaf-level detail is used, doubling per level.
func BuildQuadTree(hm *Heightmap, meshDim, levels int, leafRange float32) (*QuadTree, error) {
	if levels < 1 {
		return nil, fmt.Errorf("quadtree needs at least one level, got %d", levels)
	}
	if leafRange <= 0 {
		return nil, fmt.Errorf("quadtree leaf range must be positive, got %v", leafRange)
	}

	t := &QuadTree{
		meshDim: meshDim,
		levels:  levels,
		ranges:  make([]float32, levels),
	}
	t.ranges[0] = leafRange
	for i := 1; i < levels; i++ {
		t.ranges[i] = t.ranges[i-1] * 2
	}

	rootSize := meshDim << (levels - 1)
	t.root = buildNode(hm, float32(hm.W)/2, float32(hm.H)/2, float32(rootSize)/2, levels-1)
	return t, nil
}

func buildNode(hm *Heightmap, cx, cz, extent float32, level int) *treeNode {
	size := int(extent * 2)
	minH, maxH := hm.MinMaxOfArea(int(cx), int(cz), size, size)

	n := &treeNode{
		cx: cx, cz: cz,
		extent: extent,
		level:  level,
		minH:   minH, maxH: maxH,
	}

	if level > 0 {
		h := extent / 2
		n.children = [4]*treeNode{
			buildNode(hm, cx-h, cz-h, h, level-1), // bl
			buildNode(hm, cx+h, cz-h, h, level-1), // br
			buildNode(hm, cx-h, cz+h, h, level-1), // tl
			buildNode(hm, cx+h, cz+h, h, level-1), // tr
		}
	}
	return n
}

// Bounds returns the node's bounding sphere, covering its footprint
// and full height range.
func (n *treeNode) bounds() math.Sphere {
	halfH := (n.maxH - n.minH) / 2
	return math.Sphere{
		Center: math.Vec3{X: n.cx, Y: n.minH + halfH, Z: n.cz},
		Radius: math32.Sqrt(2*n.extent*n.extent + halfH*halfH),
	}
}

func (n *treeNode) inRange(eye math.Vec3, rng float32) bool {
	s := n.bounds()
	return eye.Distance(s.Center)-s.Radius <= rng
}

// Select walks the tree and returns the patches to draw for the given
// eye position. A nil frustum disables culling.
func (t *QuadTree) Select(eye math.Vec3, frustum *math.Frustum) []Patch {
	var out []Patch
	t.selectNode(t.root, eye, frustum, &out)
	return out
}

// selectNode reports whether the node's area was handled, either by
// emitting patches or by being culled. An unhandled node's area is the
// parent's responsibility.
func (t *QuadTree) selectNode(n *treeNode, eye math.Vec3, frustum *math.Frustum, out *[]Patch) bool {
	if !n.inRange(eye, t.ranges[n.level]) && n.level != t.levels-1 {
		return false
	}

	if frustum != nil && !frustum.IntersectsSphere(n.bounds()) {
		return true
	}

	scale := n.extent * 2 / float32(t.meshDim)

	if n.level == 0 || !n.inRange(eye, t.ranges[n.level-1]) {
		*out = append(*out, Patch{
			X: n.cx, Z: n.cz, Scale: scale, Level: n.level,
			BL: true, BR: true, TL: true, TR: true,
		})
		return true
	}

	// Some quadrants switch to finer children; the rest stay with this
	// node's sub-quads.
	p := Patch{
		X: n.cx, Z: n.cz, Scale: scale, Level: n.level,
		BL: true, BR: true, TL: true, TR: true,
	}
	flags := [4]*bool{&p.BL, &p.BR, &p.TL, &p.TR}
	for i, child := range n.children {
		if t.selectNode(child, eye, frustum, out) {
			*flags[i] = false
		}
	}

	if p.BL || p.BR || p.TL || p.TR {
		*out = append(*out, p)
	}
	return true
}

// LevelCount returns the number of quadtree levels.
func (t *QuadTree) LevelCount() int {
	return t.levels
}

// RootSize returns the world-space edge length covered by the root.
func (t *QuadTree) RootSize() float32 {
	return t.root.extent * 2
}
