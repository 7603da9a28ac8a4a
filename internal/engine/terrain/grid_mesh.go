package terrain

import "fmt"

// Sub-quad ids in index-buffer layout order. The four mirrored
// quadrants are stored contiguously in this order, so any subset of
// them decomposes into at most two contiguous index-buffer runs.
const (
	SubQuadBottomLeft = iota
	SubQuadBottomRight
	SubQuadTopLeft
	SubQuadTopRight
)

// GridMesh is the fixed-topology patch of the CDLOD terrain renderer:
// a dimension x dimension cell grid built from four mirrored sub-quads
// that share their center row and column. Vertices are 2D integer
// offsets from the patch center; the renderer scales and translates
// them per patch and fetches height in the vertex shader.
//
// The topology is pure CPU data. Uploading it to GPU buffers and
// issuing draws is the renderer's job.
type GridMesh struct {
	// Dimension is the side length of the grid in cells. Always even.
	Dimension int

	// Positions holds 4*(half+1)^2 vertices as (x, z) cell offsets in
	// [-half, half], grouped by sub-quad in layout order. Mirrored
	// sub-quads repeat their shared-edge vertices with identical
	// coordinates, so patch edges cannot crack.
	Positions [][2]int16

	// Indices is a CCW triangle list over all four sub-quads.
	Indices []uint16

	// subquadStart[i] is the element offset of sub-quad i's indices.
	subquadStart [4]int
}

// DrawRun is one contiguous index-buffer range to draw.
type DrawRun struct {
	First int // element offset into Indices
	Count int // number of indices
}

// subQuadRun is a run of whole sub-quads in layout order.
type subQuadRun struct {
	start, quads int
}

// drawRunTable maps the 4-bit sub-quad selection mask (bit i set means
// sub-quad i is drawn) to its maximal contiguous runs. At most two runs
// exist for any mask, so any selection renders in at most two draw
// calls.
var drawRunTable = [16][]subQuadRun{
	0x0: nil,
	0x1: {{0, 1}},
	0x2: {{1, 1}},
	0x3: {{0, 2}},
	0x4: {{2, 1}},
	0x5: {{0, 1}, {2, 1}},
	0x6: {{1, 2}},
	0x7: {{0, 3}},
	0x8: {{3, 1}},
	0x9: {{0, 1}, {3, 1}},
	0xa: {{1, 1}, {3, 1}},
	0xb: {{0, 2}, {3, 1}},
	0xc: {{2, 2}},
	0xd: {{0, 1}, {2, 2}},
	0xe: {{1, 3}},
	0xf: {{0, 4}},
}

// BuildGridMesh constructs the grid topology for the given cell
// dimension. The dimension must be positive and even, and small enough
// for 16-bit indices (4*(dimension/2+1)^2 vertices at most 65536).
func BuildGridMesh(dimension int) (*GridMesh, error) {
	if dimension <= 0 || dimension%2 != 0 {
		return nil, fmt.Errorf("grid mesh dimension must be a positive even number, got %d", dimension)
	}
	half := dimension / 2
	if 4*(half+1)*(half+1) > 1<<16 {
		return nil, fmt.Errorf("grid mesh dimension %d exceeds 16-bit index range", dimension)
	}

	m := &GridMesh{Dimension: dimension}
	m.Positions = make([][2]int16, 0, 4*(half+1)*(half+1))

	for ysign := -1; ysign <= 1; ysign += 2 {
		for xsign := -1; xsign <= 1; xsign += 2 {
			for y := 0; y <= half; y++ {
				for x := 0; x <= half; x++ {
					m.Positions = append(m.Positions, [2]int16{
						int16(xsign * x),
						int16(ysign * y),
					})
				}
			}
		}
	}

	m.Indices = make([]uint16, 0, 4*6*half*half)

	subQuad := 0
	for ysign := -1; ysign <= 1; ysign += 2 {
		for xsign := -1; xsign <= 1; xsign += 2 {
			m.subquadStart[subQuad] = len(m.Indices)

			for y := 0; y < half; y++ {
				for x := 0; x < half; x++ {
					// Mirroring flips orientation, so the diagonal
					// split swaps to keep CCW winding in every
					// quadrant.
					if xsign*ysign > 0 {
						m.Indices = append(m.Indices,
							m.indexOf(subQuad, x, y),
							m.indexOf(subQuad, x, y+1),
							m.indexOf(subQuad, x+1, y),

							m.indexOf(subQuad, x+1, y),
							m.indexOf(subQuad, x, y+1),
							m.indexOf(subQuad, x+1, y+1),
						)
					} else {
						m.Indices = append(m.Indices,
							m.indexOf(subQuad, x, y),
							m.indexOf(subQuad, x+1, y+1),
							m.indexOf(subQuad, x, y+1),

							m.indexOf(subQuad, x, y),
							m.indexOf(subQuad, x+1, y),
							m.indexOf(subQuad, x+1, y+1),
						)
					}
				}
			}

			subQuad++
		}
	}

	return m, nil
}

// indexOf maps a sub-quad id and local grid coordinate to the flat
// vertex index.
func (m *GridMesh) indexOf(subQuad, x, y int) uint16 {
	half := m.Dimension / 2
	subQuadVertexCnt := (half + 1) * (half + 1)
	return uint16(subQuad*subQuadVertexCnt + y*(half+1) + x)
}

// SubQuadIndexCount returns the number of indices in one sub-quad.
func (m *GridMesh) SubQuadIndexCount() int {
	half := m.Dimension / 2
	return 6 * half * half
}

// Runs returns the index-buffer ranges that draw exactly the selected
// sub-quads. A sub-quad is deselected when a finer child patch covers
// its quadrant instead. The result has at most two runs, each mapping
// to one indexed draw call.
func (m *GridMesh) Runs(bl, br, tl, tr bool) []DrawRun {
	var mask int
	if bl {
		mask |= 1 << SubQuadBottomLeft
	}
	if br {
		mask |= 1 << SubQuadBottomRight
	}
	if tl {
		mask |= 1 << SubQuadTopLeft
	}
	if tr {
		mask |= 1 << SubQuadTopRight
	}

	entry := drawRunTable[mask]
	if entry == nil {
		return nil
	}

	size := m.SubQuadIndexCount()
	runs := make([]DrawRun, len(entry))
	for i, r := range entry {
		runs[i] = DrawRun{
			First: m.subquadStart[r.start],
			Count: r.quads * size,
		}
	}
	return runs
}
