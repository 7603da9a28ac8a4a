// Package picking provides ray casting against the terrain.
package picking

import (
	"github.com/chewxy/math32"

	"github.com/Nuos/LoD/internal/engine/terrain"
	"github.com/Nuos/LoD/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport
// dimensions. invViewProj is the inverse of the view-projection
// matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.MulVec4(math.Vec4{ndcX, ndcY, 1.0, 1.0})

	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	dir := math.Vec3{
		X: farWorld[0] - nearWorld[0],
		Y: farWorld[1] - nearWorld[1],
		Z: farWorld[2] - nearWorld[2],
	}

	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY intersects a ray with a horizontal plane at the
// given Y level. Returns the intersection point and whether the
// intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (math.Vec3, bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return math.Vec3{}, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}

	return r.At(t), true
}

// IntersectTerrain marches the ray against the heightmap and returns
// the first surface hit within maxDist. The coarse march is refined by
// bisection once a below-surface sample is found.
func (r Ray) IntersectTerrain(hm *terrain.Heightmap, maxDist float32) (math.Vec3, bool) {
	const step float32 = 2.0

	prev := float32(0)
	for t := step; t <= maxDist; t += step {
		p := r.At(t)
		if p.Y <= hm.HeightAt(p.X, p.Z) {
			return r.At(r.refine(hm, prev, t)), true
		}
		prev = t
	}
	return math.Vec3{}, false
}

// refine bisects between an above-surface and a below-surface distance
// until the interval is tight.
func (r Ray) refine(hm *terrain.Heightmap, above, below float32) float32 {
	for i := 0; i < 16; i++ {
		mid := (above + below) / 2
		p := r.At(mid)
		if p.Y <= hm.HeightAt(p.X, p.Z) {
			below = mid
		} else {
			above = mid
		}
	}
	return below
}
