package math

// Plane is a half-space boundary given by a normal and a distance,
// satisfying dot(normal, p) + dist = 0 for points p on the plane.
type Plane struct {
	Normal Vec3
	Dist   float32
}

// Normalize scales the plane equation so the normal has unit length.
func (p Plane) Normalize() Plane {
	l := p.Normal.Length()
	if l == 0 {
		return p
	}
	return Plane{
		Normal: Vec3{p.Normal.X / l, p.Normal.Y / l, p.Normal.Z / l},
		Dist:   p.Dist / l,
	}
}

// DistanceTo returns the signed distance from the point to the plane.
// Positive means the point is on the side the normal points to.
func (p Plane) DistanceTo(v Vec3) float32 {
	return p.Normal.Dot(v) + p.Dist
}

// Frustum is a camera frustum as six inward-facing planes, used for
// visibility culling.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromMatrix extracts the six frustum planes from a combined
// view-projection matrix (Gribb-Hartmann method). Planes are normalized
// and face inward.
func FrustumFromMatrix(m Mat4) Frustum {
	var f Frustum

	// Rows of the matrix in column-major storage.
	row := func(i int) Vec4 {
		return Vec4{m[0+i], m[4+i], m[8+i], m[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes := [6]Vec4{
		{r3[0] + r0[0], r3[1] + r0[1], r3[2] + r0[2], r3[3] + r0[3]}, // left
		{r3[0] - r0[0], r3[1] - r0[1], r3[2] - r0[2], r3[3] - r0[3]}, // right
		{r3[0] + r1[0], r3[1] + r1[1], r3[2] + r1[2], r3[3] + r1[3]}, // bottom
		{r3[0] - r1[0], r3[1] - r1[1], r3[2] - r1[2], r3[3] - r1[3]}, // top
		{r3[0] + r2[0], r3[1] + r2[1], r3[2] + r2[2], r3[3] + r2[3]}, // near
		{r3[0] - r2[0], r3[1] - r2[1], r3[2] - r2[2], r3[3] - r2[3]}, // far
	}

	for i, p := range planes {
		f.Planes[i] = Plane{
			Normal: Vec3{p[0], p[1], p[2]},
			Dist:   p[3],
		}.Normalize()
	}

	return f
}

// IntersectsSphere reports whether the sphere is at least partially
// inside the frustum.
func (f Frustum) IntersectsSphere(s Sphere) bool {
	for _, p := range f.Planes {
		if p.DistanceTo(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}
