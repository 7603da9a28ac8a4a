package math

// Sphere is a bounding sphere in world space.
type Sphere struct {
	Center Vec3
	Radius float32
}

// Transform returns the sphere with its center transformed by m.
// The radius is left unchanged, so m is expected to be rigid.
func (s Sphere) Transform(m Mat4) Sphere {
	return Sphere{Center: m.TransformVec3(s.Center), Radius: s.Radius}
}

// Contains reports whether p lies inside the sphere.
func (s Sphere) Contains(p Vec3) bool {
	return s.Center.Distance(p) <= s.Radius
}
