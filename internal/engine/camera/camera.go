// Package camera provides the orbit camera for terrain viewing.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Nuos/LoD/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Projection
	FovY        float32
	AspectRatio float32
	Near, Far   float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(aspect float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        300.0,
		RotationX:       0.6,
		RotationY:       0.0,
		FovY:            1.0,
		AspectRatio:     aspect,
		Near:            0.5,
		Far:             4000.0,
		MinDistance:     20.0,
		MaxDistance:     2500.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY)

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Vec3{X: 0, Y: 1, Z: 0})
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *OrbitCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.AspectRatio, c.Near, c.Far)
}

// Frustum returns the view frustum for visibility culling.
func (c *OrbitCamera) Frustum() math.Frustum {
	return math.FrustumFromMatrix(c.ProjectionMatrix().Mul(c.ViewMatrix()))
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	if c.RotationX < c.MinPitch {
		c.RotationX = c.MinPitch
	}
	if c.RotationX > c.MaxPitch {
		c.RotationX = c.MaxPitch
	}
}

// HandleZoom updates distance based on scroll delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance *= 1 - delta*c.ZoomSensitivity

	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Move pans the orbit center in the camera's horizontal plane.
func (c *OrbitCamera) Move(forward, right, up float32) {
	speed := c.Distance * 0.01

	dirX := math32.Sin(c.RotationY)
	dirZ := math32.Cos(c.RotationY)
	rightX := math32.Cos(c.RotationY)
	rightZ := -math32.Sin(c.RotationY)

	c.Center.X += (-dirX*forward + rightX*right) * speed
	c.Center.Z += (-dirZ*forward + rightZ*right) * speed
	c.Center.Y += up * speed
}

// SetAspect updates the projection aspect ratio after a window resize.
func (c *OrbitCamera) SetAspect(width, height int) {
	if height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
}

// FitToTerrain centers the camera over a terrain of the given extent.
func (c *OrbitCamera) FitToTerrain(width, height, maxAltitude float32) {
	c.Center = math.Vec3{X: width / 2, Y: maxAltitude / 2, Z: height / 2}

	size := math32.Max(width, height)
	c.Distance = size * 0.4
	if c.Distance < 100 {
		c.Distance = 100
	}

	c.RotationX = 0.6
	c.RotationY = 0.0
}
