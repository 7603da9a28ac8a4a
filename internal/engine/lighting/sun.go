// Package lighting provides the directional sun light for the terrain
// scene.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Nuos/LoD/pkg/math"
)

// Sun is a directional light orbiting the scene. Longitude is the
// rotation around the Y axis in degrees, latitude the elevation above
// the horizon in [0, 90].
type Sun struct {
	Longitude float32
	Latitude  float32

	// DaySpeed is the longitude change in degrees per second; zero
	// keeps the sun fixed.
	DaySpeed float32
}

// NewSun returns a sun at a pleasant late-morning position.
func NewSun() *Sun {
	return &Sun{Longitude: 40, Latitude: 55}
}

// Update advances the day cycle.
func (s *Sun) Update(dt float32) {
	if s.DaySpeed == 0 {
		return
	}
	s.Longitude += s.DaySpeed * dt
	for s.Longitude >= 360 {
		s.Longitude -= 360
	}
}

// Direction returns the normalized direction pointing towards the sun.
func (s *Sun) Direction() math.Vec3 {
	lon := s.Longitude * math32.Pi / 180
	lat := s.Latitude * math32.Pi / 180

	return math.Vec3{
		X: math32.Cos(lat) * math32.Sin(lon),
		Y: math32.Sin(lat),
		Z: math32.Cos(lat) * math32.Cos(lon),
	}
}

// Intensity returns the diffuse light strength, fading as the sun
// approaches the horizon.
func (s *Sun) Intensity() float32 {
	elevation := s.Direction().Y
	if elevation <= 0 {
		return 0
	}
	return math32.Min(1, elevation*2)
}
