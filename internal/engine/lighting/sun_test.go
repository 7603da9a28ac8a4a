package lighting

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestSunDirectionNormalized(t *testing.T) {
	s := NewSun()
	d := s.Direction()

	if math32.Abs(d.Length()-1) > 1e-5 {
		t.Errorf("direction length = %v, want 1", d.Length())
	}
	if d.Y <= 0 {
		t.Errorf("default sun below horizon: %+v", d)
	}
}

func TestSunIntensity(t *testing.T) {
	overhead := &Sun{Latitude: 90}
	if got := overhead.Intensity(); got != 1 {
		t.Errorf("overhead intensity = %v, want 1", got)
	}

	set := &Sun{Latitude: -10}
	if got := set.Intensity(); got != 0 {
		t.Errorf("below-horizon intensity = %v, want 0", got)
	}

	low := &Sun{Latitude: 10}
	if got := low.Intensity(); got <= 0 || got >= 1 {
		t.Errorf("low sun intensity = %v, want in (0, 1)", got)
	}
}

func TestSunUpdateWraps(t *testing.T) {
	s := &Sun{Longitude: 350, DaySpeed: 10}
	s.Update(2)

	if s.Longitude < 0 || s.Longitude >= 360 {
		t.Errorf("longitude = %v, want wrapped into [0, 360)", s.Longitude)
	}

	fixed := &Sun{Longitude: 40}
	fixed.Update(100)
	if fixed.Longitude != 40 {
		t.Errorf("fixed sun moved to %v", fixed.Longitude)
	}
}
