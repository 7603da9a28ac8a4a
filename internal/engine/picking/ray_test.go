package picking

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Nuos/LoD/internal/engine/terrain"
	"github.com/Nuos/LoD/pkg/math"
)

func TestScreenToRayCenter(t *testing.T) {
	proj := math.Perspective(1.0, 16.0/9.0, 0.5, 1000)
	view := math.LookAt(math.Vec3{Y: 100}, math.Vec3{Z: -1, Y: 100}, math.Vec3{Y: 1})
	inv := proj.Mul(view).Inverse()

	// A ray through the viewport center goes straight down -Z.
	r := ScreenToRay(640, 360, 1280, 720, inv)

	if math32.Abs(r.Direction.X) > 1e-3 || math32.Abs(r.Direction.Y) > 1e-3 {
		t.Errorf("center ray not axis aligned: %+v", r.Direction)
	}
	if r.Direction.Z >= 0 {
		t.Errorf("center ray points backwards: %+v", r.Direction)
	}
}

func TestScreenToRayCorners(t *testing.T) {
	proj := math.Perspective(1.0, 1.0, 0.5, 1000)
	view := math.LookAt(math.Vec3{}, math.Vec3{Z: -1}, math.Vec3{Y: 1})
	inv := proj.Mul(view).Inverse()

	left := ScreenToRay(0, 300, 600, 600, inv)
	right := ScreenToRay(600, 300, 600, 600, inv)

	if left.Direction.X >= 0 {
		t.Errorf("left edge ray should point -X, got %+v", left.Direction)
	}
	if right.Direction.X <= 0 {
		t.Errorf("right edge ray should point +X, got %+v", right.Direction)
	}

	top := ScreenToRay(300, 0, 600, 600, inv)
	if top.Direction.Y <= 0 {
		t.Errorf("top edge ray should point +Y, got %+v", top.Direction)
	}
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{
		Origin:    math.Vec3{X: 10, Y: 50, Z: 10},
		Direction: math.Vec3{Y: -1},
	}

	p, ok := r.IntersectPlaneY(0)
	if !ok {
		t.Fatal("expected hit")
	}
	if p.X != 10 || p.Y != 0 || p.Z != 10 {
		t.Errorf("hit = %+v, want (10, 0, 10)", p)
	}

	// Parallel ray misses.
	flat := Ray{Origin: math.Vec3{Y: 50}, Direction: math.Vec3{X: 1}}
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray should miss")
	}

	// Plane behind the origin misses.
	up := Ray{Origin: math.Vec3{Y: 50}, Direction: math.Vec3{Y: 1}}
	if _, ok := up.IntersectPlaneY(0); ok {
		t.Error("plane behind origin should miss")
	}
}

func TestIntersectTerrain(t *testing.T) {
	// Flat terrain at height 20.
	hm := &terrain.Heightmap{W: 64, H: 64, Data: make([]float32, 64*64)}
	for i := range hm.Data {
		hm.Data[i] = 20
	}

	r := Ray{
		Origin:    math.Vec3{X: 32, Y: 100, Z: 32},
		Direction: math.Vec3{Y: -1},
	}

	p, ok := r.IntersectTerrain(hm, 200)
	if !ok {
		t.Fatal("expected terrain hit")
	}
	if math32.Abs(p.Y-20) > 0.1 {
		t.Errorf("hit height = %v, want ~20", p.Y)
	}
	if math32.Abs(p.X-32) > 0.1 || math32.Abs(p.Z-32) > 0.1 {
		t.Errorf("hit at (%v, %v), want (32, 32)", p.X, p.Z)
	}

	// Ray pointing away never hits.
	up := Ray{Origin: math.Vec3{X: 32, Y: 100, Z: 32}, Direction: math.Vec3{Y: 1}}
	if _, ok := up.IntersectTerrain(hm, 200); ok {
		t.Error("upward ray should miss")
	}

	// The march stops at maxDist even when the surface lies beyond it.
	if _, ok := r.IntersectTerrain(hm, 50); ok {
		t.Error("hit beyond maxDist should miss")
	}
}

func TestIntersectTerrainSlanted(t *testing.T) {
	// Ramp rising 1 unit per cell along x.
	hm := &terrain.Heightmap{W: 64, H: 64, Data: make([]float32, 64*64)}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			hm.Data[y*64+x] = float32(x)
		}
	}

	r := Ray{
		Origin:    math.Vec3{X: 0, Y: 30, Z: 32},
		Direction: math.Vec3{X: 1}.Normalize(),
	}

	p, ok := r.IntersectTerrain(hm, 100)
	if !ok {
		t.Fatal("expected ramp hit")
	}
	// Level ray at height 30 meets height(x)=x at x=30.
	if math32.Abs(p.X-30) > 0.5 {
		t.Errorf("hit x = %v, want ~30", p.X)
	}
	if math32.Abs(p.Y-30) > 0.5 {
		t.Errorf("hit y = %v, want ~30", p.Y)
	}
}
