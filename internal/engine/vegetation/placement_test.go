package vegetation

import (
	"testing"

	"github.com/Nuos/LoD/internal/engine/terrain"
)

func TestPlaceDeterministic(t *testing.T) {
	hm := terrain.GenerateHeightmap(128, 128, 3, 20)
	cfg := DefaultConfig(99)

	a := Place(hm, cfg)
	b := Place(hm, cfg)

	if len(a) == 0 {
		t.Fatal("no trees placed")
	}
	if len(a) != len(b) {
		t.Fatalf("same seed placed %d then %d trees", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("instance %d differs between runs", i)
		}
	}
}

func TestPlaceStaysOnTerrain(t *testing.T) {
	hm := terrain.GenerateHeightmap(128, 128, 3, 20)
	trees := Place(hm, DefaultConfig(7))

	for _, tr := range trees {
		c := tr.Sphere.Center
		if c.X < 0 || c.X >= float32(hm.W) || c.Z < 0 || c.Z >= float32(hm.H) {
			t.Fatalf("tree outside the map at %v", c)
		}
		if tr.Kind < 0 || tr.Kind >= KindCount {
			t.Fatalf("invalid tree kind %d", tr.Kind)
		}

		// Trunk base sits on the terrain surface.
		ground := hm.HeightAt(c.X, c.Z)
		if y := tr.Model[13]; y != ground {
			t.Fatalf("tree base at height %v, terrain at %v", y, ground)
		}
	}
}

func TestPlaceRejectsSteepSlopes(t *testing.T) {
	// A cliff: left half at 0, right half at 100.
	hm := &terrain.Heightmap{W: 64, H: 64, Data: make([]float32, 64*64)}
	for y := 0; y < 64; y++ {
		for x := 32; x < 64; x++ {
			hm.Data[y*64+x] = 100
		}
	}

	cfg := DefaultConfig(5)
	cfg.Density = -1 // place everywhere the slope allows
	trees := Place(hm, cfg)

	if len(trees) == 0 {
		t.Fatal("no trees placed on flat ground")
	}
	for _, tr := range trees {
		x := tr.Sphere.Center.X
		if x > 30.2 && x < 32.8 {
			t.Fatalf("tree placed on the cliff edge at x=%v", x)
		}
	}
}
