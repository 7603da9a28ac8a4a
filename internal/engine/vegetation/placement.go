// Package vegetation places trees across the terrain heightmap.
// Placement is deterministic per seed; rendering the instances is the
// scene's job.
package vegetation

import (
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"

	"github.com/Nuos/LoD/internal/engine/terrain"
	"github.com/Nuos/LoD/pkg/math"
)

// KindCount is the number of distinct tree models.
const KindCount = 2

// Instance is one placed tree: a model matrix positioning it in the
// world and a bounding sphere for culling and shadow fitting.
type Instance struct {
	Kind   int
	Model  math.Mat4
	Sphere math.Sphere
}

// Config controls the placement pass.
type Config struct {
	Seed     int64
	Spacing  int     // cell stride between candidate positions
	Density  float64 // noise threshold in [-1, 1]; lower places more trees
	MaxSlope float32 // max height difference across a cell
	Height   float32 // base tree height in world units
}

// DefaultConfig returns a placement that reads well on mid-size maps.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:     seed,
		Spacing:  8,
		Density:  0.1,
		MaxSlope: 2.5,
		Height:   8,
	}
}

// densityFrequency keeps forest clumps a few dozen cells wide.
const densityFrequency = 1.0 / 64.0

// Place scatters tree instances over the heightmap. Candidate cells on
// a Spacing grid are jittered, masked by low-frequency noise so trees
// form forests rather than an even carpet, and rejected on steep
// slopes.
func Place(hm *terrain.Heightmap, cfg Config) []Instance {
	if cfg.Spacing < 1 {
		cfg.Spacing = 1
	}

	noise := perlin.NewPerlin(2, 2, 3, cfg.Seed)
	rng := rand.New(rand.NewSource(cfg.Seed))

	var out []Instance
	for z := cfg.Spacing / 2; z < hm.H; z += cfg.Spacing {
		for x := cfg.Spacing / 2; x < hm.W; x += cfg.Spacing {
			// Jitter inside the cell so rows do not line up.
			fx := float32(x) + (rng.Float32()-0.5)*float32(cfg.Spacing)
			fz := float32(z) + (rng.Float32()-0.5)*float32(cfg.Spacing)

			if noise.Noise2D(float64(fx)*densityFrequency, float64(fz)*densityFrequency) < cfg.Density {
				continue
			}

			slope := math32.Max(
				math32.Abs(hm.HeightAt(fx+1, fz)-hm.HeightAt(fx-1, fz)),
				math32.Abs(hm.HeightAt(fx, fz+1)-hm.HeightAt(fx, fz-1)),
			) / 2
			if slope > cfg.MaxSlope {
				continue
			}

			h := hm.HeightAt(fx, fz)
			scale := cfg.Height * (0.8 + 0.4*rng.Float32())
			angle := rng.Float32() * 2 * math32.Pi

			model := math.Translate(fx, h, fz).
				Mul(math.RotateY(angle)).
				Mul(math.Scale(scale, scale, scale))

			out = append(out, Instance{
				Kind:  rng.Intn(KindCount),
				Model: model,
				Sphere: math.Sphere{
					Center: math.Vec3{X: fx, Y: h + scale/2, Z: fz},
					Radius: scale,
				},
			})
		}
	}
	return out
}
