package terrain

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"
)

// Heightmap is a row-major grid of terrain heights in world units.
type Heightmap struct {
	W, H int
	Data []float32
}

// LoadHeightmap reads a grayscale PNG and scales its samples to
// [0, heightScale] world units. 16-bit images keep their full
// precision.
func LoadHeightmap(path string, heightScale float32) (*Heightmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening heightmap: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding heightmap %s: %w", path, err)
	}

	b := img.Bounds()
	hm := &Heightmap{
		W:    b.Dx(),
		H:    b.Dy(),
		Data: make([]float32, b.Dx()*b.Dy()),
	}

	gray := image.NewGray16(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}

	for y := 0; y < hm.H; y++ {
		for x := 0; x < hm.W; x++ {
			v := gray.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			hm.Data[y*hm.W+x] = float32(v) / 65535.0 * heightScale
		}
	}

	return hm, nil
}

// Octave frequencies for procedural generation: a low-frequency base
// shape with higher-frequency detail layered on top.
const (
	genBaseFrequency   = 1.0 / 256.0
	genDetailFrequency = 1.0 / 48.0
)

// GenerateHeightmap builds a procedural heightmap from layered perlin
// noise. The same seed always produces the same terrain.
func GenerateHeightmap(w, h int, seed int64, heightScale float32) *Heightmap {
	base := perlin.NewPerlin(2.0, 2.0, 4, seed)
	detail := perlin.NewPerlin(1.8, 2.5, 3, seed+1)

	hm := &Heightmap{W: w, H: h, Data: make([]float32, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x), float64(y)
			v := base.Noise2D(fx*genBaseFrequency, fy*genBaseFrequency)
			v += 0.25 * detail.Noise2D(fx*genDetailFrequency, fy*genDetailFrequency)

			// Noise is roughly [-1.25, 1.25]; remap to [0, 1].
			n := float32(v)/2.5 + 0.5
			hm.Data[y*w+x] = math32.Max(0, math32.Min(1, n)) * heightScale
		}
	}
	return hm
}

// Valid reports whether the cell coordinate is inside the map.
func (h *Heightmap) Valid(x, y int) bool {
	return 0 <= x && x < h.W && 0 <= y && y < h.H
}

// At returns the height at a cell, clamping coordinates to the edge.
func (h *Heightmap) At(x, y int) float32 {
	if x < 0 {
		x = 0
	} else if x >= h.W {
		x = h.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= h.H {
		y = h.H - 1
	}
	return h.Data[y*h.W+x]
}

// HeightAt returns the bilinearly interpolated height at a fractional
// cell coordinate.
func (h *Heightmap) HeightAt(x, y float32) float32 {
	fx := math32.Floor(x)
	fy := math32.Floor(y)
	cx := math32.Ceil(x)
	cy := math32.Ceil(y)

	tx := x - fx
	ty := y - fy

	fh := lerp(h.At(int(fx), int(fy)), h.At(int(cx), int(fy)), tx)
	ch := lerp(h.At(int(fx), int(cy)), h.At(int(cx), int(cy)), tx)

	return lerp(fh, ch, ty)
}

// MinMaxOfArea returns the lowest and highest sample in the w x hh cell
// area centered on (x, y). Returns (0, 0) when the area lies entirely
// outside the map.
func (h *Heightmap) MinMaxOfArea(x, y, w, hh int) (min, max float32) {
	found := false
	for j := y - hh/2; j <= y+hh/2; j++ {
		for i := x - w/2; i <= x+w/2; i++ {
			if !h.Valid(i, j) {
				continue
			}
			v := h.Data[j*h.W+i]
			if !found {
				min, max = v, v
				found = true
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	return min, max
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
