package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nuos/LoD/internal/engine/terrain"
)

func TestGenerateBBoxWireframeVertices(t *testing.T) {
	verts := GenerateBBoxWireframeVertices(0, 0, 0, 1, 2, 3)

	if len(verts) != BBoxWireframeVertexCount*3 {
		t.Fatalf("len = %d, want %d", len(verts), BBoxWireframeVertexCount*3)
	}

	// Every coordinate must sit on a box corner.
	for i := 0; i < len(verts); i += 3 {
		x, y, z := verts[i], verts[i+1], verts[i+2]
		if (x != 0 && x != 1) || (y != 0 && y != 2) || (z != 0 && z != 3) {
			t.Errorf("vertex %d = (%v, %v, %v) not on a corner", i/3, x, y, z)
		}
	}
}

func TestPatchWireframeVertices(t *testing.T) {
	p := terrain.Patch{X: 100, Z: 200, Scale: 2}
	verts := PatchWireframeVertices(p, 64, 0, 50)

	minX, maxX := verts[0], verts[0]
	minZ, maxZ := verts[2], verts[2]
	for i := 0; i < len(verts); i += 3 {
		if verts[i] < minX {
			minX = verts[i]
		}
		if verts[i] > maxX {
			maxX = verts[i]
		}
		if verts[i+2] < minZ {
			minZ = verts[i+2]
		}
		if verts[i+2] > maxZ {
			maxZ = verts[i+2]
		}
	}

	// 64-cell mesh at scale 2 spans 128 units centred on the patch.
	if minX != 36 || maxX != 164 {
		t.Errorf("x span [%v, %v], want [36, 164]", minX, maxX)
	}
	if minZ != 136 || maxZ != 264 {
		t.Errorf("z span [%v, %v], want [136, 264]", minZ, maxZ)
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "test")

	// 2x2 image: bottom row red, top row blue in GL order.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}

	path, err := sc.CaptureFromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatalf("CaptureFromPixels: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path %q not under %q", path, dir)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Top row of the PNG must be the blue GL top row.
	r, _, b, _ := img.At(0, 0).RGBA()
	if r != 0 || b != 0xffff {
		t.Errorf("top-left = (%d, %d), want blue", r, b)
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r != 0xffff || b != 0 {
		t.Errorf("bottom-left = (%d, %d), want red", r, b)
	}
}

func TestCaptureFromPixelsSizeMismatch(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "test")
	if _, err := sc.CaptureFromPixels(make([]byte, 3), 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
