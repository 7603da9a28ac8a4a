// Package shadow provides cascaded shadow mapping for directional
// light shadows. A CascadeStack owns one depth-texture array with one
// layer per cascade and hands out the crop matrices the main pass
// needs to sample them.
package shadow

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Nuos/LoD/pkg/math"
)

// ErrCascadeOverflow is returned by Push when every cascade layer is
// already in use. The caller may drop the least significant cascade;
// the stack never wraps or clamps on its own.
var ErrCascadeOverflow = errors.New("shadow: cascade stack overflow")

// ErrNotRecording is returned by Push outside a Begin/End pass.
var ErrNotRecording = errors.New("shadow: push outside begin/end")

// cursorState tracks where the stack is in its begin/push/end cycle.
type cursorState int

const (
	stateIdle cursorState = iota
	stateRecording
)

// cursor is the cascade allocation discipline, separate from the GPU
// resources so the state machine stands on its own.
type cursor struct {
	depth    int32
	maxDepth int32
	state    cursorState
}

func (c *cursor) begin() {
	c.depth = 0
	c.state = stateRecording
}

func (c *cursor) push() error {
	if c.state != stateRecording {
		return ErrNotRecording
	}
	if c.depth+1 >= c.maxDepth {
		return ErrCascadeOverflow
	}
	c.depth++
	return nil
}

func (c *cursor) end() {
	c.state = stateIdle
}

// CascadeStack manages the depth render targets of cascaded shadow
// mapping as a push/pop stack bounded by a fixed cascade count.
// Cascades are rendered strictly in Begin, Push..., End order each
// frame, before the main pass reads the results.
type CascadeStack struct {
	texture uint32   // depth texture array, one layer per cascade
	fbos    []uint32 // one depth-only framebuffer per layer

	crop    []math.Mat4
	mapSize int32
	cur     cursor

	// Window size restored by End; updated via Resize.
	viewportW, viewportH int32
}

// biasMatrix maps clip space [-1, 1] to texture space [0, 1] for
// shadow lookups.
var biasMatrix = math.Mat4{
	0.5, 0, 0, 0,
	0, 0.5, 0, 0,
	0, 0, 0.5, 0,
	0.5, 0.5, 0.5, 1,
}

// NewCascadeStack allocates mapSize-squared depth storage for maxDepth
// cascades. The allocation is fixed for the stack's lifetime.
func NewCascadeStack(mapSize, maxDepth int32) (*CascadeStack, error) {
	if mapSize <= 0 {
		return nil, fmt.Errorf("shadow map size must be positive, got %d", mapSize)
	}
	if maxDepth <= 0 {
		return nil, fmt.Errorf("shadow cascade count must be positive, got %d", maxDepth)
	}

	s := &CascadeStack{
		fbos:    make([]uint32, maxDepth),
		crop:    make([]math.Mat4, maxDepth),
		mapSize: mapSize,
		cur:     cursor{maxDepth: maxDepth},
	}

	gl.GenTextures(1, &s.texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, s.texture)
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.DEPTH_COMPONENT24,
		mapSize,
		mapSize,
		maxDepth,
		0,
		gl.DEPTH_COMPONENT,
		gl.FLOAT,
		nil,
	)

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	// Comparison mode for sampler2DArrayShadow
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(maxDepth, &s.fbos[0])
	for i := int32(0); i < maxDepth; i++ {
		gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbos[i])
		gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, s.texture, 0, i)

		// No color output in the cascade framebuffers, only depth.
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)

		if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
			s.Destroy()
			return nil, fmt.Errorf("cascade %d framebuffer incomplete: 0x%x", i, status)
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	return s, nil
}

// Resize records the window size End restores the viewport to.
func (s *CascadeStack) Resize(width, height int32) {
	s.viewportW = width
	s.viewportH = height
}

// Begin starts the cascade render phase on cascade 0: binds its
// framebuffer, sets the viewport and clears the depth buffer. Call
// exactly once per frame before any cascade rendering.
func (s *CascadeStack) Begin() {
	s.cur.begin()
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbos[0])
	gl.Viewport(0, 0, s.mapSize, s.mapSize)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// Push advances to the next cascade, binding and clearing its
// framebuffer. Returns ErrCascadeOverflow when all cascades are used;
// the current depth is left unchanged in that case.
func (s *CascadeStack) Push() error {
	if err := s.cur.push(); err != nil {
		return err
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbos[s.cur.depth])
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	return nil
}

// End leaves the cascade render phase: restores the default
// framebuffer and the window viewport.
func (s *CascadeStack) End() {
	s.cur.end()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, s.viewportW, s.viewportH)
}

// cascadeProjection is an orthographic projection fitted to a bounding
// sphere of the given radius: [-r, r] across and [0, 2r] deep.
func cascadeProjection(radius float32) math.Mat4 {
	return math.Ortho(-radius, radius, -radius, radius, 0, 2*radius)
}

// cascadeView looks at the sphere center from the light direction,
// offset by one radius so the whole sphere is in front of the camera.
func cascadeView(lightDir math.Vec3, sphere math.Sphere) math.Mat4 {
	eye := sphere.Center.Add(lightDir.Normalize().Scale(sphere.Radius))
	return math.LookAt(eye, sphere.Center, math.Vec3{X: 0, Y: 1, Z: 0})
}

// ComputeCascadeMatrices fits the current cascade to the target
// bounding sphere (given in model space, placed in the world by
// modelMatrix) as lit from lightDir. It stores the crop matrix for the
// main pass and returns the matrix for the depth-only render of this
// cascade.
func (s *CascadeStack) ComputeCascadeMatrices(lightDir math.Vec3, sphere math.Sphere, modelMatrix math.Mat4) math.Mat4 {
	proj := cascadeProjection(sphere.Radius)
	world := sphere.Transform(modelMatrix)

	pc := proj.Mul(cascadeView(lightDir, world))
	s.crop[s.cur.depth] = biasMatrix.Mul(pc)

	return pc.Mul(modelMatrix)
}

// Depth returns the current cascade cursor.
func (s *CascadeStack) Depth() int32 {
	return s.cur.depth
}

// MaxDepth returns the fixed cascade count.
func (s *CascadeStack) MaxDepth() int32 {
	return s.cur.maxDepth
}

// MapSize returns the cascade edge length in texels.
func (s *CascadeStack) MapSize() int32 {
	return s.mapSize
}

// CropMatrices returns the per-cascade bias * projection * view
// matrices, ordered by cascade, for the consuming shader. Read-only.
func (s *CascadeStack) CropMatrices() []math.Mat4 {
	return s.crop
}

// Texture returns the depth texture array handle for shadow sampling.
func (s *CascadeStack) Texture() uint32 {
	return s.texture
}

// BindTexture binds the cascade texture array to a texture unit for
// the main render pass.
func (s *CascadeStack) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, s.texture)
}

// Destroy releases the GPU resources.
func (s *CascadeStack) Destroy() {
	if len(s.fbos) > 0 && s.fbos[0] != 0 {
		gl.DeleteFramebuffers(int32(len(s.fbos)), &s.fbos[0])
		for i := range s.fbos {
			s.fbos[i] = 0
		}
	}
	if s.texture != 0 {
		gl.DeleteTextures(1, &s.texture)
		s.texture = 0
	}
}
