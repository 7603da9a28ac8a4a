package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Nuos/LoD/internal/engine/debug"
	"github.com/Nuos/LoD/internal/engine/scene/shaders"
	"github.com/Nuos/LoD/internal/engine/shader"
	"github.com/Nuos/LoD/internal/engine/terrain"
	"github.com/Nuos/LoD/pkg/math"
)

// levelColors cycle per LOD level for the debug overlay, level 0
// first.
var levelColors = [][3]float32{
	{1.0, 0.2, 0.2},
	{1.0, 0.8, 0.2},
	{0.2, 1.0, 0.2},
	{0.2, 0.8, 1.0},
	{0.6, 0.3, 1.0},
	{1.0, 0.4, 0.8},
}

// patchOverlay draws a wireframe box around every selected patch,
// colored by LOD level.
type patchOverlay struct {
	program     uint32
	locViewProj int32
	locColor    int32

	vao      uint32
	vbo      uint32
	capacity int

	meshDim     int
	heightScale float32

	verts []float32
}

func newPatchOverlay(meshDim int, heightScale float32) (*patchOverlay, error) {
	o := &patchOverlay{meshDim: meshDim, heightScale: heightScale}

	program, err := shader.CompileProgram(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	o.program = program
	o.locViewProj = shader.GetUniform(program, "uViewProj")
	o.locColor = shader.GetUniform(program, "uColor")

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 12, 0)
	gl.BindVertexArray(0)

	return o, nil
}

// Draw renders one wireframe batch per LOD level present in the
// selection.
func (o *patchOverlay) Draw(patches []terrain.Patch, viewProj math.Mat4) {
	gl.UseProgram(o.program)
	gl.UniformMatrix4fv(o.locViewProj, 1, false, viewProj.Ptr())
	gl.BindVertexArray(o.vao)

	maxLevel := 0
	for _, p := range patches {
		if p.Level > maxLevel {
			maxLevel = p.Level
		}
	}

	for level := 0; level <= maxLevel; level++ {
		o.verts = o.verts[:0]
		for _, p := range patches {
			if p.Level != level {
				continue
			}
			o.verts = append(o.verts, debug.PatchWireframeVertices(p, o.meshDim, 0, o.heightScale)...)
		}
		if len(o.verts) == 0 {
			continue
		}

		gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
		if len(o.verts) > o.capacity {
			o.capacity = len(o.verts)
			gl.BufferData(gl.ARRAY_BUFFER, o.capacity*4, nil, gl.DYNAMIC_DRAW)
		}
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(o.verts)*4, unsafe.Pointer(&o.verts[0]))

		c := levelColors[level%len(levelColors)]
		gl.Uniform3f(o.locColor, c[0], c[1], c[2])
		gl.DrawArrays(gl.LINES, 0, int32(len(o.verts)/3))
	}

	gl.BindVertexArray(0)
}

func (o *patchOverlay) Destroy() {
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
		gl.DeleteBuffers(1, &o.vbo)
		o.vao = 0
		o.vbo = 0
	}
	if o.program != 0 {
		gl.DeleteProgram(o.program)
		o.program = 0
	}
}
