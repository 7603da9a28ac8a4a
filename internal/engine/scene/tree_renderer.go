package scene

import (
	"fmt"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Nuos/LoD/internal/engine/scene/shaders"
	"github.com/Nuos/LoD/internal/engine/shader"
	"github.com/Nuos/LoD/internal/engine/vegetation"
	"github.com/Nuos/LoD/pkg/math"
)

// treeMesh is one tree variant on the GPU: interleaved position and
// normal, drawn as plain triangles.
type treeMesh struct {
	vao         uint32
	vbo         uint32
	vertexCount int32
	color       math.Vec3
}

// TreeRenderer draws placed vegetation instances. Trees are simple
// generated solids so the demo needs no model assets.
type TreeRenderer struct {
	program      uint32
	depthProgram uint32

	locViewProj int32
	locModel    int32
	locSunDir   int32
	locSunInt   int32
	locColor    int32

	locDepthViewProj int32
	locDepthModel    int32

	meshes [vegetation.KindCount]treeMesh
}

// NewTreeRenderer compiles the tree programs and builds one mesh per
// tree kind.
func NewTreeRenderer() (*TreeRenderer, error) {
	r := &TreeRenderer{}

	program, err := shader.CompileProgram(shaders.TreeVertexShader, shaders.TreeFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tree shader: %w", err)
	}
	r.program = program

	depthProgram, err := shader.CompileProgram(shaders.TreeVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tree depth shader: %w", err)
	}
	r.depthProgram = depthProgram

	r.locViewProj = shader.GetUniform(program, "uViewProj")
	r.locModel = shader.GetUniform(program, "uModel")
	r.locSunDir = shader.GetUniform(program, "uSunDir")
	r.locSunInt = shader.GetUniform(program, "uSunIntensity")
	r.locColor = shader.GetUniform(program, "uColor")

	r.locDepthViewProj = shader.GetUniform(depthProgram, "uViewProj")
	r.locDepthModel = shader.GetUniform(depthProgram, "uModel")

	// Conifer: tall narrow cone. Broadleaf: squat wide cone.
	r.meshes[0] = uploadTreeMesh(buildConeMesh(0.12, 1.0, 8), math.Vec3{X: 0.10, Y: 0.35, Z: 0.12})
	r.meshes[1] = uploadTreeMesh(buildConeMesh(0.35, 0.7, 6), math.Vec3{X: 0.22, Y: 0.42, Z: 0.10})

	return r, nil
}

// buildConeMesh generates a unit-height cone with its base on y=0,
// interleaved as position xyz, normal xyz.
func buildConeMesh(radius, height float32, segments int) []float32 {
	apex := math.Vec3{Y: height}
	verts := make([]float32, 0, segments*2*6*3)

	rim := func(i int) math.Vec3 {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		return math.Vec3{X: radius * math32.Cos(a), Z: radius * math32.Sin(a)}
	}

	push := func(p, n math.Vec3) {
		verts = append(verts, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	}

	for i := 0; i < segments; i++ {
		a, b := rim(i), rim(i+1)

		// Side triangle, flat normal from the face
		n := b.Sub(a).Cross(apex.Sub(a)).Normalize()
		push(a, n)
		push(apex, n)
		push(b, n)

		// Base triangle facing down
		down := math.Vec3{Y: -1}
		push(a, down)
		push(b, down)
		push(math.Vec3{}, down)
	}
	return verts
}

func uploadTreeMesh(verts []float32, color math.Vec3) treeMesh {
	m := treeMesh{vertexCount: int32(len(verts) / 6), color: color}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 24, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 24, 12)

	gl.BindVertexArray(0)
	return m
}

// Draw renders the visible instances in the main pass.
func (r *TreeRenderer) Draw(instances []vegetation.Instance, viewProj math.Mat4, frustum math.Frustum, sunDir math.Vec3, sunIntensity float32) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.locSunDir, sunDir.X, sunDir.Y, sunDir.Z)
	gl.Uniform1f(r.locSunInt, sunIntensity)

	r.drawInstances(instances, r.locModel, &frustum, true)
}

// DrawDepth renders the instances into the current shadow cascade.
// Trees are cheap enough that the depth pass skips culling.
func (r *TreeRenderer) DrawDepth(instances []vegetation.Instance, lightViewProj math.Mat4) {
	gl.UseProgram(r.depthProgram)
	gl.UniformMatrix4fv(r.locDepthViewProj, 1, false, lightViewProj.Ptr())

	r.drawInstances(instances, r.locDepthModel, nil, false)
}

func (r *TreeRenderer) drawInstances(instances []vegetation.Instance, locModel int32, frustum *math.Frustum, colored bool) {
	bound := -1
	for i := range instances {
		inst := &instances[i]
		if frustum != nil && !frustum.IntersectsSphere(inst.Sphere) {
			continue
		}

		if inst.Kind != bound {
			bound = inst.Kind
			m := &r.meshes[bound]
			gl.BindVertexArray(m.vao)
			if colored {
				gl.Uniform3f(r.locColor, m.color.X, m.color.Y, m.color.Z)
			}
		}

		gl.UniformMatrix4fv(locModel, 1, false, inst.Model.Ptr())
		gl.DrawArrays(gl.TRIANGLES, 0, r.meshes[bound].vertexCount)
	}
	gl.BindVertexArray(0)
}

// Destroy releases the GPU resources.
func (r *TreeRenderer) Destroy() {
	for i := range r.meshes {
		if r.meshes[i].vao != 0 {
			gl.DeleteVertexArrays(1, &r.meshes[i].vao)
			gl.DeleteBuffers(1, &r.meshes[i].vbo)
			r.meshes[i] = treeMesh{}
		}
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	if r.depthProgram != 0 {
		gl.DeleteProgram(r.depthProgram)
		r.depthProgram = 0
	}
}
