// Package scene renders the CDLOD terrain demo: terrain patches,
// vegetation and cascaded shadows.
package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Nuos/LoD/internal/engine/scene/shaders"
	"github.com/Nuos/LoD/internal/engine/shader"
	"github.com/Nuos/LoD/internal/engine/shadow"
	"github.com/Nuos/LoD/internal/engine/terrain"
	"github.com/Nuos/LoD/pkg/math"
)

// MaxCascades is the cascade count limit shared with the shaders
// (uShadowCP array size).
const MaxCascades = 8

// TerrainRenderer draws selected quadtree patches with the shared grid
// mesh. Height displacement happens in the vertex shader from the
// heightmap texture, so every patch reuses the same vertex buffer.
type TerrainRenderer struct {
	program      uint32
	depthProgram uint32

	// Main pass uniforms
	locProjection  int32
	locView        int32
	locPatchOffset int32
	locPatchScale  int32
	locHeightmap   int32
	locTerrainSize int32
	locHeightScale int32
	locSunDir      int32
	locSunInt      int32
	locShadowCP    int32
	locNumShadow   int32
	locShadowMap   int32

	// Depth pass uniforms
	locDepthMCP         int32
	locDepthPatchOffset int32
	locDepthPatchScale  int32
	locDepthHeightmap   int32
	locDepthTerrainSize int32

	// Grid mesh on the GPU
	vao  uint32
	vbo  uint32
	ebo  uint32
	grid *terrain.GridMesh

	heightmapTex       uint32
	terrainW, terrainH int32
	heightScale        float32
}

// NewTerrainRenderer compiles the terrain programs and uploads the
// grid mesh.
func NewTerrainRenderer(grid *terrain.GridMesh) (*TerrainRenderer, error) {
	tr := &TerrainRenderer{grid: grid}

	program, err := shader.CompileProgram(shaders.TerrainVertexShader, shaders.TerrainFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}
	tr.program = program

	depthProgram, err := shader.CompileProgram(shaders.TerrainDepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("terrain depth shader: %w", err)
	}
	tr.depthProgram = depthProgram

	tr.locProjection = shader.GetUniform(program, "uProjection")
	tr.locView = shader.GetUniform(program, "uView")
	tr.locPatchOffset = shader.GetUniform(program, "uPatchOffset")
	tr.locPatchScale = shader.GetUniform(program, "uPatchScale")
	tr.locHeightmap = shader.GetUniform(program, "uHeightmap")
	tr.locTerrainSize = shader.GetUniform(program, "uTerrainSize")
	tr.locHeightScale = shader.GetUniform(program, "uHeightScale")
	tr.locSunDir = shader.GetUniform(program, "uSunDir")
	tr.locSunInt = shader.GetUniform(program, "uSunIntensity")
	tr.locShadowCP = shader.GetUniform(program, "uShadowCP")
	tr.locNumShadow = shader.GetUniform(program, "uNumUsedShadowMaps")
	tr.locShadowMap = shader.GetUniform(program, "uShadowMap")

	tr.locDepthMCP = shader.GetUniform(depthProgram, "uMCP")
	tr.locDepthPatchOffset = shader.GetUniform(depthProgram, "uPatchOffset")
	tr.locDepthPatchScale = shader.GetUniform(depthProgram, "uPatchScale")
	tr.locDepthHeightmap = shader.GetUniform(depthProgram, "uHeightmap")
	tr.locDepthTerrainSize = shader.GetUniform(depthProgram, "uTerrainSize")

	tr.uploadGridMesh()

	return tr, nil
}

// uploadGridMesh creates the VAO with the shared patch topology.
// The mesh is immutable for the renderer's lifetime.
func (tr *TerrainRenderer) uploadGridMesh() {
	gl.GenVertexArrays(1, &tr.vao)
	gl.BindVertexArray(tr.vao)

	gl.GenBuffers(1, &tr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(tr.grid.Positions)*4, unsafe.Pointer(&tr.grid.Positions[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.SHORT, false, 4, 0)

	gl.GenBuffers(1, &tr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, tr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(tr.grid.Indices)*2, unsafe.Pointer(&tr.grid.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// LoadTerrain uploads the heightmap as a single-channel float texture
// sampled by both terrain programs.
func (tr *TerrainRenderer) LoadTerrain(hm *terrain.Heightmap, heightScale float32) {
	if tr.heightmapTex != 0 {
		gl.DeleteTextures(1, &tr.heightmapTex)
	}

	tr.terrainW = int32(hm.W)
	tr.terrainH = int32(hm.H)
	tr.heightScale = heightScale

	gl.GenTextures(1, &tr.heightmapTex)
	gl.BindTexture(gl.TEXTURE_2D, tr.heightmapTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R32F, tr.terrainW, tr.terrainH, 0, gl.RED, gl.FLOAT, unsafe.Pointer(&hm.Data[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// drawPatches issues the per-patch draw calls. Each patch renders as
// at most two glDrawElements thanks to the contiguous sub-quad layout.
func (tr *TerrainRenderer) drawPatches(patches []terrain.Patch, locOffset, locScale int32) {
	gl.BindVertexArray(tr.vao)
	for _, p := range patches {
		gl.Uniform2f(locOffset, p.X, p.Z)
		gl.Uniform1f(locScale, p.Scale)

		for _, run := range tr.grid.Runs(p.BL, p.BR, p.TL, p.TR) {
			gl.DrawElementsWithOffset(gl.TRIANGLES, int32(run.Count), gl.UNSIGNED_SHORT, uintptr(run.First*2))
		}
	}
	gl.BindVertexArray(0)
}

// Draw renders the patches in the main pass, sampling the cascade
// depth array written earlier this frame. cascades may be nil when
// shadows are disabled.
func (tr *TerrainRenderer) Draw(patches []terrain.Patch, projection, view math.Mat4, sunDir math.Vec3, sunIntensity float32, cascades *shadow.CascadeStack) {
	gl.UseProgram(tr.program)

	gl.UniformMatrix4fv(tr.locProjection, 1, false, projection.Ptr())
	gl.UniformMatrix4fv(tr.locView, 1, false, view.Ptr())
	gl.Uniform2f(tr.locTerrainSize, float32(tr.terrainW), float32(tr.terrainH))
	gl.Uniform1f(tr.locHeightScale, tr.heightScale)
	gl.Uniform3f(tr.locSunDir, sunDir.X, sunDir.Y, sunDir.Z)
	gl.Uniform1f(tr.locSunInt, sunIntensity)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.heightmapTex)
	gl.Uniform1i(tr.locHeightmap, 0)

	if cascades != nil {
		crops := cascades.CropMatrices()
		used := cascades.Depth() + 1
		gl.UniformMatrix4fv(tr.locShadowCP, used, false, crops[0].Ptr())
		gl.Uniform1i(tr.locNumShadow, used)

		cascades.BindTexture(gl.TEXTURE1)
		gl.Uniform1i(tr.locShadowMap, 1)
	} else {
		gl.Uniform1i(tr.locNumShadow, 0)
	}

	tr.drawPatches(patches, tr.locPatchOffset, tr.locPatchScale)
}

// DrawDepth renders the patches into the current shadow cascade with
// the matrix returned by ComputeCascadeMatrices.
func (tr *TerrainRenderer) DrawDepth(patches []terrain.Patch, mcp math.Mat4) {
	gl.UseProgram(tr.depthProgram)

	gl.UniformMatrix4fv(tr.locDepthMCP, 1, false, mcp.Ptr())
	gl.Uniform2f(tr.locDepthTerrainSize, float32(tr.terrainW), float32(tr.terrainH))

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.heightmapTex)
	gl.Uniform1i(tr.locDepthHeightmap, 0)

	tr.drawPatches(patches, tr.locDepthPatchOffset, tr.locDepthPatchScale)
}

// Destroy releases the GPU resources.
func (tr *TerrainRenderer) Destroy() {
	if tr.vao != 0 {
		gl.DeleteVertexArrays(1, &tr.vao)
		tr.vao = 0
	}
	if tr.vbo != 0 {
		gl.DeleteBuffers(1, &tr.vbo)
		tr.vbo = 0
	}
	if tr.ebo != 0 {
		gl.DeleteBuffers(1, &tr.ebo)
		tr.ebo = 0
	}
	if tr.heightmapTex != 0 {
		gl.DeleteTextures(1, &tr.heightmapTex)
		tr.heightmapTex = 0
	}
	if tr.program != 0 {
		gl.DeleteProgram(tr.program)
		tr.program = 0
	}
	if tr.depthProgram != 0 {
		gl.DeleteProgram(tr.depthProgram)
		tr.depthProgram = 0
	}
}
