// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TerrainVertexShader is the vertex shader for terrain rendering.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader is the fragment shader for terrain rendering.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// TerrainDepthVertexShader is the terrain vertex shader for the shadow
// depth pass.
//
//go:embed terrain_depth.vert
var TerrainDepthVertexShader string

// DepthFragmentShader is the no-op fragment shader for depth-only
// passes.
//
//go:embed depth.frag
var DepthFragmentShader string

// LineVertexShader is the vertex shader for debug line rendering.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for debug line rendering.
//
//go:embed line.frag
var LineFragmentShader string

// TreeVertexShader is the vertex shader for tree rendering.
//
//go:embed tree.vert
var TreeVertexShader string

// TreeFragmentShader is the fragment shader for tree rendering.
//
//go:embed tree.frag
var TreeFragmentShader string
