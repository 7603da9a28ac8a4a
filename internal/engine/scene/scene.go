package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Nuos/LoD/internal/config"
	"github.com/Nuos/LoD/internal/engine/camera"
	"github.com/Nuos/LoD/internal/engine/lighting"
	"github.com/Nuos/LoD/internal/engine/picking"
	"github.com/Nuos/LoD/internal/engine/shadow"
	"github.com/Nuos/LoD/internal/engine/terrain"
	"github.com/Nuos/LoD/internal/engine/vegetation"
	"github.com/Nuos/LoD/pkg/math"
)

// cascadeRangeRatio is the radius growth between consecutive shadow
// cascades.
const cascadeRangeRatio = 3.0

// Scene owns the demo world: the terrain quadtree, the vegetation and
// the shadow cascades, plus the renderers that draw them.
type Scene struct {
	log *zap.Logger

	heightmap *terrain.Heightmap
	quadtree  *terrain.QuadTree
	grid      *terrain.GridMesh

	terrainR *TerrainRenderer
	treeR    *TreeRenderer
	cascades *shadow.CascadeStack

	sun   *lighting.Sun
	trees []vegetation.Instance

	overlay     *patchOverlay
	showOverlay bool

	// cascadeRadii holds the camera-centred bounding sphere radius of
	// each cascade, nearest first.
	cascadeRadii []float32
}

// New builds the scene from the configuration. The heightmap comes
// from the configured PNG when set, otherwise it is generated from the
// seed.
func New(cfg *config.Config, log *zap.Logger) (*Scene, error) {
	s := &Scene{log: log}

	var err error
	if cfg.Terrain.Heightmap != "" {
		s.heightmap, err = terrain.LoadHeightmap(cfg.Terrain.Heightmap, cfg.Terrain.HeightScale)
		if err != nil {
			return nil, fmt.Errorf("load heightmap: %w", err)
		}
		log.Info("loaded heightmap",
			zap.String("path", cfg.Terrain.Heightmap),
			zap.Int("width", s.heightmap.W),
			zap.Int("height", s.heightmap.H))
	} else {
		s.heightmap = terrain.GenerateHeightmap(cfg.Terrain.Size, cfg.Terrain.Size, cfg.Terrain.Seed, cfg.Terrain.HeightScale)
		log.Info("generated heightmap",
			zap.Int64("seed", cfg.Terrain.Seed),
			zap.Int("size", cfg.Terrain.Size))
	}

	s.grid, err = terrain.BuildGridMesh(cfg.Terrain.GridDimension)
	if err != nil {
		return nil, fmt.Errorf("grid mesh: %w", err)
	}

	s.quadtree, err = terrain.BuildQuadTree(s.heightmap, cfg.Terrain.GridDimension, cfg.Terrain.Levels, cfg.Terrain.LeafRange)
	if err != nil {
		return nil, fmt.Errorf("quadtree: %w", err)
	}

	s.terrainR, err = NewTerrainRenderer(s.grid)
	if err != nil {
		return nil, err
	}
	s.terrainR.LoadTerrain(s.heightmap, cfg.Terrain.HeightScale)

	s.sun = lighting.NewSun()

	s.overlay, err = newPatchOverlay(cfg.Terrain.GridDimension, cfg.Terrain.HeightScale)
	if err != nil {
		return nil, err
	}

	if cfg.Terrain.Trees {
		s.treeR, err = NewTreeRenderer()
		if err != nil {
			return nil, err
		}
		s.trees = vegetation.Place(s.heightmap, vegetation.DefaultConfig(cfg.Terrain.Seed))
		log.Info("placed vegetation", zap.Int("count", len(s.trees)))
	}

	if cfg.Shadow.Enabled {
		cascades := cfg.Shadow.Cascades
		if cascades > MaxCascades {
			log.Warn("clamping cascade count", zap.Int32("requested", cascades), zap.Int32("max", MaxCascades))
			cascades = MaxCascades
		}
		s.cascades, err = shadow.NewCascadeStack(cfg.Shadow.MapSize, cascades)
		if err != nil {
			return nil, fmt.Errorf("shadow cascades: %w", err)
		}

		s.cascadeRadii = make([]float32, cascades)
		radius := cfg.Terrain.LeafRange
		for i := range s.cascadeRadii {
			s.cascadeRadii[i] = radius
			radius *= cascadeRangeRatio
		}
	}

	return s, nil
}

// Heightmap exposes the loaded terrain, e.g. for placing the camera.
func (s *Scene) Heightmap() *terrain.Heightmap {
	return s.heightmap
}

// Update advances time-dependent state.
func (s *Scene) Update(dt float32) {
	s.sun.Update(dt)
}

// Resize keeps the cascade stack's restore viewport current.
func (s *Scene) Resize(width, height int32) {
	if s.cascades != nil {
		s.cascades.Resize(width, height)
	}
}

// Render draws one frame from the camera: the shadow pass over every
// cascade, then the main pass sampling them.
func (s *Scene) Render(cam *camera.OrbitCamera) {
	frustum := cam.Frustum()
	patches := s.quadtree.Select(cam.Position(), &frustum)

	sunDir := s.sun.Direction()
	sunIntensity := s.sun.Intensity()

	if s.cascades != nil && sunIntensity > 0 {
		s.renderShadowPass(cam, patches, sunDir)
	}

	projection := cam.ProjectionMatrix()
	view := cam.ViewMatrix()

	cascades := s.cascades
	if cascades != nil && sunIntensity <= 0 {
		cascades = nil
	}
	s.terrainR.Draw(patches, projection, view, sunDir, sunIntensity, cascades)

	if s.treeR != nil {
		s.treeR.Draw(s.trees, projection.Mul(view), frustum, sunDir, sunIntensity)
	}

	if s.showOverlay {
		s.overlay.Draw(patches, projection.Mul(view))
	}
}

// ToggleOverlay flips the LOD wireframe overlay.
func (s *Scene) ToggleOverlay() {
	s.showOverlay = !s.showOverlay
	s.log.Info("lod overlay", zap.Bool("visible", s.showOverlay))
}

// PickTerrain casts a ray through the given screen pixel and returns
// the terrain point it hits.
func (s *Scene) PickTerrain(cam *camera.OrbitCamera, screenX, screenY, viewportW, viewportH float32) (math.Vec3, bool) {
	inv := cam.ProjectionMatrix().Mul(cam.ViewMatrix()).Inverse()
	ray := picking.ScreenToRay(screenX, screenY, viewportW, viewportH, inv)
	return ray.IntersectTerrain(s.heightmap, cam.Far*2)
}

// renderShadowPass fills every cascade layer. Cascade spheres are
// centred on the camera target with geometrically growing radii, so
// near geometry gets the densest texels.
func (s *Scene) renderShadowPass(cam *camera.OrbitCamera, patches []terrain.Patch, sunDir math.Vec3) {
	gl.Enable(gl.DEPTH_TEST)

	s.cascades.Begin()
	for i, radius := range s.cascadeRadii {
		if i > 0 {
			if err := s.cascades.Push(); err != nil {
				s.log.Error("cascade push", zap.Error(err))
				break
			}
		}

		sphere := math.Sphere{Center: cam.Center, Radius: radius}
		mcp := s.cascades.ComputeCascadeMatrices(sunDir, sphere, math.Identity())

		s.terrainR.DrawDepth(patches, mcp)
		if s.treeR != nil {
			s.treeR.DrawDepth(s.trees, mcp)
		}
	}
	s.cascades.End()
}

// Destroy releases the scene's GPU resources.
func (s *Scene) Destroy() {
	if s.terrainR != nil {
		s.terrainR.Destroy()
	}
	if s.treeR != nil {
		s.treeR.Destroy()
	}
	if s.cascades != nil {
		s.cascades.Destroy()
	}
	if s.overlay != nil {
		s.overlay.Destroy()
	}
}
