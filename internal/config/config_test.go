package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Terrain.GridDimension%2 != 0 {
		t.Errorf("default grid dimension %d must be even", cfg.Terrain.GridDimension)
	}
	if cfg.Terrain.Levels < 1 {
		t.Errorf("default levels %d must be positive", cfg.Terrain.Levels)
	}
	if cfg.Terrain.Heightmap != "" {
		t.Errorf("expected procedural terrain by default, got %q", cfg.Terrain.Heightmap)
	}

	if !cfg.Shadow.Enabled {
		t.Error("expected shadows enabled by default")
	}
	if cfg.Shadow.MapSize != 1024 {
		t.Errorf("expected shadow map size 1024, got %d", cfg.Shadow.MapSize)
	}
	if cfg.Shadow.Cascades != 4 {
		t.Errorf("expected 4 cascades, got %d", cfg.Shadow.Cascades)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

terrain:
  heightmap: "maps/alps.png"
  height_scale: 120.5
  grid_dimension: 128
  levels: 6
  leaf_range: 200

shadow:
  enabled: false
  map_size: 2048
  cascades: 6

logging:
  level: "debug"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("graphics not loaded: %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen || cfg.Graphics.VSync {
		t.Error("graphics booleans not loaded")
	}

	if cfg.Terrain.Heightmap != "maps/alps.png" {
		t.Errorf("heightmap not loaded: %q", cfg.Terrain.Heightmap)
	}
	if cfg.Terrain.HeightScale != 120.5 {
		t.Errorf("height scale not loaded: %v", cfg.Terrain.HeightScale)
	}
	if cfg.Terrain.GridDimension != 128 || cfg.Terrain.Levels != 6 {
		t.Errorf("LOD settings not loaded: dim %d levels %d", cfg.Terrain.GridDimension, cfg.Terrain.Levels)
	}

	if cfg.Shadow.Enabled || cfg.Shadow.MapSize != 2048 || cfg.Shadow.Cascades != 6 {
		t.Errorf("shadow settings not loaded: %+v", cfg.Shadow)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("log level not loaded: %q", cfg.Logging.Level)
	}

	// Unset fields keep their defaults.
	if cfg.Terrain.Size != 1024 {
		t.Errorf("terrain size should keep default 1024, got %d", cfg.Terrain.Size)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 800
	cfg.Terrain.Seed = 1234
	cfg.Shadow.Cascades = 2

	path := filepath.Join(t.TempDir(), "saved", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if loaded.Graphics.Width != 800 || loaded.Terrain.Seed != 1234 || loaded.Shadow.Cascades != 2 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}
