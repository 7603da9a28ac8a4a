// Package config handles demo configuration loading and management.
package config

// Config holds all demo settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// TerrainConfig holds terrain source and LOD settings.
type TerrainConfig struct {
	// Heightmap is a grayscale PNG path; empty generates procedural
	// terrain from Seed.
	Heightmap string `yaml:"heightmap"`
	Seed      int64  `yaml:"seed"`

	// Size is the generated map edge length in cells.
	Size        int     `yaml:"size"`
	HeightScale float32 `yaml:"height_scale"`

	// GridDimension is the patch mesh resolution in cells (even).
	GridDimension int `yaml:"grid_dimension"`
	// Levels is the quadtree depth.
	Levels int `yaml:"levels"`
	// LeafRange is the distance within which full detail is used.
	LeafRange float32 `yaml:"leaf_range"`

	Trees bool `yaml:"trees"`
}

// ShadowConfig holds cascaded shadow map settings.
type ShadowConfig struct {
	Enabled  bool  `yaml:"enabled"`
	MapSize  int32 `yaml:"map_size"`
	Cascades int32 `yaml:"cascades"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Terrain: TerrainConfig{
			Heightmap:     "",
			Seed:          1,
			Size:          1024,
			HeightScale:   80,
			GridDimension: 64,
			Levels:        5,
			LeafRange:     120,
			Trees:         true,
		},
		Shadow: ShadowConfig{
			Enabled:  true,
			MapSize:  1024,
			Cascades: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
