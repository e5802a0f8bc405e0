// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Map      MapConfig      `yaml:"map"`
	Camera   CameraConfig   `yaml:"camera"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	ShowFPS    bool `yaml:"show_fps"`
}

// MapConfig holds map rendering settings.
type MapConfig struct {
	DataPath string `yaml:"data_path"` // Path to the JSON map file

	// Zoom thresholds driving LOD selection: zoom >= HighDetailZoom
	// renders full detail, zoom >= MediumDetailZoom renders medium,
	// anything below renders low detail.
	HighDetailZoom   float32 `yaml:"high_detail_zoom"`
	MediumDetailZoom float32 `yaml:"medium_detail_zoom"`

	// AttributeRowWidth is the fixed row width of the region attribute
	// textures; texture height grows with the region count.
	AttributeRowWidth int `yaml:"attribute_row_width"`

	// CullExpansion scales the viewport rectangle used for predictive
	// culling (1.0 disables the expansion).
	CullExpansion float32 `yaml:"cull_expansion"`
}

// CameraConfig holds camera movement settings.
type CameraConfig struct {
	MinZoom  float32 `yaml:"min_zoom"`
	MaxZoom  float32 `yaml:"max_zoom"`
	PanSpeed float32 `yaml:"pan_speed"` // World units per second at zoom 1
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
			ShowFPS:    false,
		},
		Map: MapConfig{
			DataPath:          "data/map.json",
			HighDetailZoom:    4.0,
			MediumDetailZoom:  1.0,
			AttributeRowWidth: 256,
			CullExpansion:     1.2,
		},
		Camera: CameraConfig{
			MinZoom:  0.1,
			MaxZoom:  16.0,
			PanSpeed: 300.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
