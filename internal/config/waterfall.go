package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultConfigPath is the path to the canonical render defaults file.
const DefaultConfigPath = "config/waterfall.defaults.json"

// WaterfallConfig holds the parameters used when reading a survey log and
// rendering its waterfall. Every field is optional; the Get* methods supply
// the defaults for fields that are not set so partial files are safe.
type WaterfallConfig struct {
	// Rendering
	ShadeScale        *float64 `json:"shade_scale,omitempty"`
	Zoom              *float64 `json:"zoom,omitempty"`
	LightAzimuthDeg   *float64 `json:"light_azimuth_deg,omitempty"`
	LightElevationDeg *float64 `json:"light_elevation_deg,omitempty"`
	BlendElevationDeg *float64 `json:"blend_elevation_deg,omitempty"`
	Workers           *int     `json:"workers,omitempty"`

	// Palette: a built-in name, or inline control colours (0-255 RGB).
	Palette       *string  `json:"palette,omitempty"`
	PaletteColors [][3]int `json:"palette_colors,omitempty"`

	// Reading
	MaxRecords    *int `json:"max_records,omitempty"`
	MinENUSamples *int `json:"min_enu_samples,omitempty"`
	ProgressEvery *int `json:"progress_every,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

// EmptyWaterfallConfig returns a WaterfallConfig with all fields unset.
func EmptyWaterfallConfig() *WaterfallConfig {
	return &WaterfallConfig{}
}

// DefaultWaterfallConfig returns a WaterfallConfig with every field populated
// from the built-in defaults.
func DefaultWaterfallConfig() *WaterfallConfig {
	c := EmptyWaterfallConfig()
	return &WaterfallConfig{
		ShadeScale:        ptrFloat64(c.GetShadeScale()),
		Zoom:              ptrFloat64(c.GetZoom()),
		LightAzimuthDeg:   ptrFloat64(c.GetLightAzimuthDeg()),
		LightElevationDeg: ptrFloat64(c.GetLightElevationDeg()),
		BlendElevationDeg: ptrFloat64(c.GetBlendElevationDeg()),
		Workers:           ptrInt(c.GetWorkers()),
		Palette:           ptrString(c.GetPalette()),
		MaxRecords:        ptrInt(c.GetMaxRecords()),
		MinENUSamples:     ptrInt(c.GetMinENUSamples()),
		ProgressEvery:     ptrInt(c.GetProgressEvery()),
	}
}

// LoadWaterfallConfig loads a WaterfallConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadWaterfallConfig(path string) (*WaterfallConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyWaterfallConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents. Panics if the file cannot
// be loaded; intended for test setup.
func MustLoadDefaultConfig() *WaterfallConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,          // from internal/config/
		"../../../" + DefaultConfigPath,       // from internal/multibeam/survey/
		"../../../../" + DefaultConfigPath,    // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadWaterfallConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *WaterfallConfig) Validate() error {
	if c.ShadeScale != nil && *c.ShadeScale <= 0 {
		return fmt.Errorf("shade_scale must be positive, got %f", *c.ShadeScale)
	}
	if c.Zoom != nil && *c.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %f", *c.Zoom)
	}
	if c.LightAzimuthDeg != nil && (*c.LightAzimuthDeg < 0 || *c.LightAzimuthDeg > 360) {
		return fmt.Errorf("light_azimuth_deg must be between 0 and 360, got %f", *c.LightAzimuthDeg)
	}
	for name, v := range map[string]*float64{
		"light_elevation_deg": c.LightElevationDeg,
		"blend_elevation_deg": c.BlendElevationDeg,
	} {
		if v != nil && (*v < 0 || *v > 90) {
			return fmt.Errorf("%s must be between 0 and 90, got %f", name, *v)
		}
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.MaxRecords != nil && *c.MaxRecords < 0 {
		return fmt.Errorf("max_records must be non-negative, got %d", *c.MaxRecords)
	}
	if c.MinENUSamples != nil && *c.MinENUSamples < 1 {
		return fmt.Errorf("min_enu_samples must be at least 1, got %d", *c.MinENUSamples)
	}
	if c.ProgressEvery != nil && *c.ProgressEvery < 0 {
		return fmt.Errorf("progress_every must be non-negative, got %d", *c.ProgressEvery)
	}
	for i, rgb := range c.PaletteColors {
		for _, v := range rgb {
			if v < 0 || v > 255 {
				return fmt.Errorf("palette_colors[%d] component %d out of range 0-255", i, v)
			}
		}
	}
	return nil
}

// GetShadeScale returns the shade_scale value or the default.
func (c *WaterfallConfig) GetShadeScale() float64 {
	if c.ShadeScale == nil {
		return 1.0
	}
	return *c.ShadeScale
}

// GetZoom returns the zoom value or the default.
func (c *WaterfallConfig) GetZoom() float64 {
	if c.Zoom == nil {
		return 1.0
	}
	return *c.Zoom
}

// GetLightAzimuthDeg returns the light_azimuth_deg value or the default.
func (c *WaterfallConfig) GetLightAzimuthDeg() float64 {
	if c.LightAzimuthDeg == nil {
		return 45.0
	}
	return *c.LightAzimuthDeg
}

// GetLightElevationDeg returns the light_elevation_deg value or the default
// used for grayscale relief.
func (c *WaterfallConfig) GetLightElevationDeg() float64 {
	if c.LightElevationDeg == nil {
		return 30.0
	}
	return *c.LightElevationDeg
}

// GetBlendElevationDeg returns the blend_elevation_deg value or the default
// used when the relief is subtracted from a palette image.
func (c *WaterfallConfig) GetBlendElevationDeg() float64 {
	if c.BlendElevationDeg == nil {
		return 5.0
	}
	return *c.BlendElevationDeg
}

// GetWorkers returns the render worker count. Zero or unset means one
// worker per CPU.
func (c *WaterfallConfig) GetWorkers() int {
	if c.Workers == nil || *c.Workers == 0 {
		return runtime.NumCPU()
	}
	return *c.Workers
}

// GetPalette returns the palette name. The empty string selects grayscale.
func (c *WaterfallConfig) GetPalette() string {
	if c.Palette == nil {
		return ""
	}
	return *c.Palette
}

// GetMaxRecords returns the max_records value. Zero means no limit.
func (c *WaterfallConfig) GetMaxRecords() int {
	if c.MaxRecords == nil {
		return 0
	}
	return *c.MaxRecords
}

// GetMinENUSamples returns the number of navigation samples required before
// local coordinates are reported.
func (c *WaterfallConfig) GetMinENUSamples() int {
	if c.MinENUSamples == nil {
		return 5
	}
	return *c.MinENUSamples
}

// GetProgressEvery returns how many records pass between progress messages.
func (c *WaterfallConfig) GetProgressEvery() int {
	if c.ProgressEvery == nil {
		return 10000
	}
	return *c.ProgressEvery
}
