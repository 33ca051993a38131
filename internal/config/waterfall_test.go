package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyWaterfallConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg := EmptyWaterfallConfig()

	assert.Equal(t, 1.0, cfg.GetShadeScale())
	assert.Equal(t, 1.0, cfg.GetZoom())
	assert.Equal(t, 45.0, cfg.GetLightAzimuthDeg())
	assert.Equal(t, 30.0, cfg.GetLightElevationDeg())
	assert.Equal(t, 5.0, cfg.GetBlendElevationDeg())
	assert.Equal(t, runtime.NumCPU(), cfg.GetWorkers())
	assert.Equal(t, "", cfg.GetPalette())
	assert.Equal(t, 0, cfg.GetMaxRecords())
	assert.Equal(t, 5, cfg.GetMinENUSamples())
	assert.Equal(t, 10000, cfg.GetProgressEvery())
}

func TestDefaultWaterfallConfig_PopulatesPointers(t *testing.T) {
	t.Parallel()
	cfg := DefaultWaterfallConfig()

	require.NotNil(t, cfg.ShadeScale)
	require.NotNil(t, cfg.LightElevationDeg)
	require.NotNil(t, cfg.MinENUSamples)
	assert.Equal(t, 30.0, *cfg.LightElevationDeg)
	assert.Equal(t, 5, *cfg.MinENUSamples)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWaterfallConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "render.json")
	testJSON := `{
  "shade_scale": 2.5,
  "zoom": 3,
  "palette": "haxby",
  "palette_colors": [[0, 0, 128], [255, 255, 255]],
  "max_records": 500
}`
	require.NoError(t, os.WriteFile(path, []byte(testJSON), 0644))

	cfg, err := LoadWaterfallConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.GetShadeScale())
	assert.Equal(t, 3.0, cfg.GetZoom())
	assert.Equal(t, "haxby", cfg.GetPalette())
	assert.Equal(t, 500, cfg.GetMaxRecords())
	assert.Equal(t, [][3]int{{0, 0, 128}, {255, 255, 255}}, cfg.PaletteColors)
	// Unset fields fall back to defaults
	assert.Equal(t, 45.0, cfg.GetLightAzimuthDeg())
}

func TestLoadWaterfallConfig_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		t.Parallel()
		_, err := LoadWaterfallConfig(filepath.Join(dir, "render.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".json extension")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadWaterfallConfig(filepath.Join(dir, "missing.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat")
	})

	t.Run("bad json", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := LoadWaterfallConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "large.json")
		big := `{"palette": "` + strings.Repeat("x", 1024*1024) + `"}`
		require.NoError(t, os.WriteFile(path, []byte(big), 0644))
		_, err := LoadWaterfallConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"zoom": -1}`), 0644))
		_, err := LoadWaterfallConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()
	neg := -1.0
	big := 120.0
	negInt := -3
	zero := 0

	cases := []struct {
		name string
		cfg  WaterfallConfig
		msg  string
	}{
		{"shade", WaterfallConfig{ShadeScale: &neg}, "shade_scale"},
		{"zoom", WaterfallConfig{Zoom: &neg}, "zoom"},
		{"azimuth", WaterfallConfig{LightAzimuthDeg: &neg}, "light_azimuth_deg"},
		{"elevation", WaterfallConfig{LightElevationDeg: &big}, "light_elevation_deg"},
		{"blend", WaterfallConfig{BlendElevationDeg: &neg}, "blend_elevation_deg"},
		{"workers", WaterfallConfig{Workers: &negInt}, "workers"},
		{"max records", WaterfallConfig{MaxRecords: &negInt}, "max_records"},
		{"enu samples", WaterfallConfig{MinENUSamples: &zero}, "min_enu_samples"},
		{"progress", WaterfallConfig{ProgressEvery: &negInt}, "progress_every"},
		{"palette colour", WaterfallConfig{PaletteColors: [][3]int{{0, 300, 0}}}, "palette_colors"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := MustLoadDefaultConfig()
	assert.Equal(t, 30.0, cfg.GetLightElevationDeg())
	assert.Equal(t, 5.0, cfg.GetBlendElevationDeg())
	assert.Equal(t, 5, cfg.GetMinENUSamples())
}
