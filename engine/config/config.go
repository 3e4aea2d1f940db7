package config

import (
	"os"
	"time"

	"github.com/memmaker/marchingterrain/engine/util"
	"github.com/memmaker/marchingterrain/engine/voxel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Noise     Noise     `yaml:"noise"`
	Streaming Streaming `yaml:"streaming"`
	Edit      Edit      `yaml:"edit"`
	Tick      Tick      `yaml:"tick"`
	Storage   Storage   `yaml:"storage"`
	Journal   Journal   `yaml:"journal"`
	Export    Export    `yaml:"export"`
	Observer  Observer  `yaml:"observer"`
	Log       Log       `yaml:"log"`
}

type Noise struct {
	Seed          int64   `yaml:"seed"`
	DensityScale  float64 `yaml:"density_scale"`
	MaterialScale float64 `yaml:"material_scale"`
	Octaves       int     `yaml:"octaves"`
	Lacunarity    float64 `yaml:"lacunarity"`
	Persistence   float64 `yaml:"persistence"`
}

type Streaming struct {
	RenderDistance int32 `yaml:"render_distance"`
	SpawnPerTick   int   `yaml:"spawn_per_tick"`
	Workers        int   `yaml:"workers"`
}

type Edit struct {
	Radius      float32 `yaml:"radius"`
	MaxDistance float32 `yaml:"max_distance"`
	Material    string  `yaml:"material"`
}

type Tick struct {
	RateHz int `yaml:"rate_hz"`
	// Count limits the demo run; zero runs until interrupted.
	Count int `yaml:"count"`
}

type Storage struct {
	Path string `yaml:"path"`
}

type Journal struct {
	Path string `yaml:"path"`
}

type Export struct {
	Path string `yaml:"path"`
}

type Observer struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level      string   `yaml:"level"`
	Categories []string `yaml:"categories"`
}

func Defaults() Config {
	noise := voxel.DefaultNoiseSettings()
	return Config{
		Noise: Noise{
			Seed:          noise.Seed,
			DensityScale:  noise.DensityScale,
			MaterialScale: noise.MaterialScale,
			Octaves:       noise.Octaves,
			Lacunarity:    noise.Lacunarity,
			Persistence:   noise.Persistence,
		},
		Streaming: Streaming{RenderDistance: 2, SpawnPerTick: 1},
		Edit:      Edit{Radius: 1.5, MaxDistance: 100},
		Tick:      Tick{RateHz: 30},
		Log:       Log{Level: "info", Categories: []string{"all"}},
	}
}

// Load reads a YAML file over the defaults, so missing keys keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Noise.DensityScale <= 0 || c.Noise.MaterialScale <= 0:
		return errors.New("noise scales must be positive")
	case c.Noise.Octaves < 1:
		return errors.New("noise.octaves must be at least 1")
	case c.Streaming.RenderDistance < 0:
		return errors.New("streaming.render_distance must not be negative")
	case c.Streaming.SpawnPerTick < 1:
		return errors.New("streaming.spawn_per_tick must be at least 1")
	case c.Edit.Radius <= 0:
		return errors.New("edit.radius must be positive")
	case c.Edit.MaxDistance <= 0:
		return errors.New("edit.max_distance must be positive")
	case c.Tick.RateHz <= 0:
		return errors.New("tick.rate_hz must be positive")
	}
	if _, err := c.EditMaterial(); err != nil {
		return err
	}
	if _, err := util.ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := util.ParseLogCategories(c.Log.Categories); err != nil {
		return err
	}
	return nil
}

func (c Config) NoiseSettings() voxel.NoiseSettings {
	return voxel.NoiseSettings{
		Seed:          c.Noise.Seed,
		DensityScale:  c.Noise.DensityScale,
		MaterialScale: c.Noise.MaterialScale,
		Octaves:       c.Noise.Octaves,
		Lacunarity:    c.Noise.Lacunarity,
		Persistence:   c.Noise.Persistence,
	}
}

// EditMaterial is the material edits paint with, or nil to keep materials.
func (c Config) EditMaterial() (*voxel.Material, error) {
	if c.Edit.Material == "" {
		return nil, nil
	}
	material, ok := voxel.MaterialFromName(c.Edit.Material)
	if !ok {
		return nil, errors.Errorf("unknown edit material %q", c.Edit.Material)
	}
	return &material, nil
}

func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.Tick.RateHz)
}

// ApplyLogging sets the global log level and categories.
func (c Config) ApplyLogging() error {
	level, err := util.ParseLogLevel(c.Log.Level)
	if err != nil {
		return err
	}
	categories, err := util.ParseLogCategories(c.Log.Categories)
	if err != nil {
		return err
	}
	util.GLOBAL_LOG_LEVEL = level
	util.GLOBAL_LOG_CATEGORIES = categories
	return nil
}
