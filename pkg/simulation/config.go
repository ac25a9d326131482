package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/clock"
	"github.com/lao-tseu-is-alive/go-boids-clock/pkg/flock"
)

// ErrInvalidConfig is returned when a config file does not match the schema
// or holds values that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.schema.json
var configSchema string

type Config struct {
	// Canvas (initial window size, the drivers follow resizes)
	CanvasWidth  float64 `json:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight"`

	// Timing
	FPS         int    `json:"fps"`
	EpochMillis int    `json:"epochMillis"`
	TimeLayout  string `json:"timeLayout"`

	// Boids
	MaxSpeed           float64 `json:"maxSpeed"`
	MaxForce           float64 `json:"maxForce"`
	SeparationDistance float64 `json:"separationDistance"`
	AlignmentDistance  float64 `json:"alignmentDistance"`
	CohesionDistance   float64 `json:"cohesionDistance"`
	SeparationWeight   float64 `json:"separationWeight"`
	AlignmentWeight    float64 `json:"alignmentWeight"`
	CohesionWeight     float64 `json:"cohesionWeight"`
	InitialSpeed       float64 `json:"initialSpeed"`
	UpdateMode         string  `json:"updateMode"` // "sequential" or "simultaneous"

	// Rendering
	GlyphSize       float64 `json:"glyphSize"`
	GlyphColor      string  `json:"glyphColor"`
	BackgroundColor string  `json:"backgroundColor"`

	ShowConnections        bool    `json:"showConnections"`
	ConnectionMaxDistance  float64 `json:"connectionMaxDistance"`
	ConnectionMinThickness float64 `json:"connectionMinThickness"`
	ConnectionMaxThickness float64 `json:"connectionMaxThickness"`
	ConnectionMinOpacity   float64 `json:"connectionMinOpacity"`

	Trail         bool    `json:"trail"`
	TrailFrames   int     `json:"trailFrames"`
	TrailResidual float64 `json:"trailResidual"`
}

func DefaultConfig() *Config {
	t := flock.DefaultTuning()
	cs := flock.DefaultConnectionStyle()
	return &Config{
		CanvasWidth:            1000,
		CanvasHeight:           700,
		FPS:                    10,
		EpochMillis:            1000,
		TimeLayout:             clock.DefaultLayout,
		MaxSpeed:               t.MaxSpeed,
		MaxForce:               t.MaxForce,
		SeparationDistance:     t.SeparationDistance,
		AlignmentDistance:      t.AlignmentDistance,
		CohesionDistance:       t.CohesionDistance,
		SeparationWeight:       t.SeparationWeight,
		AlignmentWeight:        t.AlignmentWeight,
		CohesionWeight:         t.CohesionWeight,
		InitialSpeed:           1,
		UpdateMode:             flock.Sequential.String(),
		GlyphSize:              16,
		GlyphColor:             "#000000",
		BackgroundColor:        "#ffffff",
		ShowConnections:        true,
		ConnectionMaxDistance:  cs.MaxDistance,
		ConnectionMinThickness: cs.MinThickness,
		ConnectionMaxThickness: cs.MaxThickness,
		ConnectionMinOpacity:   cs.MinOpacity,
		Trail:                  true,
		TrailFrames:            20,
		TrailResidual:          0.05,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, validates it against
// the embedded schema and applies it over DefaultConfig. Fields missing from
// the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if isYAML(configFile) {
		if raw, err = yamlToJSON(raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config json: %v", ErrInvalidConfig, err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// 4. Unmarshal over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config yaml: %w", err)
	}
	if v == nil {
		v = map[string]interface{}{}
	}
	return json.Marshal(v)
}

// Validate checks the cross-field constraints the schema cannot express.
func (c *Config) Validate() error {
	if c.ConnectionMinThickness > c.ConnectionMaxThickness {
		return fmt.Errorf("%w: connectionMinThickness %v above connectionMaxThickness %v",
			ErrInvalidConfig, c.ConnectionMinThickness, c.ConnectionMaxThickness)
	}
	if _, err := flock.ParseUpdateMode(c.UpdateMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.GlyphRGBA(); err != nil {
		return err
	}
	if _, err := c.BackgroundRGBA(); err != nil {
		return err
	}
	return nil
}

// Tuning returns the per-boid constants.
func (c *Config) Tuning() flock.Tuning {
	return flock.Tuning{
		MaxSpeed:           c.MaxSpeed,
		MaxForce:           c.MaxForce,
		SeparationDistance: c.SeparationDistance,
		AlignmentDistance:  c.AlignmentDistance,
		CohesionDistance:   c.CohesionDistance,
		SeparationWeight:   c.SeparationWeight,
		AlignmentWeight:    c.AlignmentWeight,
		CohesionWeight:     c.CohesionWeight,
	}
}

// ConnectionStyle returns the overlay constants.
func (c *Config) ConnectionStyle() flock.ConnectionStyle {
	return flock.ConnectionStyle{
		MaxDistance:  c.ConnectionMaxDistance,
		MinThickness: c.ConnectionMinThickness,
		MaxThickness: c.ConnectionMaxThickness,
		MinOpacity:   c.ConnectionMinOpacity,
	}
}

// Mode returns the parsed update mode, Sequential when it cannot be parsed.
func (c *Config) Mode() flock.UpdateMode {
	m, _ := flock.ParseUpdateMode(c.UpdateMode)
	return m
}

// Epoch returns the reseed period.
func (c *Config) Epoch() time.Duration {
	return time.Duration(c.EpochMillis) * time.Millisecond
}

// TrailAlpha returns the per-frame wash opacity.
func (c *Config) TrailAlpha() float64 {
	return clock.TrailAlpha(c.TrailFrames, c.TrailResidual)
}

// GlyphRGBA parses GlyphColor.
func (c *Config) GlyphRGBA() (color.RGBA, error) {
	return parseHex("glyphColor", c.GlyphColor)
}

// BackgroundRGBA parses BackgroundColor.
func (c *Config) BackgroundRGBA() (color.RGBA, error) {
	return parseHex("backgroundColor", c.BackgroundColor)
}

func parseHex(field, hex string) (color.RGBA, error) {
	col, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, field, err)
	}
	r, g, b := col.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
