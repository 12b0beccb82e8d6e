// Package config loads the YAML geometry file consumed by nurbsctl,
// validates it against an embedded JSON schema and converts it into kernel
// values. Environment variables override logging and storage settings.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pqminh27/nurbs"
	nmake "github.com/pqminh27/nurbs/make"

	"github.com/ungerik/go3d/float64/vec3"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

const (
	PresetTriangleCircle = "triangle-circle"
	PresetQuarterCone    = "quarter-cone"
)

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type StoreConfig struct {
	// sqlite database of last valid results; empty disables the store
	Path string `yaml:"path"`
}

type ControlPoint struct {
	X float64  `yaml:"x"`
	Y float64  `yaml:"y"`
	Z float64  `yaml:"z"`
	W *float64 `yaml:"w"` // nil means 1
}

type CurveConfig struct {
	Name    string         `yaml:"name"`
	Preset  string         `yaml:"preset"`
	Center  []float64      `yaml:"center"`
	Radius  float64        `yaml:"radius"`
	Degree  int            `yaml:"degree"`
	Knots   []float64      `yaml:"knots"`
	Points  []ControlPoint `yaml:"points"`
	Samples int            `yaml:"samples"`
	Dim     int            `yaml:"dim"`
}

type GridConfig struct {
	N int `yaml:"n"`
	M int `yaml:"m"`
}

type SurfaceConfig struct {
	Name      string      `yaml:"name"`
	Preset    string      `yaml:"preset"`
	Center    []float64   `yaml:"center"`
	Radius    float64     `yaml:"radius"`
	Height    float64     `yaml:"height"`
	Arc       [][]float64 `yaml:"arc"`
	Apex      []float64   `yaml:"apex"`
	Grid      GridConfig  `yaml:"grid"`
	Workers   int         `yaml:"workers"`
	Normalize *bool       `yaml:"normalize"` // nil keeps the default
}

// Config is one geometry file. config_version: bump when the structure
// changes in a backward-incompatible way.
type Config struct {
	ConfigVersion int           `yaml:"config_version"`
	Logging       LoggingConfig `yaml:"logging"`
	Store         StoreConfig   `yaml:"store"`
	Curve         CurveConfig   `yaml:"curve"`
	Surface       SurfaceConfig `yaml:"surface"`
}

// Defaults returns the configuration used for every field a file leaves
// out: the triangle-circle curve and the quarter-cone surface.
func Defaults() Config {
	return Config{
		ConfigVersion: 1,
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Store:         StoreConfig{Path: ""},
		Curve: CurveConfig{
			Name:    "circle",
			Preset:  PresetTriangleCircle,
			Center:  []float64{0, 0},
			Radius:  1,
			Samples: 100,
			Dim:     2,
		},
		Surface: SurfaceConfig{
			Name:      "cone",
			Preset:    PresetQuarterCone,
			Center:    []float64{0, 0},
			Radius:    1,
			Height:    5,
			Grid:      GridConfig{N: 10, M: 20},
			Normalize: ptr(true),
		},
	}
}

// Env var names used as overrides.
const (
	EnvLogLevel  = "NURBS_LOG_LEVEL"
	EnvLogFormat = "NURBS_LOG_FORMAT"
	EnvLogSource = "NURBS_LOG_SOURCE"
	EnvLogFile   = "NURBS_LOG_FILE"
	EnvStorePath = "NURBS_STORE_PATH"
)

// ValidationError lists every schema violation of a configuration file.
type ValidationError struct {
	Path       string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %d schema violation(s): %s", e.Path, len(e.Violations), strings.Join(e.Violations, "; "))
}

// Load reads path, validates it, and merges it over Defaults. Environment
// overrides are applied last. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		fileCfg, err := Parse(path, data)
		if err != nil {
			return cfg, err
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Parse validates YAML data against the schema and decodes it. name only
// labels errors.
func Parse(name string, data []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", name, err)
	}
	if doc == nil {
		return Config{}, nil
	}

	if err := Validate(name, doc); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", name, err)
	}
	return cfg, nil
}

// Validate checks a decoded YAML or JSON document against the embedded
// schema and reports all violations at once.
func Validate(name string, doc any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate config %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Path: name}
	for _, e := range result.Errors() {
		verr.Violations = append(verr.Violations, e.String())
	}
	return verr
}

func mergeInto(dst *Config, src *Config) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}

	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
	if v := strings.TrimSpace(src.Store.Path); v != "" {
		dst.Store.Path = v
	}

	c, sc := &dst.Curve, &src.Curve
	if sc.Name != "" {
		c.Name = sc.Name
	}
	if len(sc.Points) > 0 {
		// explicit geometry replaces the preset
		c.Preset = ""
		c.Points, c.Degree, c.Knots = sc.Points, sc.Degree, sc.Knots
	}
	if sc.Preset != "" {
		c.Preset = sc.Preset
	}
	if len(sc.Center) == 2 {
		c.Center = sc.Center
	}
	if sc.Radius != 0 {
		c.Radius = sc.Radius
	}
	if sc.Samples != 0 {
		c.Samples = sc.Samples
	}
	if sc.Dim != 0 {
		c.Dim = sc.Dim
	}

	s, ss := &dst.Surface, &src.Surface
	if ss.Name != "" {
		s.Name = ss.Name
	}
	if len(ss.Arc) > 0 {
		s.Preset = ""
		s.Arc, s.Apex = ss.Arc, ss.Apex
	}
	if ss.Preset != "" {
		s.Preset = ss.Preset
	}
	if len(ss.Center) == 2 {
		s.Center = ss.Center
	}
	if ss.Radius != 0 {
		s.Radius = ss.Radius
	}
	if ss.Height != 0 {
		s.Height = ss.Height
	}
	if ss.Grid.N != 0 {
		s.Grid.N = ss.Grid.N
	}
	if ss.Grid.M != 0 {
		s.Grid.M = ss.Grid.M
	}
	if ss.Workers != 0 {
		s.Workers = ss.Workers
	}
	if ss.Normalize != nil {
		s.Normalize = ptr(*ss.Normalize)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorePath)); v != "" {
		cfg.Store.Path = v
	}
}

var errNoGeometry = errors.New("neither a preset nor explicit geometry is set")

// Build converts the curve section into a kernel curve.
func (c CurveConfig) Build() (*nurbs.NurbsCurve, error) {
	switch {
	case c.Preset == PresetTriangleCircle:
		return nmake.TriangleCircle(c.Center[0], c.Center[1], c.Radius)
	case len(c.Points) > 0:
		kv, err := nurbs.NewKnotVector(c.Degree, len(c.Points), c.Knots)
		if err != nil {
			return nil, err
		}

		points := make([]nurbs.ControlPoint, len(c.Points))
		for i, p := range c.Points {
			w := 1.0
			if p.W != nil {
				w = *p.W
			}
			points[i] = nurbs.Pt(p.X, p.Y, p.Z, w)
		}
		return nurbs.NewNurbsCurve(points, kv)
	}
	return nil, fmt.Errorf("curve %q: %w", c.Name, errNoGeometry)
}

// Build converts the surface section into a sectorial surface.
func (s SurfaceConfig) Build() (*nurbs.SectorialSurface, error) {
	switch {
	case s.Preset == PresetQuarterCone:
		return nmake.QuarterCone(s.Center[0], s.Center[1], s.Radius, s.Height)
	case len(s.Arc) == 3 && len(s.Apex) == 3:
		var arc [3]vec3.T
		for i, p := range s.Arc {
			arc[i] = vec3.T{p[0], p[1], p[2]}
		}
		return nurbs.NewSectorialSurface(arc, vec3.T{s.Apex[0], s.Apex[1], s.Apex[2]})
	}
	return nil, fmt.Errorf("surface %q: %w", s.Name, errNoGeometry)
}

// BuildGrid returns the validated sampling grid.
func (s SurfaceConfig) BuildGrid() (nurbs.Grid, error) {
	return nurbs.NewGrid(s.Grid.N, s.Grid.M)
}

// TessellateOptions maps the surface section onto kernel options.
func (s SurfaceConfig) TessellateOptions() nurbs.TessellateOptions {
	return nurbs.TessellateOptions{Workers: s.Workers, NormalizeNormals: s.Normalize != nil && *s.Normalize}
}

func ptr[T any](v T) *T { return &v }
