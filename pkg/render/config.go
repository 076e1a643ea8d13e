package render

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/softrast/pkg/math3d"
	"gopkg.in/yaml.v3"
)

// DepthMode selects what the depth buffer stores.
type DepthMode string

const (
	// DepthReciprocal stores the barycentric blend of 1/w, which is linear in
	// screen space and larger for nearer surfaces.
	DepthReciprocal DepthMode = "reciprocal"
	// DepthSigmoid stores 1 − sigmoid(blended NDC z).
	DepthSigmoid DepthMode = "sigmoid"
)

// Config holds the renderer options.
type Config struct {
	Wireframe      bool        `yaml:"wireframe"`       // Draw edges only
	ClearColour    Color       `yaml:"clear_colour"`    // Frame clear color
	FieldOfView    float64     `yaml:"field_of_view"`   // Vertical FOV in radians
	ZNear          float64     `yaml:"z_near"`          // Near clip distance
	ZFar           float64     `yaml:"z_far"`           // Far clip distance
	LightDirection math3d.Vec3 `yaml:"light_direction"` // Direction the light travels
	DepthMode      DepthMode   `yaml:"depth_mode"`      // Depth buffer contents
	DisableCulling bool        `yaml:"disable_culling"` // Render both sides of triangles
}

// DefaultConfig returns the default options: filled rendering, opaque black
// clear color and a 90° field of view.
func DefaultConfig() Config {
	return Config{
		Wireframe:      false,
		ClearColour:    ColorBlack,
		FieldOfView:    math.Pi / 2,
		ZNear:          1e-5,
		ZFar:           1e5,
		LightDirection: math3d.V3(-1, -0.5, -0.25),
		DepthMode:      DepthReciprocal,
	}
}

// WireframeConfig returns DefaultConfig with wireframe rendering enabled.
func WireframeConfig() Config {
	cfg := DefaultConfig()
	cfg.Wireframe = true
	return cfg
}

// Validate checks the options that the camera does not check itself.
func (c Config) Validate() error {
	if c.LightDirection.LenSq() == 0 {
		return errors.New("light direction must be non-zero")
	}
	switch c.DepthMode {
	case DepthReciprocal, DepthSigmoid:
	default:
		return fmt.Errorf("unknown depth mode %q", c.DepthMode)
	}
	return validateProjection(1, c.FieldOfView, c.ZNear, c.ZFar)
}

// ParseConfig decodes YAML over DefaultConfig, so omitted keys keep their
// defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}
