package render

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/softrast/pkg/math3d"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Wireframe {
		t.Error("default config should render filled")
	}
	if cfg.ClearColour != ColorBlack {
		t.Errorf("ClearColour = %v, want opaque black", cfg.ClearColour)
	}
	if cfg.FieldOfView != math.Pi/2 {
		t.Errorf("FieldOfView = %v, want π/2", cfg.FieldOfView)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if !WireframeConfig().Wireframe {
		t.Error("WireframeConfig().Wireframe = false")
	}
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
wireframe: true
clear_colour: {r: 10, g: 20, b: 30, a: 255}
field_of_view: 1.2
z_near: 0.5
z_far: 500
light_direction: {x: 0, y: 0, z: 1}
depth_mode: sigmoid
disable_culling: true
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig() error: %v", err)
	}

	want := Config{
		Wireframe:      true,
		ClearColour:    RGB(10, 20, 30),
		FieldOfView:    1.2,
		ZNear:          0.5,
		ZFar:           500,
		LightDirection: math3d.V3(0, 0, 1),
		DepthMode:      DepthSigmoid,
		DisableCulling: true,
	}
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("wireframe: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := WireframeConfig()
	if cfg != want {
		t.Errorf("ParseConfig() = %+v, want %+v", cfg, want)
	}

	empty, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty != DefaultConfig() {
		t.Errorf("empty config = %+v, want defaults", empty)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		projection bool
	}{
		{"malformed yaml", "wireframe: [", false},
		{"unknown depth mode", "depth_mode: linear", false},
		{"zero light", "light_direction: {x: 0, y: 0, z: 0}", false},
		{"zero fov", "field_of_view: 0", true},
		{"negative near", "z_near: -1", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.data))
			if err == nil {
				t.Fatal("ParseConfig() should fail")
			}
			if tc.projection && !errors.Is(err, ErrDegenerateProjection) {
				t.Errorf("error %v is not ErrDegenerateProjection", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "softrast.yaml")
	if err := os.WriteFile(path, []byte("field_of_view: 0.9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.FieldOfView != 0.9 {
		t.Errorf("FieldOfView = %v, want 0.9", cfg.FieldOfView)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) error = %v, want os.ErrNotExist", err)
	}
}
