// softrast - software triangle rasterizer
// Render OBJ, GLB and STL models to PNG files or to the terminal.
//
// Modes:
//
//	default       - Render one frame and save it (-o)
//	-frames N     - Render a turntable sequence, output_000.png ... output_N-1.png
//	-interactive  - Spin the model in the terminal
//
// Interactive controls:
//
//	W/S, Up/Down     - Pitch
//	A/D, Left/Right  - Yaw
//	+/-              - Dolly in/out
//	X                - Toggle wireframe
//	R                - Reset rotation
//	Esc, Ctrl+C      - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/models"
	"github.com/taigrr/softrast/pkg/render"
)

var (
	configPath    = flag.String("config", "", "YAML renderer config file")
	outputPath    = flag.String("o", "output.png", "Output PNG path")
	width         = flag.Int("width", 800, "Image width in pixels")
	height        = flag.Int("height", 600, "Image height in pixels")
	wireframe     = flag.Bool("wireframe", false, "Draw triangle edges only")
	fovDegrees    = flag.Float64("fov", 90, "Vertical field of view in degrees")
	eyeFlag       = flag.String("eye", "25,25,25", "Camera position (X,Y,Z)")
	targetFlag    = flag.String("target", "0,0,0", "Camera target (X,Y,Z)")
	upFlag        = flag.String("up", "0,0,1", "Camera up vector (X,Y,Z)")
	frames        = flag.Int("frames", 1, "Number of turntable frames to render")
	spin          = flag.Float64("spin", math.Pi/30, "Turntable rotation per frame in radians")
	interactive   = flag.Bool("interactive", false, "View the model in the terminal")
	axes          = flag.Bool("axes", false, "Draw the world axes")
	targetFPS     = flag.Int("fps", 30, "Target FPS in interactive mode")
	verbose       = flag.Bool("v", false, "Log debug output")
	randomColours = flag.Bool("random-colours", false, "Give every triangle a random flat colour")
	seed          = flag.Uint64("seed", 1, "Seed for -random-colours")
	modelScale    = flag.Float64("scale", 10, "Uniform model scale applied after normalizing")
	normalize     = flag.Bool("normalize", true, "Fit the model into a 2-unit cube at the origin")
)

// view is the camera placement shared by every mode.
type view struct {
	eye, target, up math3d.Vec3
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "softrast - software triangle rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: softrast [options] <model.obj|model.glb|model.stl>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nInteractive controls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D, arrows - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  +/-             - Dolly in/out\n")
		fmt.Fprintf(os.Stderr, "  X               - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  R               - Reset rotation\n")
		fmt.Fprintf(os.Stderr, "  Esc             - Quit\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(modelPath string) error {
	if err := checkFPS(*targetFPS); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := parseView()
	if err != nil {
		return err
	}

	mesh, err := models.Load(modelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	slog.Info("loaded model", "name", mesh.Name, "triangles", mesh.TriangleCount(), "size", mesh.Size())

	if *normalize {
		mesh.Normalize()
	}
	if *randomColours {
		rng := rand.New(rand.NewPCG(*seed, 0))
		mesh.Paint(func(int) render.Color { return render.RandomColor(rng) })
	}

	switch {
	case *interactive:
		return runInteractive(mesh, cfg, v)
	case *frames > 1:
		return runTurntable(mesh, cfg, v)
	default:
		return runSingle(mesh, cfg, v)
	}
}

// loadConfig reads -config (if any) and applies the flags that were set
// explicitly on top of it.
func loadConfig() (render.Config, error) {
	cfg := render.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = render.LoadConfig(*configPath)
		if err != nil {
			return render.Config{}, err
		}
	}

	var fovErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "wireframe":
			cfg.Wireframe = *wireframe
		case "fov":
			if *fovDegrees <= 0 || *fovDegrees >= 180 {
				fovErr = fmt.Errorf("fov must be in (0, 180) degrees, got %g", *fovDegrees)
				return
			}
			cfg.FieldOfView = *fovDegrees * math.Pi / 180
		}
	})
	if fovErr != nil {
		return render.Config{}, fovErr
	}
	return cfg, nil
}

// checkFPS rejects frame rates the interactive ticker and springs cannot use.
func checkFPS(fps int) error {
	if fps <= 0 {
		return fmt.Errorf("-fps must be positive, got %d", fps)
	}
	return nil
}

func parseView() (view, error) {
	var v view
	var err error
	if v.eye, err = parseVec3(*eyeFlag); err != nil {
		return view{}, fmt.Errorf("-eye: %w", err)
	}
	if v.target, err = parseVec3(*targetFlag); err != nil {
		return view{}, fmt.Errorf("-target: %w", err)
	}
	if v.up, err = parseVec3(*upFlag); err != nil {
		return view{}, fmt.Errorf("-up: %w", err)
	}
	if v.eye.Sub(v.target).LenSq() == 0 {
		return view{}, errors.New("-eye and -target must differ")
	}
	return v, nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want X,Y,Z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("bad component %q", p)
		}
		xyz[i] = f
	}
	return math3d.V3(xyz[0], xyz[1], xyz[2]), nil
}

// newRenderer builds a renderer whose camera looks along v.
func newRenderer(w, h int, cfg render.Config, v view) (*render.Renderer, error) {
	r, err := render.New(w, h, cfg)
	if err != nil {
		return nil, err
	}
	r.Camera().LookAt(v.eye, v.target, v.up)
	return r, nil
}

// drawScene clears the renderer and draws the mesh plus optional axes.
func drawScene(r *render.Renderer, mesh *models.Mesh) {
	r.Clear()
	r.Draw(mesh)
	if *axes {
		r.Draw(render.Axes{Length: 2 * *modelScale})
	}
}

func runSingle(mesh *models.Mesh, cfg render.Config, v view) error {
	r, err := newRenderer(*width, *height, cfg, v)
	if err != nil {
		return err
	}
	mesh.Scale(*modelScale)

	drawScene(r, mesh)
	logStats(r)

	if err := r.Save(*outputPath); err != nil {
		return err
	}
	slog.Info("wrote image", "path", *outputPath, "width", r.Width(), "height", r.Height())
	return nil
}

// runTurntable renders -frames images, rotating the mesh by -spin about the
// up vector between frames.
func runTurntable(mesh *models.Mesh, cfg render.Config, v view) error {
	r, err := newRenderer(*width, *height, cfg, v)
	if err != nil {
		return err
	}
	mesh.Scale(*modelScale)
	axis := v.up.Normalize()

	bar := progressbar.Default(int64(*frames), "rendering")
	for i := range *frames {
		r.ResetStats()
		drawScene(r, mesh)
		logStats(r)

		path := framePath(*outputPath, i)
		if err := r.Save(path); err != nil {
			return err
		}
		_ = bar.Add(1)

		step := axis.Scale(*spin)
		mesh.Rotate(step.X, step.Y, step.Z)
	}
	_ = bar.Finish()

	slog.Info("wrote turntable", "frames", *frames, "first", framePath(*outputPath, 0))
	return nil
}

// framePath turns "dir/out.png" into "dir/out_007.png".
func framePath(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), i, ext)
}

func logStats(r *render.Renderer) {
	s := r.Stats()
	slog.Debug("frame",
		"triangles", s.Triangles,
		"rasterized", s.Rasterized,
		"backface_culled", s.BackfaceCulled,
		"near_discarded", s.NearDiscarded,
		"degenerate", s.Degenerate,
		"pixels", s.PixelsWritten,
		"lines", s.Lines,
		"drawables_culled", s.DrawablesCulled,
	)
}
