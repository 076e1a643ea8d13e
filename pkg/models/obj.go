package models

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softrast/pkg/math3d"
	"github.com/taigrr/softrast/pkg/render"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := ReadOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// objReader accumulates the vertex pools of an OBJ stream.
type objReader struct {
	positions []math3d.Vec3
	colors    []render.Color // Parallel to positions; A == 0 means absent
	uvs       []math3d.Vec2
	normals   []math3d.Vec3

	triangles []render.Triangle
}

// ReadOBJ parses OBJ geometry: v (with optional r g b in [0, 1]), vt, vn and
// f. Face corners may be i, i/t, i//n or i/t/n, with negative indices counted
// back from the latest element. Faces that are not triangles are skipped.
// Other statements (o, g, s, usemtl, mtllib, ...) are ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	p := &objReader{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if err := p.statement(fields[0], fields[1:]); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return NewMesh("", p.triangles), nil
}

func (p *objReader) statement(keyword string, args []string) error {
	switch keyword {
	case "v":
		if len(args) < 3 {
			return fmt.Errorf("vertex needs 3 coordinates, got %d", len(args))
		}
		xyz, err := parseFloats(args[:3])
		if err != nil {
			return err
		}
		p.positions = append(p.positions, math3d.V3(xyz[0], xyz[1], xyz[2]))

		var c render.Color
		if len(args) >= 6 {
			rgb, err := parseFloats(args[3:6])
			if err != nil {
				return err
			}
			c = render.RGB(unitToByte(rgb[0]), unitToByte(rgb[1]), unitToByte(rgb[2]))
		}
		p.colors = append(p.colors, c)

	case "vt":
		if len(args) < 2 {
			return fmt.Errorf("texture coordinate needs 2 values, got %d", len(args))
		}
		uv, err := parseFloats(args[:2])
		if err != nil {
			return err
		}
		p.uvs = append(p.uvs, math3d.V2(uv[0], uv[1]))

	case "vn":
		if len(args) < 3 {
			return fmt.Errorf("normal needs 3 values, got %d", len(args))
		}
		n, err := parseFloats(args[:3])
		if err != nil {
			return err
		}
		p.normals = append(p.normals, math3d.V3(n[0], n[1], n[2]))

	case "f":
		if len(args) != 3 {
			return nil
		}
		var verts [3]render.Vertex
		for i, corner := range args {
			v, err := p.corner(corner)
			if err != nil {
				return err
			}
			verts[i] = v
		}
		p.triangles = append(p.triangles, render.Triangle{
			A:     verts[0],
			B:     verts[1],
			C:     verts[2],
			Color: render.ColorWhite,
		})
	}
	return nil
}

// corner resolves one face corner (i, i/t, i//n or i/t/n) to a vertex.
func (p *objReader) corner(s string) (render.Vertex, error) {
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return render.Vertex{}, fmt.Errorf("bad face corner %q", s)
	}

	pi, err := resolveIndex(parts[0], len(p.positions))
	if err != nil {
		return render.Vertex{}, fmt.Errorf("position of %q: %w", s, err)
	}
	v := render.Vertex{Position: p.positions[pi]}
	if c := p.colors[pi]; c.A != 0 {
		v.Color = c
		v.HasColor = true
	}

	if len(parts) > 1 && parts[1] != "" {
		ti, err := resolveIndex(parts[1], len(p.uvs))
		if err != nil {
			return render.Vertex{}, fmt.Errorf("texture coordinate of %q: %w", s, err)
		}
		v.UV = p.uvs[ti]
		v.HasUV = true
	}

	if len(parts) > 2 && parts[2] != "" {
		ni, err := resolveIndex(parts[2], len(p.normals))
		if err != nil {
			return render.Vertex{}, fmt.Errorf("normal of %q: %w", s, err)
		}
		v.Normal = p.normals[ni]
		v.HasNormal = true
	}

	return v, nil
}

// resolveIndex turns a 1-based (or negative, relative) OBJ index into a
// 0-based index into a pool of n elements.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	}
	return 0, fmt.Errorf("index %d out of range (%d defined)", i, n)
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// unitToByte maps a [0, 1] color channel to [0, 255].
func unitToByte(v float64) uint8 {
	return uint8(math3d.Clamp(v, 0, 1)*255 + 0.5)
}
