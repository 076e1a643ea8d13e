package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned by Load for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrMalformed is returned when a model file parses but its contents are
	// invalid.
	ErrMalformed = errors.New("malformed model")
)

// Load loads a mesh, choosing the format by file extension: .obj, .glb,
// .gltf or .stl (case-insensitive).
func Load(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	case ".stl":
		return LoadSTL(path)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}
