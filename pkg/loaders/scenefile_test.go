package loaders

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
)

type mockLogger struct {
	lines []string
}

func (m *mockLogger) Printf(format string, args ...interface{}) {
	m.lines = append(m.lines, fmt.Sprintf(format, args...))
}

const minimalScene = `
# comment
cam 0 0 -10  0 0 0  0 1 0  1 2
set 0.1 0.2 0.3  2 5
mtl 1 0 0  0.5 0.5 0.5  0 0 0  10 0
sph 0 0 0 1 1
`

func parse(t *testing.T, input string) *LoadedScene {
	t.Helper()
	loaded, err := ParseScene(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}
	return loaded
}

func TestParseScene_Minimal(t *testing.T) {
	loaded := parse(t, minimalScene)

	cam := loaded.Camera
	if cam.Position != core.NewVec3(0, 0, -10) || cam.LookAt != core.NewVec3(0, 0, 0) || cam.Up != core.NewVec3(0, 1, 0) {
		t.Errorf("Unexpected camera vectors: %+v", cam)
	}
	if cam.ScreenDistance != 1 || cam.ScreenWidth != 2 {
		t.Errorf("Unexpected screen: distance %f width %f", cam.ScreenDistance, cam.ScreenWidth)
	}

	settings := loaded.Scene.Settings()
	if settings.Background != core.NewVec3(0.1, 0.2, 0.3) {
		t.Errorf("Unexpected background %v", settings.Background)
	}
	if settings.ShadowRays != 2 || settings.MaxRecursion != 5 {
		t.Errorf("Unexpected settings %+v", settings)
	}
	if settings.SuperSampling != 1 {
		t.Errorf("Expected super-sampling to default to 1, got %d", settings.SuperSampling)
	}

	if loaded.Scene.MaterialCount() != 1 || len(loaded.Scene.Shapes()) != 1 {
		t.Fatalf("Expected 1 material and 1 shape, got %d and %d",
			loaded.Scene.MaterialCount(), len(loaded.Scene.Shapes()))
	}
	m, err := loaded.Scene.Material(1)
	if err != nil {
		t.Fatalf("Material(1): %v", err)
	}
	if m.Diffuse != core.NewVec3(1, 0, 0) || m.Specular != core.NewVec3(0.5, 0.5, 0.5) || m.Phong != 10 {
		t.Errorf("Unexpected material %+v", m)
	}
	if len(loaded.Diagnostics) != 0 {
		t.Errorf("Expected no diagnostics, got %v", loaded.Diagnostics)
	}
}

func TestParseScene_AllDirectives(t *testing.T) {
	input := `
CAM 0 1 -5  0 0 0  0 1 0  1 1
Set 0 0 0  3 4 2
mtl 1 1 1  0 0 0  0 0 0  1 0
mtl 0 1 0  0 0 0  0 0 0  1 0.5
sph 0 0 0 1 1
pln 0 2 0 -1 2
trg 0 0 0  1 0 0  0 1 0  2
lgt 1 2 3  0.5 0.6 0.7  0.8 0.9 1.5
`
	loaded := parse(t, input)

	if got := loaded.Scene.Settings().SuperSampling; got != 2 {
		t.Errorf("Expected super-sampling 2, got %d", got)
	}

	shapes := loaded.Scene.Shapes()
	if len(shapes) != 3 {
		t.Fatalf("Expected 3 shapes, got %d", len(shapes))
	}
	if _, ok := shapes[0].(*geometry.Sphere); !ok {
		t.Errorf("Expected shape 1 to be a sphere, got %T", shapes[0])
	}
	if _, ok := shapes[1].(*geometry.Plane); !ok {
		t.Errorf("Expected shape 2 to be a plane, got %T", shapes[1])
	}
	if tri, ok := shapes[2].(*geometry.Triangle); !ok {
		t.Errorf("Expected shape 3 to be a triangle, got %T", shapes[2])
	} else if tri.Material() != 2 {
		t.Errorf("Expected triangle material 2, got %d", tri.Material())
	}

	// Plane offset is along the normalized normal: y = -1
	hit, ok := shapes[1].Intersect(core.NewRay(core.NewVec3(5, 0, 5), core.NewVec3(0, -1, 0)))
	if !ok || math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("Expected plane hit at t=1, got %v (hit=%v)", hit.T, ok)
	}

	ls := loaded.Scene.Lights()
	if len(ls) != 1 {
		t.Fatalf("Expected 1 light, got %d", len(ls))
	}
	l := ls[0]
	if l.Position != core.NewVec3(1, 2, 3) || l.Color != core.NewVec3(0.5, 0.6, 0.7) {
		t.Errorf("Unexpected light %+v", l)
	}
	if l.Specular != 0.8 || l.Shadow != 0.9 || l.Width != 1.5 {
		t.Errorf("Unexpected light weights %+v", l)
	}
}

func TestParseScene_MissingSettingsUsesDefaults(t *testing.T) {
	logger := &mockLogger{}
	loaded, err := ParseScene(strings.NewReader("cam 0 0 -1 0 0 0 0 1 0 1 1\n"), logger)
	if err != nil {
		t.Fatalf("ParseScene: %v", err)
	}

	settings := loaded.Scene.Settings()
	if settings.Background != (core.Vec3{}) || settings.ShadowRays != 1 ||
		settings.MaxRecursion != 10 || settings.SuperSampling != 1 {
		t.Errorf("Expected default settings, got %+v", settings)
	}
	if len(loaded.Diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %v", loaded.Diagnostics)
	}
	if len(logger.lines) != 1 || !strings.Contains(logger.lines[0], "set") {
		t.Errorf("Expected the diagnostic to be logged, got %v", logger.lines)
	}
}

func TestParseScene_UnknownDirective(t *testing.T) {
	input := minimalScene + "box 1 2 3\n"
	loaded := parse(t, input)

	if len(loaded.Diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %v", loaded.Diagnostics)
	}
	d := loaded.Diagnostics[0]
	if d.Line != 7 || !strings.Contains(d.Message, "box") {
		t.Errorf("Unexpected diagnostic %+v", d)
	}
	if len(loaded.Scene.Shapes()) != 1 {
		t.Errorf("Expected parsing to continue past the unknown directive")
	}
}

func TestParseScene_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantErr  error
	}{
		{
			name:     "bad number",
			input:    "cam 0 0 -10 0 0 0 0 1 0 one 2\n",
			wantLine: 1,
		},
		{
			name:     "NaN sphere centre",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nmtl 1 1 1 0 0 0 0 0 0 1 0\nsph nan 0 0 1 1\n",
			wantLine: 3,
		},
		{
			name:     "infinite plane offset",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\npln 0 1 0 -Inf 1\n",
			wantLine: 2,
		},
		{
			name:     "infinite light color",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nlgt 0 5 0 1 inf 1 1 0 0\n",
			wantLine: 2,
		},
		{
			name:     "too few values",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nsph 0 0 0 1\n",
			wantLine: 2,
		},
		{
			name:     "too many values",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nset 0 0 0 1 1 1 1\n",
			wantLine: 2,
		},
		{
			name:     "fractional material index",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nmtl 1 1 1 0 0 0 0 0 0 1 0\nsph 0 0 0 1 1.5\n",
			wantLine: 3,
		},
		{
			name:     "degenerate sphere",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nmtl 1 1 1 0 0 0 0 0 0 1 0\n\nsph 0 0 0 0 1\n",
			wantLine: 4,
			wantErr:  core.ErrDegenerate,
		},
		{
			name:     "degenerate triangle",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\ntrg 0 0 0 1 1 1 2 2 2 1\n",
			wantLine: 2,
			wantErr:  core.ErrDegenerate,
		},
		{
			name:     "zero plane normal",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\npln 0 0 0 1 1\n",
			wantLine: 2,
			wantErr:  core.ErrDegenerate,
		},
		{
			name:     "transparency out of range",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nmtl 1 1 1 0 0 0 0 0 0 1 2\n",
			wantLine: 2,
		},
		{
			name:     "shadow out of range",
			input:    "cam 0 0 -10 0 0 0 0 1 0 1 2\nlgt 0 5 0 1 1 1 1 1.5 0\n",
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScene(strings.NewReader(tt.input), nil)
			if err == nil {
				t.Fatal("Expected an error")
			}

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ParseError, got %T: %v", err, err)
			}
			if parseErr.Line != tt.wantLine {
				t.Errorf("Expected line %d, got %d", tt.wantLine, parseErr.Line)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v in chain, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseScene_MissingCamera(t *testing.T) {
	_, err := ParseScene(strings.NewReader("set 0 0 0 1 1\n"), nil)
	if !errors.Is(err, ErrMissingCamera) {
		t.Errorf("Expected ErrMissingCamera, got %v", err)
	}
}

func TestParseScene_InvalidMaterialIndex(t *testing.T) {
	input := "cam 0 0 -10 0 0 0 0 1 0 1 2\nmtl 1 1 1 0 0 0 0 0 0 1 0\nsph 0 0 0 1 2\n"
	_, err := ParseScene(strings.NewReader(input), nil)
	if err == nil || !strings.Contains(err.Error(), "material 2") {
		t.Errorf("Expected invalid material index error, got %v", err)
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.txt")
	if err := os.WriteFile(path, []byte(minimalScene), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := LoadScene(path, nil)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if len(loaded.Scene.Shapes()) != 1 {
		t.Errorf("Expected 1 shape, got %d", len(loaded.Scene.Shapes()))
	}

	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := LoadScene(missing, nil); err == nil || !strings.Contains(err.Error(), "missing.txt") {
		t.Errorf("Expected error naming the missing file, got %v", err)
	}
}

func TestLoadScene_ExampleScene(t *testing.T) {
	loaded, err := LoadScene("../../scenes/spheres.txt", nil)
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}
	if got := loaded.Scene.GetPrimitiveCount(); got != 5 {
		t.Errorf("Expected 5 primitives, got %d", got)
	}
	if got := len(loaded.Scene.Lights()); got != 2 {
		t.Errorf("Expected 2 lights, got %d", got)
	}
	if len(loaded.Diagnostics) != 0 {
		t.Errorf("Expected no diagnostics, got %v", loaded.Diagnostics)
	}
}
