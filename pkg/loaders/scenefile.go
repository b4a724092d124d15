package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-scene-raytracer/pkg/core"
	"github.com/df07/go-scene-raytracer/pkg/geometry"
	"github.com/df07/go-scene-raytracer/pkg/lights"
	"github.com/df07/go-scene-raytracer/pkg/material"
	"github.com/df07/go-scene-raytracer/pkg/scene"
)

// ErrMissingCamera is returned when a scene file has no cam directive
var ErrMissingCamera = errors.New("scene file has no cam directive")

// ParseError reports a malformed line in a scene file
type ParseError struct {
	Line      int    // 1-based line number
	Directive string // Directive being parsed, lower case
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Directive, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Diagnostic is a non-fatal problem found while parsing
type Diagnostic struct {
	Line    int // 0 when the diagnostic applies to the whole file
	Message string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("line %d: %s", d.Line, d.Message)
}

// LoadedScene is the result of parsing a scene file
type LoadedScene struct {
	Scene       *scene.Scene
	Camera      scene.CameraConfig
	Diagnostics []Diagnostic
}

// sceneParser holds the state accumulated while reading a scene file
type sceneParser struct {
	builder     *scene.Builder
	camera      *scene.CameraConfig
	hasSettings bool
	diagnostics []Diagnostic
	logger      core.Logger
}

// LoadScene opens and parses a scene file
func LoadScene(filename string, logger core.Logger) (*LoadedScene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	loaded, err := ParseScene(file, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return loaded, nil
}

// ParseScene reads a scene description. Each non-blank line that does not
// start with '#' holds a three letter directive followed by numbers:
//
//	cam px py pz lx ly lz ux uy uz sc_dist sc_width
//	set bgr bgg bgb sh_rays rec_max [ss]
//	mtl dr dg db sr sg sb rr rg rb phong trans
//	sph cx cy cz radius mat_idx
//	pln nx ny nz offset mat_idx
//	trg p0x p0y p0z p1x p1y p1z p2x p2y p2z mat_idx
//	lgt px py pz r g b spec shadow width
//
// Unknown directives are reported as diagnostics and skipped. Diagnostics are
// also written to logger when it is not nil.
func ParseScene(reader io.Reader, logger core.Logger) (*LoadedScene, error) {
	if logger == nil {
		logger = core.NopLogger{}
	}
	parser := &sceneParser{
		builder: scene.NewBuilder(),
		logger:  logger,
	}

	lineNum := 0
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lineNum++
		if err := parser.processLine(lineNum, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return parser.finalize()
}

func (p *sceneParser) warn(line int, format string, args ...interface{}) {
	d := Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)}
	p.diagnostics = append(p.diagnostics, d)
	p.logger.Printf("Warning: %s\n", d)
}

func (p *sceneParser) processLine(lineNum int, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	fields := strings.Fields(line)
	directive := strings.ToLower(fields[0])
	args := fields[1:]

	var err error
	switch directive {
	case "cam":
		err = p.parseCamera(args)
	case "set":
		err = p.parseSettings(args)
	case "mtl":
		err = p.parseMaterial(args)
	case "sph":
		err = p.parseSphere(args)
	case "pln":
		err = p.parsePlane(args)
	case "trg":
		err = p.parseTriangle(args)
	case "lgt":
		err = p.parseLight(args)
	default:
		p.warn(lineNum, "ignoring unknown directive %q", fields[0])
		return nil
	}

	if err != nil {
		return &ParseError{Line: lineNum, Directive: directive, Err: err}
	}
	return nil
}

func (p *sceneParser) finalize() (*LoadedScene, error) {
	if p.camera == nil {
		return nil, ErrMissingCamera
	}
	if !p.hasSettings {
		p.warn(0, "no set directive, using defaults")
	}

	s, err := p.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}

	return &LoadedScene{
		Scene:       s,
		Camera:      *p.camera,
		Diagnostics: p.diagnostics,
	}, nil
}

func (p *sceneParser) parseCamera(args []string) error {
	var v fieldReader
	if err := v.reset(args, 11); err != nil {
		return err
	}
	config := scene.CameraConfig{
		Position:       v.vec3(),
		LookAt:         v.vec3(),
		Up:             v.vec3(),
		ScreenDistance: v.float(),
		ScreenWidth:    v.float(),
	}
	if v.err != nil {
		return v.err
	}
	if p.camera != nil {
		p.warn(0, "multiple cam directives, the last one wins")
	}
	p.camera = &config
	return nil
}

func (p *sceneParser) parseSettings(args []string) error {
	var v fieldReader
	if err := v.reset(args, 5, 6); err != nil {
		return err
	}
	settings := scene.Settings{
		Background:    v.vec3(),
		ShadowRays:    v.int(),
		MaxRecursion:  v.int(),
		SuperSampling: 1,
	}
	if len(args) == 6 {
		settings.SuperSampling = v.int()
	}
	if v.err != nil {
		return v.err
	}
	p.builder.SetSettings(settings)
	p.hasSettings = true
	return nil
}

func (p *sceneParser) parseMaterial(args []string) error {
	var v fieldReader
	if err := v.reset(args, 11); err != nil {
		return err
	}
	diffuse, specular, reflection := v.vec3(), v.vec3(), v.vec3()
	phong, transparency := v.float(), v.float()
	if v.err != nil {
		return v.err
	}
	m, err := material.New(diffuse, specular, reflection, phong, transparency)
	if err != nil {
		return err
	}
	p.builder.AddMaterial(m)
	return nil
}

func (p *sceneParser) parseSphere(args []string) error {
	var v fieldReader
	if err := v.reset(args, 5); err != nil {
		return err
	}
	center, radius, mat := v.vec3(), v.float(), v.int()
	if v.err != nil {
		return v.err
	}
	sphere, err := geometry.NewSphere(center, radius, mat)
	if err != nil {
		return err
	}
	p.builder.AddShape(sphere)
	return nil
}

func (p *sceneParser) parsePlane(args []string) error {
	var v fieldReader
	if err := v.reset(args, 5); err != nil {
		return err
	}
	normal, offset, mat := v.vec3(), v.float(), v.int()
	if v.err != nil {
		return v.err
	}
	plane, err := geometry.NewPlane(normal, offset, mat)
	if err != nil {
		return err
	}
	p.builder.AddShape(plane)
	return nil
}

func (p *sceneParser) parseTriangle(args []string) error {
	var v fieldReader
	if err := v.reset(args, 10); err != nil {
		return err
	}
	v0, v1, v2, mat := v.vec3(), v.vec3(), v.vec3(), v.int()
	if v.err != nil {
		return v.err
	}
	triangle, err := geometry.NewTriangle(v0, v1, v2, mat)
	if err != nil {
		return err
	}
	p.builder.AddShape(triangle)
	return nil
}

func (p *sceneParser) parseLight(args []string) error {
	var v fieldReader
	if err := v.reset(args, 9); err != nil {
		return err
	}
	position, color := v.vec3(), v.vec3()
	specular, shadow, width := v.float(), v.float(), v.float()
	if v.err != nil {
		return v.err
	}
	light, err := lights.New(position, color, specular, shadow, width)
	if err != nil {
		return err
	}
	p.builder.AddLight(light)
	return nil
}

// fieldReader consumes numeric tokens in order, keeping the first error
type fieldReader struct {
	fields []string
	next   int
	err    error
}

// reset loads fields after checking the count is one of counts
func (r *fieldReader) reset(fields []string, counts ...int) error {
	for _, n := range counts {
		if len(fields) == n {
			r.fields = fields
			r.next = 0
			r.err = nil
			return nil
		}
	}
	if len(counts) == 1 {
		return fmt.Errorf("expected %d values, got %d", counts[0], len(fields))
	}
	return fmt.Errorf("expected %d to %d values, got %d", counts[0], counts[len(counts)-1], len(fields))
}

func (r *fieldReader) token() (string, bool) {
	if r.err != nil || r.next >= len(r.fields) {
		return "", false
	}
	tok := r.fields[r.next]
	r.next++
	return tok, true
}

func (r *fieldReader) float() float64 {
	tok, ok := r.token()
	if !ok {
		return 0
	}
	val, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		r.err = fmt.Errorf("value %d: invalid number %q", r.next, tok)
		return 0
	}
	return val
}

func (r *fieldReader) int() int {
	tok, ok := r.token()
	if !ok {
		return 0
	}
	val, err := strconv.Atoi(tok)
	if err != nil {
		r.err = fmt.Errorf("value %d: invalid integer %q", r.next, tok)
		return 0
	}
	return val
}

func (r *fieldReader) vec3() core.Vec3 {
	x, y, z := r.float(), r.float(), r.float()
	return core.NewVec3(x, y, z)
}
