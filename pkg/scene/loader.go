package scene

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
	"github.com/sauerbraten/jsonfile"
)

// Error types reported by scene construction
const (
	ErrTypeUnknownScene    = "unknown_scene"
	ErrTypeInvalidFile     = "invalid_scene_file"
	ErrTypeInvalidTexture  = "invalid_texture"
	ErrTypeInvalidMaterial = "invalid_material"
	ErrTypeInvalidSphere   = "invalid_sphere"
)

// File is the on-disk description of a scene. Lines starting with // are comments.
type File struct {
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Group       string                  `json:"group"`
	Camera      FileCamera              `json:"camera"`
	Sampling    SamplingConfig          `json:"sampling"`
	Textures    map[string]FileTexture  `json:"textures"`
	Materials   map[string]FileMaterial `json:"materials"`
	Spheres     []FileSphere            `json:"spheres"`
}

// FileCamera describes the camera of a scene file
type FileCamera struct {
	Center        [3]float64 `json:"center"`
	LookAt        [3]float64 `json:"lookAt"`
	Up            [3]float64 `json:"up"`
	VFov          float64    `json:"vfov"`
	Aperture      float64    `json:"aperture"`
	FocusDistance float64    `json:"focusDistance"`
}

// FileTexture describes a color source. Type is one of solid, checkered or noise.
type FileTexture struct {
	Type  string     `json:"type"`
	Color [3]float64 `json:"color"`
	Scale float64    `json:"scale"`
	Seed  int64      `json:"seed"`
	Odd   string     `json:"odd"`
	Even  string     `json:"even"`
}

// FileMaterial describes a material referencing a texture by name
type FileMaterial struct {
	Type            string  `json:"type"`
	Texture         string  `json:"texture"`
	Fuzz            float64 `json:"fuzz"`
	RefractiveIndex float64 `json:"refractiveIndex"`
}

// FileSphere describes a sphere referencing a material by name
type FileSphere struct {
	Center   [3]float64 `json:"center"`
	Radius   float64    `json:"radius"`
	Material string     `json:"material"`
}

// LoadFile parses a scene file and builds the scene
func LoadFile(path string, seed int64) (*Scene, error) {
	var file File
	if err := jsonfile.ParseFile(path, &file); err != nil {
		return nil, errors.New("parsing scene file failed").
			WithType(ErrTypeInvalidFile).
			WithTag("path", path).
			Wrap(err)
	}

	s, err := file.Build(seed)
	if err != nil {
		return nil, errors.New("building scene file failed").
			WithType(errors.Type(err)).
			WithTag("path", path).
			Wrap(err)
	}
	return s, nil
}

// Build validates the description and constructs the scene
func (f File) Build(seed int64) (*Scene, error) {
	if len(f.Spheres) == 0 {
		return nil, errors.New("scene has no spheres").WithType(ErrTypeInvalidSphere)
	}

	textures := make(map[string]material.ColorSource, len(f.Textures))
	for name := range f.Textures {
		if _, err := f.resolveTexture(name, textures, map[string]bool{}); err != nil {
			return nil, err
		}
	}

	materials := make(map[string]material.Material, len(f.Materials))
	for name, m := range f.Materials {
		mat, err := m.build(name, textures)
		if err != nil {
			return nil, err
		}
		materials[name] = mat
	}

	shapes := make([]geometry.Shape, 0, len(f.Spheres))
	for i, fs := range f.Spheres {
		if fs.Radius <= 0 {
			return nil, errors.New("sphere radius must be positive").
				WithType(ErrTypeInvalidSphere).
				WithTag("index", i).
				WithTag("radius", fs.Radius)
		}
		mat, ok := materials[fs.Material]
		if !ok {
			return nil, errors.New("sphere references an unknown material").
				WithType(ErrTypeInvalidSphere).
				WithTag("index", i).
				WithTag("material", fs.Material)
		}
		shapes = append(shapes, geometry.NewSphere(vec(fs.Center), fs.Radius, mat))
	}

	s := New(shapes[0], core.NewSeededSampler(seed))
	s.Extend(shapes[1:]...)

	cameraConfig := geometry.CameraConfig{
		Center:        vec(f.Camera.Center),
		LookAt:        vec(f.Camera.LookAt),
		Up:            vec(f.Camera.Up),
		Width:         f.Sampling.Width,
		VFov:          f.Camera.VFov,
		Aperture:      f.Camera.Aperture,
		FocusDistance: f.Camera.FocusDistance,
	}
	if cameraConfig.Up == (core.Vec3{}) {
		cameraConfig.Up = core.NewVec3(0, 1, 0)
	}
	if cameraConfig.VFov <= 0 {
		cameraConfig.VFov = 50
	}
	if err := validateCamera(cameraConfig); err != nil {
		return nil, err
	}
	if cameraConfig.Width <= 0 {
		cameraConfig.Width = 400
	}
	height := f.Sampling.Height
	if height <= 0 {
		height = int(float64(cameraConfig.Width) * 9.0 / 16.0)
	}
	cameraConfig.AspectRatio = float64(cameraConfig.Width) / float64(height)

	s.SetCamera(cameraConfig)
	s.SamplingConfig.Height = height
	s.SamplingConfig.SamplesPerPixel = f.Sampling.SamplesPerPixel
	if s.SamplingConfig.SamplesPerPixel <= 0 {
		s.SamplingConfig.SamplesPerPixel = 100
	}
	s.SamplingConfig.MaxDepth = f.Sampling.MaxDepth
	if s.SamplingConfig.MaxDepth <= 0 {
		s.SamplingConfig.MaxDepth = 50
	}

	return s, nil
}

// validateCamera rejects cameras without a well defined view basis
func validateCamera(config geometry.CameraConfig) error {
	view := config.Center.Subtract(config.LookAt)
	if view.NearZero() {
		return errors.New("camera center and lookAt must differ").
			WithType(ErrTypeInvalidFile).
			WithTag("center", config.Center).
			WithTag("look_at", config.LookAt)
	}
	if config.Up.Cross(view.Unit()).NearZero() {
		return errors.New("camera up must not be parallel to the view direction").
			WithType(ErrTypeInvalidFile).
			WithTag("up", config.Up)
	}
	if config.VFov >= 180 {
		return errors.New("camera vfov must be below 180 degrees").
			WithType(ErrTypeInvalidFile).
			WithTag("vfov", config.VFov)
	}
	return nil
}

func (f File) resolveTexture(name string, resolved map[string]material.ColorSource, visiting map[string]bool) (material.ColorSource, error) {
	if source, ok := resolved[name]; ok {
		return source, nil
	}
	if visiting[name] {
		return nil, errors.New("texture references itself").
			WithType(ErrTypeInvalidTexture).
			WithTag("texture", name)
	}

	t, ok := f.Textures[name]
	if !ok {
		return nil, errors.New("unknown texture").
			WithType(ErrTypeInvalidTexture).
			WithTag("texture", name)
	}
	visiting[name] = true

	var source material.ColorSource
	switch t.Type {
	case "solid", "":
		source = material.NewSolidColor(vec(t.Color))

	case "noise":
		scale := t.Scale
		if scale == 0 {
			scale = 10
		}
		source = material.NewNoise(vec(t.Color), scale, t.Seed)

	case "checkered":
		if t.Scale <= 0 {
			return nil, errors.New("checkered scale must be positive").
				WithType(ErrTypeInvalidTexture).
				WithTag("texture", name).
				WithTag("scale", t.Scale)
		}
		odd, err := f.resolveTexture(t.Odd, resolved, visiting)
		if err != nil {
			return nil, err
		}
		even, err := f.resolveTexture(t.Even, resolved, visiting)
		if err != nil {
			return nil, err
		}
		source = material.NewCheckered(odd, even, t.Scale)

	default:
		return nil, errors.New("unknown texture type").
			WithType(ErrTypeInvalidTexture).
			WithTag("texture", name).
			WithTag("type", t.Type)
	}

	resolved[name] = source
	return source, nil
}

func (m FileMaterial) build(name string, textures map[string]material.ColorSource) (material.Material, error) {
	kind, ok := material.ParseKind(m.Type)
	if !ok {
		return material.Material{}, errors.New("unknown material type").
			WithType(ErrTypeInvalidMaterial).
			WithTag("material", name).
			WithTag("type", m.Type)
	}

	albedo, ok := textures[m.Texture]
	if !ok {
		return material.Material{}, errors.New("material references an unknown texture").
			WithType(ErrTypeInvalidMaterial).
			WithTag("material", name).
			WithTag("texture", m.Texture)
	}

	switch kind {
	case material.Metal:
		return material.NewMetal(albedo, m.Fuzz), nil
	case material.Dielectric:
		if m.RefractiveIndex <= 0 {
			return material.Material{}, errors.New("refractive index must be positive").
				WithType(ErrTypeInvalidMaterial).
				WithTag("material", name).
				WithTag("refractive_index", m.RefractiveIndex)
		}
		return material.NewDielectric(albedo, m.RefractiveIndex), nil
	default:
		return material.NewDiffuse(albedo), nil
	}
}

func vec(v [3]float64) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
