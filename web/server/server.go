package server

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	rthttp "github.com/nsdigirolamo/nicks-ray-tracer/pkg/http"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/renderer"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/scene"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	// ErrTypeInvalidParameter is reported when a query parameter is missing or out of range
	ErrTypeInvalidParameter = "invalid_parameter"

	defaultScene = "default"
	minDimension = 1
	maxDimension = 2000
)

// Server handles web requests for the progressive raytracer
type Server struct {
	// The directory holding the browser client. Empty disables static files.
	StaticDir string

	// The directories scanned for scene files.
	ScenesDirs []string

	// The version reported by the health endpoint.
	Version string

	// The number of workers per render. 0 uses every CPU.
	Workers int
}

// Handler returns the routes served by the web server
func (s *Server) Handler() *http.ServeMux {
	var mux http.ServeMux

	if s.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.StaticDir)))
	}

	mux.Handle("/api/health", rthttp.HandleWithCORS(http.HandlerFunc(s.handleHealth)))
	mux.Handle("/api/scenes", rthttp.HandleWithCORS(http.HandlerFunc(s.handleScenes)))
	mux.Handle("/api/scene-config", rthttp.HandleWithCORS(http.HandlerFunc(s.handleSceneConfig)))
	mux.Handle("/api/inspect", rthttp.HandleWithCORS(http.HandlerFunc(s.handleInspect)))
	mux.Handle("/api/render", websocket.Server{Handler: s.handleRender})

	return &mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Version,
	})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.ScenesDirs...)
	if err != nil {
		writeError(w, r, errors.New("listing scenes failed").Wrap(err))
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// SceneConfigResponse describes the defaults of a scene and the accepted render limits
type SceneConfigResponse struct {
	Scene      string                 `json:"scene"`
	Camera     CameraResponse         `json:"camera"`
	Sampling   scene.SamplingConfig   `json:"sampling"`
	Primitives int                    `json:"primitives"`
	Bounds     BoundsResponse         `json:"bounds"`
	BVH        geometry.BVHStats      `json:"bvh"`
	Limits     map[string]ParamLimits `json:"limits"`
}

// BoundsResponse describes the box enclosing every primitive of a scene
type BoundsResponse struct {
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
	Center [3]float64 `json:"center"`
	Size   [3]float64 `json:"size"`
}

// CameraResponse is the JSON form of a camera configuration
type CameraResponse struct {
	Center        [3]float64 `json:"center"`
	LookAt        [3]float64 `json:"lookAt"`
	Up            [3]float64 `json:"up"`
	VFov          float64    `json:"vfov"`
	Aperture      float64    `json:"aperture"`
	FocusDistance float64    `json:"focusDistance"`
}

// ParamLimits holds the inclusive range accepted for a render parameter
type ParamLimits struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var renderLimits = map[string]ParamLimits{
	"width":    {Min: minDimension, Max: maxDimension},
	"height":   {Min: minDimension, Max: maxDimension},
	"samples":  {Min: 1, Max: 10000},
	"maxDepth": {Min: 1, Max: 1000},
	"passes":   {Min: 1, Max: 100},
	"tileSize": {Min: 8, Max: 512},
}

func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	name := sceneParam(r.URL.Query())

	sceneObj, err := s.createScene(name, renderer.DefaultProgressiveConfig().Seed)
	if err != nil {
		writeError(w, r, err)
		return
	}

	camera := sceneObj.CameraConfig
	writeJSON(w, http.StatusOK, SceneConfigResponse{
		Scene: name,
		Camera: CameraResponse{
			Center:        vecArray(camera.Center),
			LookAt:        vecArray(camera.LookAt),
			Up:            vecArray(camera.Up),
			VFov:          camera.VFov,
			Aperture:      camera.Aperture,
			FocusDistance: camera.FocusDistance,
		},
		Sampling:   sceneObj.SamplingConfig,
		Primitives: sceneObj.Len(),
		Bounds:     boundsResponse(sceneObj.Root().BoundingBox()),
		BVH:        sceneObj.Root().Stats(),
		Limits:     renderLimits,
	})
}

// createScene builds a scene by identifier, keeping the scene error type.
// Scene files are only loaded from the configured scene directories.
func (s *Server) createScene(name string, seed int64, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	if path, ok := scene.FilePath(name); ok && !s.inScenesDirs(path) {
		return nil, errors.New("unknown scene").
			WithType(scene.ErrTypeUnknownScene).
			WithTag("scene", name)
	}

	sceneObj, err := scene.Create(name, seed, cameraOverrides...)
	if err != nil {
		return nil, errors.New("creating scene failed").
			WithType(errors.Type(err)).
			WithTag("scene", name).
			Wrap(err)
	}
	return sceneObj, nil
}

func (s *Server) inScenesDirs(path string) bool {
	if filepath.Ext(path) != ".json" {
		return false
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	for _, dir := range s.ScenesDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}

		rel, err := filepath.Rel(absDir, absPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return true
	}
	return false
}

func sceneParam(values url.Values) string {
	if name := values.Get("scene"); name != "" {
		return name
	}
	return defaultScene
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("invalid integer parameter").
			WithType(ErrTypeInvalidParameter).
			WithTag("parameter", key).
			WithTag("value", value).
			Wrap(err)
	}

	if parsed < min || parsed > max {
		return 0, errors.Newf("%s must be between %d and %d", key, min, max).
			WithType(ErrTypeInvalidParameter).
			WithTag("parameter", key).
			WithTag("value", parsed)
	}
	return parsed, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.New("invalid boolean parameter").
			WithType(ErrTypeInvalidParameter).
			WithTag("parameter", key).
			WithTag("value", value).
			Wrap(err)
	}
	return parsed, nil
}

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logs.Warn(errors.New("writing response failed").Wrap(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if isClientError(err) {
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logs.WithTag("path", r.URL.Path).Error(err)
	} else {
		logs.WithTag("path", r.URL.Path).Debug(err)
	}

	writeJSON(w, status, ErrorResponse{
		Error: clientMessage(err),
		Type:  errors.Type(err),
	})
}

func isClientError(err error) bool {
	switch errors.Type(err) {
	case ErrTypeInvalidParameter,
		scene.ErrTypeUnknownScene,
		scene.ErrTypeInvalidFile,
		scene.ErrTypeInvalidTexture,
		scene.ErrTypeInvalidMaterial,
		scene.ErrTypeInvalidSphere:
		return true
	}
	return false
}

// clientMessage returns the outermost error message. Internal errors are
// reported without details.
func clientMessage(err error) string {
	if isClientError(err) {
		return errors.Message(err)
	}
	return "internal server error"
}

func boundsResponse(box core.AABB) BoundsResponse {
	return BoundsResponse{
		Min:    vecArray(box.Min),
		Max:    vecArray(box.Max),
		Center: vecArray(box.Center()),
		Size:   vecArray(box.Size()),
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
