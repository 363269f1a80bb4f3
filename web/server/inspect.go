package server

import (
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/geometry"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/material"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/renderer"
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/scene"
)

const (
	inspectTMin = 0.001
	inspectTMax = 1000
)

// InspectRequest identifies the pixel to inspect
type InspectRequest struct {
	Scene  string
	Width  int
	Height int
	X      int
	Y      int
}

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MatchesScan  bool                   `json:"matchesScan"` // BVH and brute-force scan agree
	ShapeIndex   int                    `json:"shapeIndex"`
	GeometryType string                 `json:"geometryType,omitempty"`
	MaterialType string                 `json:"materialType,omitempty"`
	Center       [3]float64             `json:"center"`
	Radius       float64                `json:"radius"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseInspectRequest(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	sceneObj, err := s.createScene(req.Scene, renderer.DefaultProgressiveConfig().Seed)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Width > 0 && req.Height > 0 {
		sceneObj.Resize(req.Width, req.Height)
	}
	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if req.X >= width || req.Y >= height {
		writeError(w, r, errors.New("pixel is outside the image").
			WithType(ErrTypeInvalidParameter).
			WithTag("x", req.X).
			WithTag("y", req.Y).
			WithTag("width", width).
			WithTag("height", height))
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, req.X, req.Y))
}

func parseInspectRequest(values url.Values) (InspectRequest, error) {
	req := InspectRequest{Scene: sceneParam(values)}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, minDimension, maxDimension); err != nil {
		return InspectRequest{}, err
	}
	if req.Height, err = parseIntParam(values, "height", 0, minDimension, maxDimension); err != nil {
		return InspectRequest{}, err
	}
	if values.Get("x") == "" || values.Get("y") == "" {
		return InspectRequest{}, errors.New("x and y are required").WithType(ErrTypeInvalidParameter)
	}
	if req.X, err = parseIntParam(values, "x", 0, 0, maxDimension-1); err != nil {
		return InspectRequest{}, err
	}
	if req.Y, err = parseIntParam(values, "y", 0, 0, maxDimension-1); err != nil {
		return InspectRequest{}, err
	}
	return req, nil
}

// inspectPixel casts an unjittered ray through the center of the pixel at
// image coordinates (x, y) and describes the first sphere hit
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResponse {
	width := float64(sceneObj.SamplingConfig.Width)
	height := float64(sceneObj.SamplingConfig.Height)
	row := sceneObj.SamplingConfig.Height - 1 - y

	// The sampler only matters for thin-lens cameras
	ray := sceneObj.Camera.GetRay(
		(float64(x)+0.5)/width,
		(float64(row)+0.5)/height,
		core.NewSeededSampler(0),
	)

	hit, isHit := sceneObj.NearestHit(ray, inspectTMin, inspectTMax)
	scanHit, scanIsHit := sceneObj.LinearHit(ray, inspectTMin, inspectTMax)

	response := InspectResponse{
		Hit:         isHit,
		MatchesScan: isHit == scanIsHit,
		ShapeIndex:  -1,
	}
	if !isHit {
		return response
	}

	response.MatchesScan = scanIsHit && math.Abs(hit.T-scanHit.T) < 1e-9
	response.Point = vecArray(hit.Point)
	response.Normal = vecArray(hit.Normal)
	response.Distance = hit.T
	response.FrontFace = hit.FrontFace
	response.MaterialType, response.Properties = materialInfo(hit)

	if index, sphere := findSphere(sceneObj, ray, hit); sphere != nil {
		response.ShapeIndex = index
		response.GeometryType = "sphere"
		response.Center = vecArray(sphere.Center)
		response.Radius = sphere.Radius
	}
	return response
}

// findSphere returns the primitive that produced hit
func findSphere(sceneObj *scene.Scene, ray core.Ray, hit *geometry.HitRecord) (int, *geometry.Sphere) {
	for i, shape := range sceneObj.Shapes() {
		sphere, ok := shape.(*geometry.Sphere)
		if !ok {
			continue
		}
		if candidate, ok := sphere.Hit(ray, inspectTMin, inspectTMax); ok && math.Abs(candidate.T-hit.T) < 1e-9 {
			return i, sphere
		}
	}
	return -1, nil
}

func materialInfo(hit *geometry.HitRecord) (string, map[string]interface{}) {
	albedo := hit.Albedo()
	properties := map[string]interface{}{
		"albedo": vecArray(albedo),
		"color":  hexColor(albedo),
	}

	switch hit.Material.Kind {
	case material.Metal:
		properties["fuzz"] = hit.Material.Fuzz
	case material.Dielectric:
		properties["refractiveIndex"] = hit.Material.RefractiveIndex
	}

	switch hit.Material.Albedo.(type) {
	case *material.Checkered:
		properties["texture"] = "checkered"
	case *material.Noise:
		properties["texture"] = "noise"
	default:
		properties["texture"] = "solid"
	}

	return hit.Material.Kind.String(), properties
}

func hexColor(c core.Color) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}
