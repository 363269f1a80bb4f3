package geometry

import (
	"github.com/nsdigirolamo/nicks-ray-tracer/pkg/core"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the nearest intersection with t in [tMin, tMax], if any
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
	BoundingBox() core.AABB
}
