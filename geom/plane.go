package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane selects which world axis is held constant while drawing.
type Plane int

const (
	// PlaneXZ is ground aligned and holds Y.
	PlaneXZ Plane = iota
	// PlaneXY is depth aligned and holds Z.
	PlaneXY
)

const rayEpsilon = 1e-6

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "XY"
	default:
		return "XZ"
	}
}

// ParsePlane accepts "XZ" or "XY" in any case.
func ParsePlane(s string) (Plane, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "XZ":
		return PlaneXZ, nil
	case "XY":
		return PlaneXY, nil
	}
	return PlaneXZ, fmt.Errorf("geom: unknown plane %q", s)
}

func (p Plane) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Plane) UnmarshalText(text []byte) error {
	parsed, err := ParsePlane(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PlaneSpec pairs a Plane with the offset of its held axis.
type PlaneSpec struct {
	Plane   Plane
	GroundY float64
	PlaneZ  float64
}

// Offset returns the value the held axis is forced to.
func (s PlaneSpec) Offset() float64 {
	if s.Plane == PlaneXY {
		return s.PlaneZ
	}
	return s.GroundY
}

// Project overwrites the held axis of p with the plane offset.
func (s PlaneSpec) Project(p mgl64.Vec3) mgl64.Vec3 {
	if s.Plane == PlaneXY {
		p[2] = s.PlaneZ
	} else {
		p[1] = s.GroundY
	}
	return p
}

// Axes returns the two in-plane coordinates of p.
func (s PlaneSpec) Axes(p mgl64.Vec3) (float64, float64) {
	if s.Plane == PlaneXY {
		return p.X(), p.Y()
	}
	return p.X(), p.Z()
}

// PlanarDistance ignores the held axis.
func (s PlaneSpec) PlanarDistance(p, q mgl64.Vec3) float64 {
	pa, pb := s.Axes(p)
	qa, qb := s.Axes(q)
	return math.Hypot(pa-qa, pb-qb)
}

func (s PlaneSpec) Normal() mgl64.Vec3 {
	if s.Plane == PlaneXY {
		return mgl64.Vec3{0, 0, 1}
	}
	return mgl64.Vec3{0, 1, 0}
}

// Perpendicular returns the in-plane vector rotated a quarter turn from
// tangent. It is not normalized.
func (s PlaneSpec) Perpendicular(t mgl64.Vec3) mgl64.Vec3 {
	if s.Plane == PlaneXY {
		return mgl64.Vec3{-t.Y(), t.X(), 0}
	}
	return mgl64.Vec3{-t.Z(), 0, t.X()}
}

// Bias lowers the held axis of p by eps.
func (s PlaneSpec) Bias(p mgl64.Vec3, eps float64) mgl64.Vec3 {
	return s.Lift(p, -eps)
}

// Lift raises the held axis of p by h.
func (s PlaneSpec) Lift(p mgl64.Vec3, h float64) mgl64.Vec3 {
	if s.Plane == PlaneXY {
		p[2] += h
	} else {
		p[1] += h
	}
	return p
}

// IntersectRay hits the ray origin + t*dir (t >= 0) against the plane.
// Rays parallel to the plane or pointing away from it miss.
func (s PlaneSpec) IntersectRay(origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	n := s.Normal()
	denom := dir.Dot(n)
	if math.Abs(denom) < rayEpsilon {
		return mgl64.Vec3{}, false
	}
	t := (s.Offset() - origin.Dot(n)) / denom
	if t < 0 {
		return mgl64.Vec3{}, false
	}
	return s.Project(origin.Add(dir.Mul(t))), true
}
