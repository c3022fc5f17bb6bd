package geom

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

type Shape int

const (
	ShapeNone Shape = iota
	ShapeBox
	ShapeSphere
	ShapeCapsule
	ShapeCylinder
)

var shapeNames = map[Shape]string{
	ShapeNone:     "none",
	ShapeBox:      "box",
	ShapeSphere:   "sphere",
	ShapeCapsule:  "capsule",
	ShapeCylinder: "cylinder",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "none"
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for shape, n := range shapeNames {
		if n == name {
			*s = shape
			return nil
		}
	}
	if name == "" {
		*s = ShapeNone
		return nil
	}
	return fmt.Errorf("geom: unknown collider shape %q", string(text))
}

// Collider describes a collision shape in world axes. Capsules and cylinders
// stand along Y.
type Collider struct {
	Shape       Shape
	HalfExtents mgl64.Vec3
	Radius      float64
	Height      float64
}

// GoalRegion is everything a containment test needs to know about a goal.
// Fallback is used when Collider is nil or has no planar footprint.
type GoalRegion struct {
	Position         mgl64.Vec3
	Collider         *Collider
	FallbackPosition mgl64.Vec3
	FallbackRadius   float64
}

// IsInsideGoal reports whether pt lies in the goal's footprint on the plane,
// inflated by padding. Boundaries are inclusive.
func IsInsideGoal(pt mgl64.Vec3, plane PlaneSpec, goal *GoalRegion, padding float64) bool {
	if goal == nil {
		return false
	}
	px, py := plane.Axes(pt)
	gx, gy := plane.Axes(goal.Position)

	if c := goal.Collider; c != nil {
		switch c.Shape {
		case ShapeBox:
			hx := c.HalfExtents.X()
			hy := c.HalfExtents.Z()
			if plane.Plane == PlaneXY {
				hy = c.HalfExtents.Y()
			}
			return math.Abs(px-gx) <= hx+padding && math.Abs(py-gy) <= hy+padding
		case ShapeSphere:
			return withinRadius(px-gx, py-gy, c.Radius+padding)
		case ShapeCapsule:
			r := c.Radius + padding
			if plane.Plane == PlaneXZ {
				return withinRadius(px-gx, py-gy, r)
			}
			vertical := r
			if c.Height > 0 {
				vertical = c.Height * 0.5
			}
			return math.Abs(px-gx) <= r && math.Abs(py-gy) <= vertical+r
		}
	}

	fx, fy := plane.Axes(goal.FallbackPosition)
	return withinRadius(px-fx, py-fy, goal.FallbackRadius+padding)
}

func withinRadius(dx, dy, r float64) bool {
	if r < 0 {
		return false
	}
	return dx*dx+dy*dy <= r*r
}

// BoxTopY transforms the eight local corners of a box by world and returns
// the highest resulting Y. Scale is expected to live in world already.
func BoxTopY(world mgl64.Mat4, halfExtents mgl64.Vec3) float64 {
	top := math.Inf(-1)
	for _, sx := range [2]float64{-1, 1} {
		for _, sy := range [2]float64{-1, 1} {
			for _, sz := range [2]float64{-1, 1} {
				local := mgl64.Vec3{sx * halfExtents.X(), sy * halfExtents.Y(), sz * halfExtents.Z()}
				p := mgl64.TransformCoordinate(local, world)
				if p.Y() > top {
					top = p.Y()
				}
			}
		}
	}
	return top
}

// WorldMatrix composes translation, rotation and scale as T*R*S.
func WorldMatrix(position mgl64.Vec3, rotation mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
