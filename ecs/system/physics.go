package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
)

// PhysicsSystem mirrors every entity with a Collider into a Chipmunk2D space
// laid out in plane coordinates. The space is only used for picking and
// overlap queries; bodies are kinematic and driven by transforms.
type PhysicsSystem struct {
	space *cp.Space
	plane geom.PlaneSpec
}

func NewPhysicsSystem(plane geom.PlaneSpec) *PhysicsSystem {
	return &PhysicsSystem{space: cp.NewSpace(), plane: plane}
}

func (s *PhysicsSystem) Plane() geom.PlaneSpec {
	return s.plane
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.Sync(w)
}

// Sync creates missing bodies, drops bodies of dead or collider-less
// entities and moves the rest to their transforms.
func (s *PhysicsSystem) Sync(w *ecs.World) {
	var stale []*cp.Shape
	s.space.EachShape(func(shape *cp.Shape) {
		e, _ := shape.UserData.(ecs.Entity)
		if !w.IsAlive(e) || !ecs.Has(w, e, component.ColliderComponent.Kind()) {
			stale = append(stale, shape)
		}
	})
	for _, shape := range stale {
		s.removeShape(shape)
	}

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || pb.Body == nil || pb.Shape == nil || !s.space.ContainsShape(pb.Shape) {
			pb = &component.PhysicsBody{}
			pb.Body = s.space.AddBody(cp.NewKinematicBody())
			pb.Shape = s.space.AddShape(s.newShape(pb.Body, c, t))
			pb.Shape.UserData = e
			pb.Body.UserData = e
			if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), pb); err != nil {
				s.removeShape(pb.Shape)
				return
			}
		}
		a, b := s.plane.Axes(t.Position)
		pb.Body.SetPosition(cp.Vector{X: a, Y: b})
	})

	// Step reindexes moved shapes. Kinematic bodies carry no velocity here.
	s.space.Step(common.FixedDelta)
}

func (s *PhysicsSystem) removeShape(shape *cp.Shape) {
	body := shape.Body()
	if s.space.ContainsShape(shape) {
		s.space.RemoveShape(shape)
	}
	if body != nil && s.space.ContainsBody(body) {
		s.space.RemoveBody(body)
	}
}

func (s *PhysicsSystem) newShape(body *cp.Body, c *component.Collider, t *component.Transform) *cp.Shape {
	scale := t.WorldScale()
	sa, sb := s.plane.Axes(scale)
	switch c.Shape {
	case geom.ShapeBox:
		ha, hb := s.plane.Axes(c.HalfExtents)
		return cp.NewBox(body, 2*ha*sa, 2*hb*sb, 0)
	default:
		r := c.Radius * sa
		if r <= 0 {
			r = component.DefaultGoalRadius
		}
		return cp.NewCircle(body, r, cp.Vector{})
	}
}

// Pick returns the entity whose shape contains the point under screen pixel
// (x, y) on plane.
func (s *PhysicsSystem) Pick(w *ecs.World, camera ecs.Entity, x, y float64, plane geom.PlaneSpec) (ecs.Entity, bool) {
	if s == nil {
		return 0, false
	}
	p, ok := ScreenToPlane(w, camera, x, y, plane)
	if !ok {
		return 0, false
	}
	a, b := s.plane.Axes(p)
	info := s.space.PointQueryNearest(cp.Vector{X: a, Y: b}, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return 0, false
	}
	e, ok := info.Shape.UserData.(ecs.Entity)
	return e, ok && w.IsAlive(e)
}

// Overlapping lists live entities whose shapes touch e's shape.
func (s *PhysicsSystem) Overlapping(w *ecs.World, e ecs.Entity) []ecs.Entity {
	if s == nil {
		return nil
	}
	pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || pb.Shape == nil || !s.space.ContainsShape(pb.Shape) {
		return nil
	}
	var out []ecs.Entity
	s.space.ShapeQuery(pb.Shape, func(shape *cp.Shape, _ *cp.ContactPointSet) {
		if other, ok := shape.UserData.(ecs.Entity); ok && other != e && w.IsAlive(other) {
			out = append(out, other)
		}
	})
	return out
}
