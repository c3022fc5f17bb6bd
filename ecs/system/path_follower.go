package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
)

const (
	minSegmentLength  = 0.05
	degenerateSegment = 1e-3
	tinySegment       = 1e-4
)

// PathFollowerSystem advances every following entity along its path.
type PathFollowerSystem struct{}

func NewPathFollowerSystem() *PathFollowerSystem {
	return &PathFollowerSystem{}
}

// SanitizePath keeps the first point and drops any point closer than minLen
// on the plane to the last kept one.
func SanitizePath(points []mgl64.Vec3, plane geom.PlaneSpec, minLen float64) []mgl64.Vec3 {
	if len(points) == 0 {
		return nil
	}
	out := make([]mgl64.Vec3, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if plane.PlanarDistance(p, out[len(out)-1]) < minLen {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SetFollowerPath hands a new path to e. Traversal does not start until
// StartFollower is called.
func SetFollowerPath(w *ecs.World, e ecs.Entity, points []mgl64.Vec3) bool {
	f, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind())
	if !ok {
		return false
	}
	f.Path = SanitizePath(points, f.Plane, minSegmentLength)
	f.SegmentIndex = 0
	f.SegmentT = 0
	f.Following = false
	f.HasStarted = false
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
		pb.Body.SetVelocity(0, 0)
		pb.Body.SetAngularVelocity(0)
	}
	return true
}

func StartFollower(w *ecs.World, e ecs.Entity) bool {
	f, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind())
	if !ok || f.Disabled {
		return false
	}
	f.Following = true
	f.HasStarted = false
	return true
}

func StopFollower(w *ecs.World, e ecs.Entity) {
	if f, ok := ecs.Get(w, e, component.PathFollowerComponent.Kind()); ok {
		f.Following = false
	}
}

func (s *PathFollowerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach2(w, component.PathFollowerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, f *component.PathFollower, t *component.Transform) {
		s.step(w, e, f, t, dt)
	})
}

func (s *PathFollowerSystem) step(w *ecs.World, e ecs.Entity, f *component.PathFollower, t *component.Transform, dt float64) {
	if f.Disabled || !f.Following {
		return
	}
	n := len(f.Path)
	if n == 0 {
		f.Following = false
		return
	}

	if !f.HasStarted {
		f.HasStarted = true
		f.SegmentIndex = 0
		f.SegmentT = 0
		t.Position = f.Path[0]
		return
	}

	for f.SegmentIndex < n-1 && f.Path[f.SegmentIndex].Sub(f.Path[f.SegmentIndex+1]).Len() < degenerateSegment {
		f.SegmentIndex++
		f.SegmentT = 0
	}
	if f.SegmentIndex >= n-1 {
		s.arrive(w, e, f, t)
		return
	}

	segLen := f.Path[f.SegmentIndex+1].Sub(f.Path[f.SegmentIndex]).Len()
	f.SegmentT += f.Speed * dt / segLen
	for f.SegmentT >= 1 {
		f.SegmentT -= 1
		f.SegmentIndex++
		for f.SegmentIndex < n-1 && f.Path[f.SegmentIndex].Sub(f.Path[f.SegmentIndex+1]).Len() < tinySegment {
			f.SegmentIndex++
		}
		if f.SegmentIndex >= n-1 {
			s.arrive(w, e, f, t)
			return
		}
	}

	a := f.Path[f.SegmentIndex]
	b := f.Path[f.SegmentIndex+1]
	t.Position = a.Add(b.Sub(a).Mul(f.SegmentT))

	w.Events().Publish(ecs.Event{
		Topic:  ecs.TopicPathProgress,
		Entity: e,
		Data: ecs.PathProgress{
			SegmentIndex: f.SegmentIndex,
			SegmentT:     f.SegmentT,
			Position:     t.Position,
		},
	})

	if f.FaceForward {
		if dir := b.Sub(a); dir.Len() >= degenerateSegment {
			t.Rotation = facing(f.Plane, dir, f.HeadingOffsetDeg)
		}
	}
}

// facing turns about the plane normal toward dir.
func facing(plane geom.PlaneSpec, dir mgl64.Vec3, offsetDeg float64) mgl64.Quat {
	var angle float64
	if plane.Plane == geom.PlaneXY {
		angle = math.Atan2(dir.Y(), dir.X())
	} else {
		angle = math.Atan2(dir.X(), dir.Z())
	}
	return mgl64.QuatRotate(angle+mgl64.DegToRad(offsetDeg), plane.Normal())
}

func (s *PathFollowerSystem) arrive(w *ecs.World, e ecs.Entity, f *component.PathFollower, t *component.Transform) {
	end := f.Path[len(f.Path)-1]
	t.Position = end
	snapToGoalFit(w, e, f, t)
	f.Following = false
	w.Events().Publish(ecs.Event{
		Topic:  ecs.TopicPlayerPathEnd,
		Entity: e,
		Data:   ecs.PathEnd{Position: end},
	})
}

// snapToGoalFit rests a cylinder follower on top of a box goal. Any other
// shape pairing is left alone.
func snapToGoalFit(w *ecs.World, e ecs.Entity, f *component.PathFollower, t *component.Transform) {
	goal := ecs.Entity(f.Goal)
	gc, ok := ecs.Get(w, goal, component.ColliderComponent.Kind())
	if !ok || gc.Shape != geom.ShapeBox {
		return
	}
	gt, ok := ecs.Get(w, goal, component.TransformComponent.Kind())
	if !ok {
		return
	}
	fc, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
	if !ok || fc.Shape != geom.ShapeCylinder {
		return
	}

	top := geom.BoxTopY(gt.WorldMatrix(), gc.HalfExtents)
	halfHeight := 0.5 * fc.Height * t.WorldScale().Y()

	pos := mgl64.Vec3{gt.Position.X(), top + halfHeight, gt.Position.Z()}
	if f.Plane.Plane == geom.PlaneXY {
		pos[2] = t.Position.Z()
	}
	t.Position = pos
	if f.AlignToGoalRotation {
		t.Rotation = gt.Rotation
	}
}
