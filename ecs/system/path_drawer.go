package system

import (
	"image/color"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
)

const (
	startCoincidence = 1e-4
	goalLift         = 0.8
)

// Picker resolves the entity under a screen position.
type Picker interface {
	Pick(w *ecs.World, camera ecs.Entity, x, y float64, plane geom.PlaneSpec) (ecs.Entity, bool)
}

// PathDrawerSystem routes pointer input to every PathDrawer and keeps their
// ribbons in sync with follower progress.
type PathDrawerSystem struct {
	w        *ecs.World
	picker   Picker
	progress ecs.Subscription
}

func NewPathDrawerSystem(w *ecs.World, picker Picker) *PathDrawerSystem {
	s := &PathDrawerSystem{w: w, picker: picker}
	s.progress = w.Events().Subscribe(ecs.TopicPathProgress, s.onProgress)
	return s
}

func (s *PathDrawerSystem) Close() {
	s.w.Events().Unsubscribe(s.progress)
}

func (s *PathDrawerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	ecs.ForEach(w, component.PathDrawerComponent.Kind(), func(e ecs.Entity, pd *component.PathDrawer) {
		s.ensureRibbon(w, e, pd)
	})

	ecs.ForEach(w, component.PointerInputComponent.Kind(), func(_ ecs.Entity, in *component.PointerInput) {
		events := in.Events
		in.Events = nil
		for _, evt := range events {
			for _, e := range w.Query(component.PathDrawerComponent.Kind()) {
				s.dispatch(w, e, evt)
			}
		}
	})
}

func (s *PathDrawerSystem) dispatch(w *ecs.World, e ecs.Entity, evt component.PointerEvent) {
	switch evt.Kind {
	case component.PointerDown:
		s.PointerDown(w, e, evt.X, evt.Y)
	case component.PointerMove:
		s.PointerMove(w, e, evt.X, evt.Y)
	case component.PointerUp:
		s.PointerUp(w, e)
	case component.TouchStart:
		s.TouchStart(w, e, evt.Touch)
	case component.TouchMove:
		s.TouchMove(w, e, evt.Touch)
	case component.TouchEnd:
		s.TouchEnd(w, e, evt.Touch)
	}
}

// PointerDown starts a new draw when the press lands on the follower.
func (s *PathDrawerSystem) PointerDown(w *ecs.World, e ecs.Entity, x, y float64) {
	pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind())
	if !ok {
		return
	}
	camera := ecs.Entity(pd.Camera)
	follower := ecs.Entity(pd.Follower)

	if pd.StartOnObject {
		if s.picker == nil {
			return
		}
		picked, ok := s.picker.Pick(w, camera, x, y, pd.Plane)
		if !ok || picked != follower {
			return
		}
	}

	p, ok := ScreenToPlane(w, camera, x, max(y, pd.BlockTopPixels), pd.Plane)
	if !ok {
		return
	}

	if pd.ClearOldPathOnStart {
		StopFollower(w, follower)
		s.clearRibbon(w, e)
	}
	w.Events().Publish(ecs.Event{Topic: ecs.TopicPathCancel, Entity: follower})

	pd.Drawing = true
	pd.Points = append(pd.Points[:0], p)
}

func (s *PathDrawerSystem) PointerMove(w *ecs.World, e ecs.Entity, x, y float64) {
	pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind())
	if !ok || !pd.Drawing {
		return
	}
	p, ok := ScreenToPlane(w, ecs.Entity(pd.Camera), x, max(y, pd.BlockTopPixels), pd.Plane)
	if !ok {
		return
	}
	if n := len(pd.Points); n > 0 && pd.Plane.PlanarDistance(p, pd.Points[n-1]) < pd.MinPointSpacing {
		return
	}
	pd.Points = append(pd.Points, p)
	s.buildRibbon(w, e, pd, pd.Points)
}

// PointerUp finalizes the draw: either the path goes to the follower and
// path:ready is published, or the whole draw is rejected.
func (s *PathDrawerSystem) PointerUp(w *ecs.World, e ecs.Entity) {
	pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind())
	if !ok || !pd.Drawing {
		return
	}
	pd.Drawing = false
	follower := ecs.Entity(pd.Follower)

	for i := range pd.Points {
		pd.Points[i] = pd.Plane.Project(pd.Points[i])
	}
	if len(pd.Points) == 0 {
		s.clearRibbon(w, e)
		return
	}

	if ft, ok := ecs.Get(w, follower, component.TransformComponent.Kind()); ok {
		start := pd.Plane.Project(ft.Position)
		if pd.Points[0].Sub(start).Len() > startCoincidence {
			pd.Points = append([]mgl64.Vec3{start}, pd.Points...)
		}
	}

	reached := false
	if region, ok := GoalRegion(w, pd); ok {
		last := pd.Points[len(pd.Points)-1]
		if geom.IsInsideGoal(last, pd.Plane, region, pd.GoalHitPadding) {
			reached = true
			if pd.AutoExtendToGoal && pd.Plane.PlanarDistance(last, region.Position) <= pd.GoalRadius+pd.GoalHitPadding {
				pd.Points = append(pd.Points, pd.Plane.Lift(region.Position, goalLift))
			}
		}
	}

	if pd.RequireGoal && !reached {
		StopFollower(w, follower)
		s.clearRibbon(w, e)
		pd.Points = pd.Points[:0]
		return
	}

	SetFollowerPath(w, follower, pd.Points)
	s.buildRibbon(w, e, pd, pd.Points)
	w.Events().Publish(ecs.Event{Topic: ecs.TopicPathReady, Entity: follower})
}

// TouchStart claims the first finger unless one is already tracked.
func (s *PathDrawerSystem) TouchStart(w *ecs.World, e ecs.Entity, evt component.TouchEvent) {
	pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind())
	if !ok || pd.HasActiveTouch || len(evt.Touches) == 0 {
		return
	}
	t := evt.Touches[0]
	pd.ActiveTouch = t.ID
	pd.HasActiveTouch = true
	s.PointerDown(w, e, t.X, t.Y)
}

func (s *PathDrawerSystem) TouchMove(w *ecs.World, e ecs.Entity, evt component.TouchEvent) {
	pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind())
	if !ok || !pd.HasActiveTouch {
		return
	}
	if t, ok := findTouch(pd.ActiveTouch, evt.Touches, evt.Changed); ok {
		s.PointerMove(w, e, t.X, t.Y)
	}
}

// TouchEnd also handles cancelled touches. The tracked finger must be among
// the changed touches; events without a changed set fall back to Touches.
func (s *PathDrawerSystem) TouchEnd(w *ecs.World, e ecs.Entity, evt component.TouchEvent) {
	pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind())
	if !ok || !pd.HasActiveTouch {
		return
	}
	var found bool
	if len(evt.Changed) > 0 {
		_, found = findTouch(pd.ActiveTouch, evt.Changed)
	} else {
		_, found = findTouch(pd.ActiveTouch, evt.Touches)
	}
	if !found {
		return
	}
	s.PointerUp(w, e)
	pd.HasActiveTouch = false
}

func findTouch(id int, sets ...[]component.TouchPoint) (component.TouchPoint, bool) {
	for _, set := range sets {
		for _, t := range set {
			if t.ID == id {
				return t, true
			}
		}
	}
	return component.TouchPoint{}, false
}

// GoalRegion describes pd's goal for containment tests. The fallback
// position is the spawn-registered WorldPos when present, otherwise the goal
// position on the plane.
func GoalRegion(w *ecs.World, pd *component.PathDrawer) (*geom.GoalRegion, bool) {
	goal := ecs.Entity(pd.Goal)
	gt, ok := ecs.Get(w, goal, component.TransformComponent.Kind())
	if !ok {
		return nil, false
	}
	region := &geom.GoalRegion{
		Position:         gt.Position,
		FallbackPosition: pd.Plane.Project(gt.Position),
		FallbackRadius:   pd.GoalRadius,
	}
	if c, ok := ecs.Get(w, goal, component.ColliderComponent.Kind()); ok {
		region.Collider = c
	}
	if g, ok := ecs.Get(w, goal, component.GoalComponent.Kind()); ok && g.HasWorldPos {
		region.FallbackPosition = g.WorldPos
	}
	return region, true
}

func (s *PathDrawerSystem) onProgress(evt ecs.Event) {
	progress, ok := evt.Data.(ecs.PathProgress)
	if !ok {
		return
	}
	ecs.ForEach(s.w, component.PathDrawerComponent.Kind(), func(e ecs.Entity, pd *component.PathDrawer) {
		if ecs.Entity(pd.Follower) != evt.Entity {
			return
		}
		s.redrawTail(s.w, e, pd, progress)
	})
}

// redrawTail keeps only the part of the path still ahead of the follower.
// Segment indices refer to the follower's sanitized path.
func (s *PathDrawerSystem) redrawTail(w *ecs.World, e ecs.Entity, pd *component.PathDrawer, progress ecs.PathProgress) {
	points := pd.Points
	if f, ok := ecs.Get(w, ecs.Entity(pd.Follower), component.PathFollowerComponent.Kind()); ok && len(f.Path) > 0 {
		points = f.Path
	}
	if len(points) < 2 {
		return
	}
	remaining := make([]mgl64.Vec3, 0, len(points)+1)
	remaining = append(remaining, pd.Plane.Project(progress.Position))
	for i := max(0, progress.SegmentIndex+1); i < len(points); i++ {
		remaining = append(remaining, pd.Plane.Project(points[i]))
	}
	if len(remaining) < 2 {
		s.clearRibbon(w, e)
		return
	}
	s.buildRibbon(w, e, pd, remaining)
}

func (s *PathDrawerSystem) ensureRibbon(w *ecs.World, e ecs.Entity, pd *component.PathDrawer) *component.PathRibbon {
	if pd.LineColor.A == 0 {
		pd.LineColor = randomRibbonColor()
	}
	r, ok := ecs.Get(w, e, component.PathRibbonComponent.Kind())
	if !ok {
		r = &component.PathRibbon{Material: ribbonMaterial}
		if err := ecs.Add(w, e, component.PathRibbonComponent.Kind(), r); err != nil {
			return nil
		}
	}
	r.Color = pd.LineColor
	return r
}

func (s *PathDrawerSystem) buildRibbon(w *ecs.World, e ecs.Entity, pd *component.PathDrawer, points []mgl64.Vec3) {
	if r := s.ensureRibbon(w, e, pd); r != nil {
		BuildRibbon(r, points, pd.Plane, pd.LineWidth)
	}
}

func (s *PathDrawerSystem) clearRibbon(w *ecs.World, e ecs.Entity) {
	if r, ok := ecs.Get(w, e, component.PathRibbonComponent.Kind()); ok {
		r.Clear()
	}
}

func randomRibbonColor() color.RGBA {
	if rand.IntN(2) == 0 {
		return component.RibbonRed
	}
	return component.RibbonBlue
}
