package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/stretchr/testify/require"
)

func (f *fixture) drawer(t *testing.T) *component.PathDrawer {
	t.Helper()
	pd, ok := ecs.Get(f.w, f.player, component.PathDrawerComponent.Kind())
	require.True(t, ok)
	return pd
}

func (f *fixture) follower(t *testing.T) *component.PathFollower {
	t.Helper()
	pf, ok := ecs.Get(f.w, f.player, component.PathFollowerComponent.Kind())
	require.True(t, ok)
	return pf
}

// draw presses on the first point, moves through the rest and releases.
func (f *fixture) draw(t *testing.T, s *PathDrawerSystem, points ...mgl64.Vec3) {
	t.Helper()
	x, y := f.screen(t, points[0])
	s.PointerDown(f.w, f.player, x, y)
	for _, p := range points[1:] {
		x, y = f.screen(t, p)
		s.PointerMove(f.w, f.player, x, y)
	}
	s.PointerUp(f.w, f.player)
}

func TestDrawReachingGoalIsAccepted(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	rec := recordTopics(f.w, ecs.TopicPathReady, ecs.TopicPathCancel)

	f.draw(t, s, mgl64.Vec3{-3, 0, 0}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2.9, 0, 0})

	require.Equal(t, 1, rec.count[ecs.TopicPathCancel])
	require.Equal(t, 1, rec.count[ecs.TopicPathReady])
	require.Equal(t, f.player, rec.last[ecs.TopicPathReady].Entity)

	pd := f.drawer(t)
	require.False(t, pd.Drawing)
	path := f.follower(t).Path
	require.Len(t, path, 5)
	requireVecNear(t, mgl64.Vec3{-3, 0, 0}, path[0], 1e-6)
	require.Equal(t, mgl64.Vec3{3, 0.8, 0}, path[4], "auto-extended to the lifted goal")
	require.False(t, f.follower(t).Following, "start is left to the spawner")

	r, ok := ecs.Get(f.w, f.player, component.PathRibbonComponent.Kind())
	require.True(t, ok)
	require.Len(t, r.Positions, 10)
	require.Equal(t, component.RibbonRed, r.Color)
}

func TestDrawPrependsFollowerPosition(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})

	f.draw(t, s, mgl64.Vec3{-2.8, 0, 0.1}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2.9, 0, 0.1})

	path := f.follower(t).Path
	require.Equal(t, mgl64.Vec3{-3, 0, 0}, path[0])
	requireVecNear(t, mgl64.Vec3{-2.8, 0, 0.1}, path[1], 1e-6)
}

func TestDrawMissingGoalIsRejected(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	rec := recordTopics(f.w, ecs.TopicPathReady)

	sentinel := []mgl64.Vec3{{9, 0, 9}}
	f.follower(t).Path = sentinel

	f.draw(t, s, mgl64.Vec3{-3, 0, 0}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, 0, 0})

	require.Zero(t, rec.count[ecs.TopicPathReady])
	require.Equal(t, sentinel, f.follower(t).Path, "path must not be handed over")
	require.Empty(t, f.drawer(t).Points)
	r, _ := ecs.Get(f.w, f.player, component.PathRibbonComponent.Kind())
	require.True(t, r.Empty())
}

func TestDrawWithoutRequireGoalIsAccepted(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	f.drawer(t).RequireGoal = false

	f.draw(t, s, mgl64.Vec3{-3, 0, 0}, mgl64.Vec3{0, 0, 0})
	require.Len(t, f.follower(t).Path, 2, "no auto-extend outside the goal")
}

func TestDrawGoalEdgeWithoutAutoExtend(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	f.drawer(t).AutoExtendToGoal = false

	f.draw(t, s, mgl64.Vec3{-3, 0, 0}, mgl64.Vec3{2.6, 0, 0})
	path := f.follower(t).Path
	require.Len(t, path, 2)
	requireVecNear(t, mgl64.Vec3{2.6, 0, 0}, path[1], 1e-6)
}

func TestPointerDownNeedsFollowerUnderPointer(t *testing.T) {
	f := newFixture(t)
	other := ecs.CreateEntity(f.w)
	rec := recordTopics(f.w, ecs.TopicPathCancel)

	for _, picker := range []Picker{stubPicker{}, stubPicker{hit: other, ok: true}} {
		s := NewPathDrawerSystem(f.w, picker)
		x, y := f.screen(t, mgl64.Vec3{-3, 0, 0})
		s.PointerDown(f.w, f.player, x, y)
		require.False(t, f.drawer(t).Drawing)
		s.Close()
	}
	require.Zero(t, rec.count[ecs.TopicPathCancel])

	f.drawer(t).StartOnObject = false
	s := NewPathDrawerSystem(f.w, nil)
	x, y := f.screen(t, mgl64.Vec3{0, 0, 0})
	s.PointerDown(f.w, f.player, x, y)
	require.True(t, f.drawer(t).Drawing)
}

func TestPointerDownClearsOldPath(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	f.draw(t, s, mgl64.Vec3{-3, 0, 0}, mgl64.Vec3{2.9, 0, 0})
	StartFollower(f.w, f.player)

	x, y := f.screen(t, mgl64.Vec3{-3, 0, 0})
	s.PointerDown(f.w, f.player, x, y)

	require.False(t, f.follower(t).Following)
	r, _ := ecs.Get(f.w, f.player, component.PathRibbonComponent.Kind())
	require.True(t, r.Empty())
	require.Len(t, f.drawer(t).Points, 1)
}

func TestPointerMoveRespectsSpacing(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	x, y := f.screen(t, mgl64.Vec3{-3, 0, 0})
	s.PointerDown(f.w, f.player, x, y)

	for _, p := range []mgl64.Vec3{{-2.9, 0, 0}, {-2.8, 0, 0}, {-2.5, 0, 0}, {-2.4, 0, 0}, {-2, 0, 0}} {
		x, y = f.screen(t, p)
		s.PointerMove(f.w, f.player, x, y)
	}
	points := f.drawer(t).Points
	require.Len(t, points, 3)
	for i := 1; i < len(points); i++ {
		require.GreaterOrEqual(t, f.plane.PlanarDistance(points[i-1], points[i]), component.DefaultMinPointSpacing)
	}
}

func TestPointerClampedBelowTopBand(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	pd := f.drawer(t)
	pd.BlockTopPixels = 150

	x, _ := f.screen(t, mgl64.Vec3{-3, 0, 0})
	s.PointerDown(f.w, f.player, x, 10)
	require.True(t, pd.Drawing)
	_, y := f.screen(t, pd.Points[0])
	require.InDelta(t, 150, y, 1e-6)
}

func touch(id int, f *fixture, t *testing.T, p mgl64.Vec3) component.TouchPoint {
	x, y := f.screen(t, p)
	return component.TouchPoint{ID: id, X: x, Y: y}
}

func TestTouchTracksSingleFinger(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	rec := recordTopics(f.w, ecs.TopicPathReady)

	first := touch(5, f, t, mgl64.Vec3{-3, 0, 0})
	s.TouchStart(f.w, f.player, component.TouchEvent{Touches: []component.TouchPoint{first}, Changed: []component.TouchPoint{first}})
	pd := f.drawer(t)
	require.True(t, pd.HasActiveTouch)
	require.Equal(t, 5, pd.ActiveTouch)

	// A second finger neither restarts nor steers the draw.
	second := touch(9, f, t, mgl64.Vec3{0, 0, 2})
	s.TouchStart(f.w, f.player, component.TouchEvent{Touches: []component.TouchPoint{second, first}, Changed: []component.TouchPoint{second}})
	s.TouchMove(f.w, f.player, component.TouchEvent{Touches: []component.TouchPoint{second}, Changed: []component.TouchPoint{second}})
	require.Len(t, pd.Points, 1)

	for _, p := range []mgl64.Vec3{{-1, 0, 0}, {1, 0, 0}, {2.9, 0, 0}} {
		tp := touch(5, f, t, p)
		s.TouchMove(f.w, f.player, component.TouchEvent{Touches: []component.TouchPoint{second, tp}, Changed: []component.TouchPoint{tp}})
	}
	require.Len(t, pd.Points, 4)

	s.TouchEnd(f.w, f.player, component.TouchEvent{Touches: []component.TouchPoint{first}, Changed: []component.TouchPoint{second}})
	require.True(t, pd.Drawing, "other finger lifted")

	s.TouchEnd(f.w, f.player, component.TouchEvent{Changed: []component.TouchPoint{first}})
	require.False(t, pd.Drawing)
	require.False(t, pd.HasActiveTouch)
	require.Equal(t, 1, rec.count[ecs.TopicPathReady])
}

func TestUpdateRoutesPointerInput(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	f.w.AddSystem(s)
	in := ecs.CreateEntity(f.w)
	input := &component.PointerInput{}
	require.NoError(t, ecs.Add(f.w, in, component.PointerInputComponent.Kind(), input))

	x0, y0 := f.screen(t, mgl64.Vec3{-3, 0, 0})
	x1, y1 := f.screen(t, mgl64.Vec3{2.9, 0, 0})
	input.Events = []component.PointerEvent{
		{Kind: component.PointerDown, X: x0, Y: y0},
		{Kind: component.PointerMove, X: x1, Y: y1},
		{Kind: component.PointerUp, X: x1, Y: y1},
	}
	f.w.Update(common.FixedDelta)

	require.Empty(t, input.Events)
	require.Len(t, f.follower(t).Path, 3)
}

func TestRibbonTrimsBehindFollower(t *testing.T) {
	f := newFixture(t)
	s := NewPathDrawerSystem(f.w, stubPicker{hit: f.player, ok: true})
	f.w.AddSystem(NewPathFollowerSystem())
	f.draw(t, s, mgl64.Vec3{-3, 0, 0}, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{2.9, 0, 0})
	StartFollower(f.w, f.player)

	r, _ := ecs.Get(f.w, f.player, component.PathRibbonComponent.Kind())
	pf := f.follower(t)
	for i := 0; i < 300 && pf.SegmentIndex < 2; i++ {
		f.w.Update(common.FixedDelta)
	}
	require.Equal(t, 2, pf.SegmentIndex)
	// Current position plus the points still ahead.
	require.Len(t, r.Positions, 2*(1+len(pf.Path)-1-pf.SegmentIndex))

	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	head := f.plane.Bias(tr.Position, ribbonDepthBias)
	mid := r.Positions[0].Add(r.Positions[1]).Mul(0.5)
	requireVecNear(t, head, mid, 1e-9)
}
