package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	w      *ecs.World
	plane  geom.PlaneSpec
	camera ecs.Entity
	player ecs.Entity
	goal   ecs.Entity
}

// newFixture lays out a top-down camera over the XZ plane with one player at
// (-3,0,0) and a sphere goal at (3,0,0).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{w: ecs.NewWorld(), plane: geom.PlaneSpec{Plane: geom.PlaneXZ}}
	f.camera = addCamera(t, f.w)
	f.goal = addGoal(t, f.w, mgl64.Vec3{3, 0, 0}, &component.Collider{Shape: geom.ShapeSphere, Radius: 0.5})
	f.player = addPlayer(t, f.w, f.plane, f.camera, f.goal, mgl64.Vec3{-3, 0, 0})
	return f
}

func addCamera(t *testing.T, w *ecs.World) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := component.NewTransform(mgl64.Vec3{0, 10, 0})
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
	require.NoError(t, ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Up:     mgl64.Vec3{0, 0, -1},
		FovY:   60,
		Near:   0.1,
		Far:    100,
		Width:  1280,
		Height: 720,
	}))
	return e
}

func addGoal(t *testing.T, w *ecs.World, pos mgl64.Vec3, c *component.Collider) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := component.NewTransform(pos)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
	require.NoError(t, ecs.Add(w, e, component.GoalTagComponent.Kind(), &component.GoalTag{}))
	if c != nil {
		require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), c))
	}
	return e
}

func addPlayer(t *testing.T, w *ecs.World, plane geom.PlaneSpec, camera, goal ecs.Entity, pos mgl64.Vec3) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr := component.NewTransform(pos)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &tr))
	require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: geom.ShapeCylinder, Radius: 0.3, Height: 1}))

	pf := component.DefaultPathFollower()
	pf.Plane = plane
	pf.Goal = uint64(goal)
	require.NoError(t, ecs.Add(w, e, component.PathFollowerComponent.Kind(), &pf))

	pd := component.DefaultPathDrawer()
	pd.Camera = uint64(camera)
	pd.Follower = uint64(e)
	pd.Goal = uint64(goal)
	pd.Plane = plane
	pd.LineColor = component.RibbonRed
	pd.BlockTopPixels = 0
	require.NoError(t, ecs.Add(w, e, component.PathDrawerComponent.Kind(), &pd))
	return e
}

func (f *fixture) screen(t *testing.T, p mgl64.Vec3) (float64, float64) {
	t.Helper()
	x, y, ok := WorldToScreen(f.w, f.camera, p)
	require.True(t, ok, "%v should be visible", p)
	return x, y
}

// record counts events per topic and keeps the last one.
type record struct {
	count map[ecs.Topic]int
	last  map[ecs.Topic]ecs.Event
}

func recordTopics(w *ecs.World, topics ...ecs.Topic) *record {
	r := &record{count: make(map[ecs.Topic]int), last: make(map[ecs.Topic]ecs.Event)}
	for _, topic := range topics {
		w.Events().Subscribe(topic, func(evt ecs.Event) {
			r.count[evt.Topic]++
			r.last[evt.Topic] = evt
		})
	}
	return r
}

type stubPicker struct {
	hit ecs.Entity
	ok  bool
}

func (p stubPicker) Pick(*ecs.World, ecs.Entity, float64, float64, geom.PlaneSpec) (ecs.Entity, bool) {
	return p.hit, p.ok
}

func requireVecNear(t *testing.T, want, got mgl64.Vec3, eps float64) {
	t.Helper()
	for i := range want {
		require.InDelta(t, want[i], got[i], eps, "want %v, got %v", want, got)
	}
}

// requireQuatNear accepts either sign of q since both encode one rotation.
func requireQuatNear(t *testing.T, want, got mgl64.Quat, eps float64) {
	t.Helper()
	if want.Dot(got) < 0 {
		got = got.Scale(-1)
	}
	require.InDelta(t, want.W, got.W, eps, "want %v, got %v", want, got)
	requireVecNear(t, want.V, got.V, eps)
}
