package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
	"github.com/stretchr/testify/require"
)

type goalFixture struct {
	*fixture
	second      ecs.Entity
	secondGoal  ecs.Entity
	coordinator ecs.Entity
	gate        *component.GoalSuccess
	system      *GoalSuccessSystem
	rec         *record
}

func newGoalFixture(t *testing.T, total int) *goalFixture {
	t.Helper()
	f := &goalFixture{fixture: newFixture(t)}
	f.secondGoal = addGoal(t, f.w, mgl64.Vec3{3, 0, 2}, &component.Collider{Shape: geom.ShapeSphere, Radius: 0.5})
	f.second = addPlayer(t, f.w, f.plane, f.camera, f.secondGoal, mgl64.Vec3{-3, 0, 2})

	f.coordinator = ecs.CreateEntity(f.w)
	gs := component.NewGoalSuccess(total)
	require.NoError(t, ecs.Add(f.w, f.coordinator, component.GoalSuccessComponent.Kind(), &gs))
	f.gate, _ = ecs.Get(f.w, f.coordinator, component.GoalSuccessComponent.Kind())
	f.system = NewGoalSuccessSystem(f.w, f.coordinator)
	f.rec = recordTopics(f.w, ecs.TopicGameSuccess)
	return f
}

func (f *goalFixture) publish(topic ecs.Topic, e ecs.Entity) {
	f.w.Events().Publish(ecs.Event{Topic: topic, Entity: e})
}

// arriveAt moves e onto pos and reports the end of its path.
func (f *goalFixture) arriveAt(t *testing.T, e ecs.Entity, pos mgl64.Vec3) {
	t.Helper()
	tr, ok := ecs.Get(f.w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	tr.Position = pos
	f.publish(ecs.TopicPlayerPathEnd, e)
}

func TestGoalSuccessTwoParticipants(t *testing.T) {
	f := newGoalFixture(t, 0)
	require.NotEmpty(t, f.gate.Round)

	f.publish(ecs.TopicPathReady, f.player)
	f.w.Update(0.1)
	f.publish(ecs.TopicPathReady, f.second)
	f.w.Update(0.2)
	require.False(t, f.gate.Armed, "second ready restarts the debounce")

	// Arrivals before arming are ignored.
	f.arriveAt(t, f.player, mgl64.Vec3{3, 0.8, 0})
	require.Zero(t, f.gate.ArrivedCount())

	f.w.Update(0.1)
	require.True(t, f.gate.Armed)
	require.Equal(t, 2, f.gate.Expected)

	f.arriveAt(t, f.player, mgl64.Vec3{3, 0.8, 0})
	require.Zero(t, f.rec.count[ecs.TopicGameSuccess])
	f.arriveAt(t, f.second, mgl64.Vec3{3.4, 0, 2.1})
	require.Equal(t, 1, f.rec.count[ecs.TopicGameSuccess])
	require.True(t, f.gate.Done)

	// Idempotent.
	f.arriveAt(t, f.second, mgl64.Vec3{3, 0, 2})
	f.arriveAt(t, f.player, mgl64.Vec3{3, 0, 0})
	f.publish(ecs.TopicPathReady, f.player)
	require.Equal(t, 1, f.rec.count[ecs.TopicGameSuccess])
}

func TestGoalSuccessArrivalOutsideTolerance(t *testing.T) {
	f := newGoalFixture(t, 1)
	f.publish(ecs.TopicPathReady, f.player)
	f.w.Update(0.3)
	require.True(t, f.gate.Armed)

	// goalRadius 0.35 + tolerance 0.12
	f.arriveAt(t, f.player, mgl64.Vec3{3.5, 0, 0})
	require.Zero(t, f.rec.count[ecs.TopicGameSuccess])
	require.False(t, f.gate.HasArrived(uint64(f.player)))

	f.arriveAt(t, f.player, mgl64.Vec3{3.25, 5, 0.25})
	require.Equal(t, 1, f.rec.count[ecs.TopicGameSuccess])
}

func TestGoalSuccessNeverFiresWithMissingReady(t *testing.T) {
	f := newGoalFixture(t, 2)
	f.publish(ecs.TopicPathReady, f.player)
	f.publish(ecs.TopicPathReady, f.second)
	f.publish(ecs.TopicPathCancel, f.second)
	f.w.Update(0.5)
	require.False(t, f.gate.Armed)

	f.arriveAt(t, f.player, mgl64.Vec3{3, 0, 0})
	f.arriveAt(t, f.second, mgl64.Vec3{3, 0, 2})
	require.Zero(t, f.rec.count[ecs.TopicGameSuccess])

	// Armed, then a cancel drops the ready count below expected.
	f.publish(ecs.TopicPathReady, f.second)
	f.w.Update(0.5)
	require.True(t, f.gate.Armed)
	f.publish(ecs.TopicPathCancel, f.second)
	f.arriveAt(t, f.player, mgl64.Vec3{3, 0, 0})
	f.arriveAt(t, f.second, mgl64.Vec3{3, 0, 2})
	require.Zero(t, f.rec.count[ecs.TopicGameSuccess])
}

func TestGoalSuccessResetMidRound(t *testing.T) {
	f := newGoalFixture(t, 0)
	f.publish(ecs.TopicPathReady, f.player)
	f.publish(ecs.TopicPathReady, f.second)
	f.w.Update(0.3)
	require.True(t, f.gate.Armed)
	f.arriveAt(t, f.player, mgl64.Vec3{3, 0, 0})
	round := f.gate.Round

	f.publish(ecs.TopicPathReady, f.player)
	require.Equal(t, 1, f.w.Timers().Pending())
	f.publish(ecs.TopicGameReset, 0)

	require.False(t, f.gate.Armed)
	require.False(t, f.gate.Done)
	require.Zero(t, f.gate.Expected)
	require.Zero(t, f.gate.ReadyCount())
	require.Zero(t, f.gate.ArrivedCount())
	require.Zero(t, f.gate.ParticipantCount())
	require.Zero(t, f.w.Timers().Pending())
	require.NotEqual(t, round, f.gate.Round)

	f.arriveAt(t, f.second, mgl64.Vec3{3, 0, 2})
	require.Zero(t, f.rec.count[ecs.TopicGameSuccess])
}

func TestGoalSuccessCloseUnsubscribes(t *testing.T) {
	f := newGoalFixture(t, 0)
	f.publish(ecs.TopicPathReady, f.player)
	f.system.Close()
	require.Zero(t, f.w.Timers().Pending())
	require.Zero(t, f.w.Events().Subscribers(ecs.TopicPlayerPathEnd))

	f.publish(ecs.TopicPathReady, f.second)
	require.Equal(t, 1, f.gate.ReadyCount())
}

func TestGoalSuccessMeasuresPathEndBeforeSnap(t *testing.T) {
	f := newGoalFixture(t, 1)
	f.publish(ecs.TopicPathReady, f.player)
	f.w.Update(0.3)
	require.True(t, f.gate.Armed)

	// The transform sits well off the goal but the path ended on it.
	tr, _ := ecs.Get(f.w, f.player, component.TransformComponent.Kind())
	tr.Position = mgl64.Vec3{3, 0, 2}
	f.w.Events().Publish(ecs.Event{
		Topic:  ecs.TopicPlayerPathEnd,
		Entity: f.player,
		Data:   ecs.PathEnd{Position: mgl64.Vec3{3.1, 0, 0.1}},
	})
	require.Equal(t, 1, f.rec.count[ecs.TopicGameSuccess])
}

func TestGoalSuccessBoxGoalOnXYPlane(t *testing.T) {
	w := ecs.NewWorld()
	xy := geom.PlaneSpec{Plane: geom.PlaneXY}
	camera := addCamera(t, w)
	goal := addGoal(t, w, mgl64.Vec3{6, 2, 0}, &component.Collider{Shape: geom.ShapeBox, HalfExtents: mgl64.Vec3{0.45, 0.45, 0.45}})
	player := addPlayer(t, w, xy, camera, goal, mgl64.Vec3{-6, -2, 0})

	coordinator := ecs.CreateEntity(w)
	gs := component.NewGoalSuccess(1)
	require.NoError(t, ecs.Add(w, coordinator, component.GoalSuccessComponent.Kind(), &gs))
	NewGoalSuccessSystem(w, coordinator)
	w.AddSystem(NewPathFollowerSystem())
	rec := recordTopics(w, ecs.TopicGameSuccess)

	w.Events().Publish(ecs.Event{Topic: ecs.TopicPathReady, Entity: player})
	w.Update(0.3)
	SetFollowerPath(w, player, []mgl64.Vec3{{-6, -2, 0}, {6, 2, 0}})
	StartFollower(w, player)
	runUntilPathEnd(t, w, 2000)

	// Resting on the box lifts the player 0.95 above the goal centre.
	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	requireVecNear(t, mgl64.Vec3{6, 2.95, 0}, tr.Position, 1e-9)
	require.Equal(t, 1, rec.count[ecs.TopicGameSuccess])
}

func TestGoalSuccessRecordsReadyAfterDone(t *testing.T) {
	f := newGoalFixture(t, 1)
	f.publish(ecs.TopicPathReady, f.player)
	f.w.Update(0.3)
	f.arriveAt(t, f.player, mgl64.Vec3{3, 0, 0})
	require.True(t, f.gate.Done)

	f.publish(ecs.TopicPathReady, f.second)
	require.Equal(t, 2, f.gate.ParticipantCount())
	require.True(t, f.gate.IsReady(uint64(f.second)))
	require.Zero(t, f.w.Timers().Pending())
	require.Equal(t, 1, f.rec.count[ecs.TopicGameSuccess])
}
