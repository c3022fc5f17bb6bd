package system

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
)

// GoalSuccessSystem drives the GoalSuccess gate held by the coordinator
// entity from bus events. It publishes game:success at most once per round.
type GoalSuccessSystem struct {
	w           *ecs.World
	coordinator ecs.Entity
	subs        []ecs.Subscription
	log         *slog.Logger
}

func NewGoalSuccessSystem(w *ecs.World, coordinator ecs.Entity) *GoalSuccessSystem {
	s := &GoalSuccessSystem{
		w:           w,
		coordinator: coordinator,
		log:         slog.Default().With("system", "goal_success"),
	}
	bus := w.Events()
	s.subs = append(s.subs,
		bus.Subscribe(ecs.TopicPathReady, s.onReady),
		bus.Subscribe(ecs.TopicPathCancel, s.onCancel),
		bus.Subscribe(ecs.TopicPlayerPathEnd, s.onPathEnd),
		bus.Subscribe(ecs.TopicGameReset, s.onReset),
	)
	if gs := s.state(); gs != nil {
		s.newRound(gs)
	}
	return s
}

func (s *GoalSuccessSystem) Close() {
	for _, sub := range s.subs {
		s.w.Events().Unsubscribe(sub)
	}
	s.subs = nil
	if gs := s.state(); gs != nil && gs.ArmTimer != 0 {
		s.w.Timers().Cancel(ecs.TimerID(gs.ArmTimer))
		gs.ArmTimer = 0
	}
}

// Update is a no-op; the gate reacts to events only.
func (s *GoalSuccessSystem) Update(*ecs.World) {}

func (s *GoalSuccessSystem) state() *component.GoalSuccess {
	gs, ok := ecs.Get(s.w, s.coordinator, component.GoalSuccessComponent.Kind())
	if !ok {
		return nil
	}
	return gs
}

func (s *GoalSuccessSystem) debug(gs *component.GoalSuccess, msg string, args ...any) {
	if !gs.Debug {
		return
	}
	s.log.Debug(msg, append([]any{"round", gs.Round}, args...)...)
}

func (s *GoalSuccessSystem) newRound(gs *component.GoalSuccess) {
	gs.Round = uuid.NewString()
}

func (s *GoalSuccessSystem) onReady(evt ecs.Event) {
	gs := s.state()
	if gs == nil {
		return
	}
	gs.MarkReady(uint64(evt.Entity))
	s.debug(gs, "path ready", "entity", evt.Entity, "ready", gs.ReadyCount(), "expected", gs.Expected)
	if gs.Done {
		return
	}

	if gs.ArmTimer != 0 {
		s.w.Timers().Cancel(ecs.TimerID(gs.ArmTimer))
	}
	gs.ArmTimer = uint64(s.w.Timers().After(gs.ArmDelay, s.arm))
}

func (s *GoalSuccessSystem) arm() {
	gs := s.state()
	if gs == nil {
		return
	}
	gs.ArmTimer = 0
	if gs.Arm() {
		s.debug(gs, "armed", "expected", gs.Expected)
	}
}

func (s *GoalSuccessSystem) onCancel(evt ecs.Event) {
	gs := s.state()
	if gs == nil || gs.Done {
		return
	}
	gs.MarkCancelled(uint64(evt.Entity))
	s.debug(gs, "path cancelled", "entity", evt.Entity, "ready", gs.ReadyCount())
}

func (s *GoalSuccessSystem) onPathEnd(evt ecs.Event) {
	gs := s.state()
	if gs == nil || !gs.AcceptsArrivals() {
		return
	}
	player := evt.Entity
	if !gs.IsReady(uint64(player)) {
		return
	}
	dist, tolerance, ok := s.goalDistance(player, evt.Data, gs)
	if !ok {
		s.debug(gs, "arrival unmeasurable", "entity", player)
		return
	}
	if dist > tolerance {
		s.debug(gs, "ended short of goal", "entity", player, "distance", dist, "tolerance", tolerance)
		return
	}
	if !gs.MarkArrived(uint64(player)) {
		s.debug(gs, "arrived", "entity", player, "arrived", gs.ArrivedCount(), "expected", gs.Expected)
		return
	}
	s.debug(gs, "success", "arrived", gs.ArrivedCount())
	s.w.Events().Publish(ecs.Event{Topic: ecs.TopicGameSuccess})
}

// goalDistance measures the planar distance between the player's path end and
// the goal of the drawer that steers it. The path end carried by the event
// wins over the transform, which may already rest on top of the goal.
func (s *GoalSuccessSystem) goalDistance(player ecs.Entity, data any, gs *component.GoalSuccess) (dist, tolerance float64, ok bool) {
	var end mgl64.Vec3
	if pe, isEnd := data.(ecs.PathEnd); isEnd {
		end = pe.Position
	} else {
		pt, found := ecs.Get(s.w, player, component.TransformComponent.Kind())
		if !found {
			return 0, 0, false
		}
		end = pt.Position
	}
	pd := drawerFor(s.w, player)
	if pd == nil {
		return 0, 0, false
	}
	gt, ok := ecs.Get(s.w, ecs.Entity(pd.Goal), component.TransformComponent.Kind())
	if !ok {
		return 0, 0, false
	}
	radius := pd.GoalRadius
	if radius <= 0 {
		radius = component.DefaultGoalRadius
	}
	p := pd.Plane.Project(end)
	g := pd.Plane.Project(gt.Position)
	return pd.Plane.PlanarDistance(p, g), radius + gs.ExtraGoalTolerance, true
}

func (s *GoalSuccessSystem) onReset(ecs.Event) {
	gs := s.state()
	if gs == nil {
		return
	}
	if gs.ArmTimer != 0 {
		s.w.Timers().Cancel(ecs.TimerID(gs.ArmTimer))
	}
	gs.Reset()
	s.newRound(gs)
	s.debug(gs, "reset")
}

// drawerFor returns the PathDrawer whose follower is e.
func drawerFor(w *ecs.World, e ecs.Entity) *component.PathDrawer {
	if pd, ok := ecs.Get(w, e, component.PathDrawerComponent.Kind()); ok && ecs.Entity(pd.Follower) == e {
		return pd
	}
	var found *component.PathDrawer
	ecs.ForEach(w, component.PathDrawerComponent.Kind(), func(_ ecs.Entity, pd *component.PathDrawer) {
		if found == nil && ecs.Entity(pd.Follower) == e {
			found = pd
		}
	})
	return found
}
