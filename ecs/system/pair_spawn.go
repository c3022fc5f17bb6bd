package system

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
)

// PairTemplates builds the player and goal entities of one colour.
type PairTemplates interface {
	BuildPlayer(w *ecs.World, blue bool, pos mgl64.Vec3) (ecs.Entity, error)
	BuildGoal(w *ecs.World, blue bool, pos mgl64.Vec3) (ecs.Entity, error)
}

// SpawnLayout is the level data the spawner places pairs from.
type SpawnLayout struct {
	Plane         geom.PlaneSpec
	Camera        ecs.Entity
	PairCount     int // <= 0 spawns one pair per marker
	PlayerMarkers []mgl64.Vec3
	GoalMarkers   []mgl64.Vec3
}

// PairSpawner places alternating red/blue player/goal pairs and starts every
// follower together once all spawned players have a ready path.
type PairSpawner struct {
	w         *ecs.World
	templates PairTemplates
	log       *slog.Logger

	players []ecs.Entity
	goals   []ecs.Entity
	ready   map[ecs.Entity]struct{}
	subs    []ecs.Subscription
}

func NewPairSpawner(w *ecs.World, templates PairTemplates) *PairSpawner {
	s := &PairSpawner{
		w:         w,
		templates: templates,
		log:       slog.Default().With("system", "pair_spawn"),
		ready:     make(map[ecs.Entity]struct{}),
	}
	bus := w.Events()
	s.subs = append(s.subs,
		bus.Subscribe(ecs.TopicPathReady, s.onReady),
		bus.Subscribe(ecs.TopicPathCancel, s.onCancel),
		bus.Subscribe(ecs.TopicPlayerDestroyed, s.onDestroyed),
	)
	return s
}

func (s *PairSpawner) Close() {
	for _, sub := range s.subs {
		s.w.Events().Unsubscribe(sub)
	}
	s.subs = nil
}

// Players returns the spawned players still tracked.
func (s *PairSpawner) Players() []ecs.Entity {
	return append([]ecs.Entity(nil), s.players...)
}

func (s *PairSpawner) Goals() []ecs.Entity {
	return append([]ecs.Entity(nil), s.goals...)
}

// Spawn clears any previous spawn and places the pairs of layout.
func (s *PairSpawner) Spawn(layout SpawnLayout) (int, error) {
	s.Clear()
	if s.templates == nil {
		return 0, fmt.Errorf("pair spawn: no templates")
	}
	if len(layout.PlayerMarkers) == 0 || len(layout.GoalMarkers) == 0 {
		s.log.Warn("no spawn markers")
		return 0, nil
	}

	n := min(len(layout.PlayerMarkers), len(layout.GoalMarkers))
	if layout.PairCount > 0 {
		n = min(n, layout.PairCount)
	}

	for i := 0; i < n; i++ {
		blue := i%2 == 1
		player, err := s.templates.BuildPlayer(s.w, blue, layout.PlayerMarkers[i])
		if err != nil {
			return i, fmt.Errorf("pair spawn: player %d: %w", i, err)
		}
		goal, err := s.templates.BuildGoal(s.w, blue, layout.GoalMarkers[i])
		if err != nil {
			s.w.DestroyEntity(player)
			return i, fmt.Errorf("pair spawn: goal %d: %w", i, err)
		}
		s.players = append(s.players, player)
		s.goals = append(s.goals, goal)
		s.link(player, goal, blue, layout)
	}

	s.log.Info("spawned pairs", "count", n)
	s.w.Events().Publish(ecs.Event{Topic: ecs.TopicPlayersSpawnedCount, Data: len(s.players)})
	return n, nil
}

func (s *PairSpawner) link(player, goal ecs.Entity, blue bool, layout SpawnLayout) {
	w := s.w
	for _, e := range []ecs.Entity{player, goal} {
		_ = ecs.Add(w, e, component.SpawnedTagComponent.Kind(), &component.SpawnedTag{})
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			_ = ecs.Add(w, e, component.SpawnPoseComponent.Kind(), &component.SpawnPose{Position: t.Position, Rotation: t.Rotation})
		}
	}
	_ = ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	_ = ecs.Add(w, goal, component.GoalTagComponent.Kind(), &component.GoalTag{})

	if gt, ok := ecs.Get(w, goal, component.TransformComponent.Kind()); ok {
		_ = ecs.Add(w, goal, component.GoalComponent.Kind(), &component.Goal{WorldPos: gt.Position, HasWorldPos: true})
	}

	if pd, ok := ecs.Get(w, player, component.PathDrawerComponent.Kind()); ok {
		if layout.Camera.Valid() {
			pd.Camera = uint64(layout.Camera)
		}
		pd.Plane = layout.Plane
		pd.Goal = uint64(goal)
		pd.Follower = uint64(player)
		pd.RequireGoal = true
		pd.AutoExtendToGoal = true
		pd.LineColor = component.RibbonRed
		if blue {
			pd.LineColor = component.RibbonBlue
		}
		pd.Drawing = false
		pd.Points = nil
		if r, ok := ecs.Get(w, player, component.PathRibbonComponent.Kind()); ok {
			r.Clear()
		}
	}

	if f, ok := ecs.Get(w, player, component.PathFollowerComponent.Kind()); ok {
		f.Plane = layout.Plane
		f.Goal = uint64(goal)
		f.Disabled = false
		SetFollowerPath(w, player, nil)
	}
}

// Clear destroys every spawned entity, forgets the ready set and publishes
// player:destroyed for each player it tracked.
func (s *PairSpawner) Clear() {
	for _, e := range s.w.Query(component.SpawnedTagComponent.Kind()) {
		s.w.DestroyEntity(e)
	}
	players := s.players
	for _, list := range [][]ecs.Entity{s.players, s.goals} {
		for _, e := range list {
			s.w.DestroyEntity(e)
		}
	}
	s.players = nil
	s.goals = nil
	clear(s.ready)
	for _, p := range players {
		s.w.Events().Publish(ecs.Event{Topic: ecs.TopicPlayerDestroyed, Entity: p})
	}
}

func (s *PairSpawner) tracked(e ecs.Entity) bool {
	for _, p := range s.players {
		if p == e {
			return true
		}
	}
	return false
}

func (s *PairSpawner) onReady(evt ecs.Event) {
	if !s.tracked(evt.Entity) {
		return
	}
	s.ready[evt.Entity] = struct{}{}
	if len(s.ready) == len(s.players) {
		s.startAll()
	}
}

func (s *PairSpawner) onCancel(evt ecs.Event) {
	delete(s.ready, evt.Entity)
}

func (s *PairSpawner) onDestroyed(evt ecs.Event) {
	delete(s.ready, evt.Entity)
	for i, p := range s.players {
		if p == evt.Entity {
			s.players = append(s.players[:i], s.players[i+1:]...)
			break
		}
	}
}

func (s *PairSpawner) startAll() {
	for _, p := range s.players {
		StartFollower(s.w, p)
	}
}
