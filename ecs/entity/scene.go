package entity

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/ecs/system"
	"github.com/milk9111/autogodraw/geom"
	"github.com/milk9111/autogodraw/levels"
	"github.com/milk9111/autogodraw/prefabs"
)

type SceneOptions struct {
	// Plane overrides the level's drawing plane when set.
	Plane *geom.Plane
	// Input polls ebiten for pointer events. Headless callers leave it off and
	// feed PointerInput directly.
	Input bool
	// LevelName is the loaded level's name in the game's level sequence.
	LevelName string
	// OnAdvance, when set, is called with the next level's name once a solved
	// level has been shown for the game's advance delay.
	OnAdvance func(next string)
}

type closer interface {
	Close()
}

// Scene is one loaded level: a world with its camera, coordinator, systems
// and spawned pairs.
type Scene struct {
	World       *ecs.World
	Level       *levels.Level
	Camera      ecs.Entity
	Coordinator ecs.Entity
	Layout      system.SpawnLayout

	Physics *system.PhysicsSystem
	Drawer  *system.PathDrawerSystem
	Spawner *system.PairSpawner

	closers []closer
	subs    []ecs.Subscription
	log     *slog.Logger

	next         string
	advanceDelay time.Duration
	onAdvance    func(string)
	advanceTimer ecs.TimerID
}

func NewScene(spec *prefabs.GameSpec, lvl *levels.Level, opts SceneOptions) (*Scene, error) {
	if spec == nil || lvl == nil {
		return nil, fmt.Errorf("scene: game spec and level are required")
	}

	w := ecs.NewWorld()
	s := &Scene{World: w, Level: lvl, log: slog.Default().With("system", "scene")}

	coordinator, err := NewGameCoordinator(w, spec.Coordinator)
	if err != nil {
		return nil, err
	}
	s.Coordinator = coordinator

	camera, err := NewCameraForLevel(w, spec.Camera, lvl)
	if err != nil {
		return nil, err
	}
	s.Camera = camera

	layout, err := BuildLevel(w, lvl, camera, LevelPrefabs{"hazard": spec.Hazard})
	if err != nil {
		return nil, err
	}
	if opts.Plane != nil {
		layout.Plane.Plane = *opts.Plane
	}
	s.Layout = layout

	s.Physics = system.NewPhysicsSystem(layout.Plane)
	s.Drawer = system.NewPathDrawerSystem(w, s.Physics)
	hazards := system.NewHazardSystem(w, s.Physics)
	goals := system.NewGoalSuccessSystem(w, coordinator)
	timer := system.NewLevelTimerSystem(w)
	s.Spawner = system.NewPairSpawner(w, TemplatesFromSpec(spec))
	s.closers = []closer{s.Drawer, hazards, goals, timer, s.Spawner}

	if opts.Input {
		w.AddSystem(system.NewInputSystem())
	}
	w.AddSystem(s.Drawer)
	w.AddSystem(system.NewPathFollowerSystem())
	w.AddSystem(s.Physics)
	w.AddSystem(hazards)
	w.AddSystem(goals)
	w.AddSystem(timer)

	// An undetermined player count is pinned to the spawned pairs so a slow
	// second draw cannot arm the gate with fewer participants.
	if gs := s.GoalSuccess(); gs != nil && gs.TotalPlayers == 0 {
		s.subs = append(s.subs, w.Events().Subscribe(ecs.TopicPlayersSpawnedCount, s.onSpawnedCount))
	}

	if next, ok := spec.NextLevel(opts.LevelName); ok && opts.OnAdvance != nil {
		s.next = next
		s.advanceDelay = spec.AdvanceDelay
		s.onAdvance = opts.OnAdvance
		s.subs = append(s.subs,
			w.Events().Subscribe(ecs.TopicGameSuccess, s.scheduleAdvance),
			w.Events().Subscribe(ecs.TopicGameReset, s.cancelAdvance),
		)
	}

	if _, err := s.Spawner.Spawn(layout); err != nil {
		s.Close()
		return nil, fmt.Errorf("scene: %w", err)
	}
	s.Physics.Sync(w)
	return s, nil
}

func (s *Scene) Update(dt float64) {
	s.World.Update(dt)
}

// Tick advances only the scene's timers. It keeps a pending level advance
// running while the world itself is paused behind a result screen.
func (s *Scene) Tick(dt float64) {
	s.World.Timers().Advance(time.Duration(dt * float64(time.Second)))
}

// Next reports the level that follows this one, if any.
func (s *Scene) Next() (string, bool) {
	return s.next, s.next != ""
}

func (s *Scene) scheduleAdvance(ecs.Event) {
	if s.advanceTimer != 0 {
		return
	}
	s.log.Info("level solved, advancing", "next", s.next, "delay", s.advanceDelay)
	s.advanceTimer = s.World.Timers().After(s.advanceDelay, func() {
		s.advanceTimer = 0
		s.onAdvance(s.next)
	})
}

func (s *Scene) cancelAdvance(ecs.Event) {
	if s.advanceTimer == 0 {
		return
	}
	s.World.Timers().Cancel(s.advanceTimer)
	s.advanceTimer = 0
}

// Retry destroys the spawned pairs, resets the round and spawns them again.
func (s *Scene) Retry() error {
	s.Spawner.Clear()
	s.World.Events().Publish(ecs.Event{Topic: ecs.TopicGameReset})
	if _, err := s.Spawner.Spawn(s.Layout); err != nil {
		return fmt.Errorf("scene: retry: %w", err)
	}
	s.Physics.Sync(s.World)
	s.log.Info("round reset", "pairs", len(s.Spawner.Players()))
	return nil
}

func (s *Scene) Close() {
	s.cancelAdvance(ecs.Event{})
	for _, c := range s.closers {
		c.Close()
	}
	s.closers = nil
	for _, sub := range s.subs {
		s.World.Events().Unsubscribe(sub)
	}
	s.subs = nil
}

func (s *Scene) onSpawnedCount(evt ecs.Event) {
	n, ok := evt.Data.(int)
	gs := s.GoalSuccess()
	if !ok || gs == nil || gs.Armed {
		return
	}
	gs.TotalPlayers = n
	gs.Expected = n
}

func (s *Scene) GoalSuccess() *component.GoalSuccess {
	gs, _ := ecs.Get(s.World, s.Coordinator, component.GoalSuccessComponent.Kind())
	return gs
}

func (s *Scene) LevelTimer() *component.LevelTimer {
	lt, _ := ecs.Get(s.World, s.Coordinator, component.LevelTimerComponent.Kind())
	return lt
}

// Feed queues pointer events for the next update.
func (s *Scene) Feed(events ...component.PointerEvent) {
	in, ok := ecs.Get(s.World, s.Coordinator, component.PointerInputComponent.Kind())
	if !ok {
		return
	}
	in.Events = append(in.Events, events...)
}

// FeedStraightDraw queues a press on player, drags in step sized moves to
// target and releases. It reports false when either end is off screen.
func (s *Scene) FeedStraightDraw(player ecs.Entity, target mgl64.Vec3, step float64) bool {
	t, ok := ecs.Get(s.World, player, component.TransformComponent.Kind())
	if !ok || step <= 0 {
		return false
	}
	from := t.Position
	x0, y0, ok := system.WorldToScreen(s.World, s.Camera, from)
	if !ok {
		return false
	}
	if _, _, ok := system.WorldToScreen(s.World, s.Camera, target); !ok {
		return false
	}

	events := []component.PointerEvent{{Kind: component.PointerDown, X: x0, Y: y0}}
	n := int(math.Ceil(target.Sub(from).Len() / step))
	for i := 1; i <= n; i++ {
		p := from.Add(target.Sub(from).Mul(float64(i) / float64(n)))
		x, y, ok := system.WorldToScreen(s.World, s.Camera, p)
		if !ok {
			continue
		}
		events = append(events, component.PointerEvent{Kind: component.PointerMove, X: x, Y: y})
	}
	events = append(events, component.PointerEvent{Kind: component.PointerUp})
	s.Feed(events...)
	return true
}
