package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/prefabs"
)

// Templates builds player and goal entities from the prefabs named in the
// game spec.
type Templates struct {
	PlayerRed  string
	PlayerBlue string
	GoalRed    string
	GoalBlue   string
}

func TemplatesFromSpec(spec *prefabs.GameSpec) Templates {
	return Templates{
		PlayerRed:  spec.PlayerRed,
		PlayerBlue: spec.PlayerBlue,
		GoalRed:    spec.GoalRed,
		GoalBlue:   spec.GoalBlue,
	}
}

func (t Templates) BuildPlayer(w *ecs.World, blue bool, pos mgl64.Vec3) (ecs.Entity, error) {
	path := t.PlayerRed
	if blue {
		path = t.PlayerBlue
	}
	e, err := t.build(w, path, pos)
	if err != nil {
		return 0, fmt.Errorf("player: %w", err)
	}
	if !ecs.Has(w, e, component.PathFollowerComponent.Kind()) || !ecs.Has(w, e, component.PathDrawerComponent.Kind()) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player: prefab %q needs path_follower and path_drawer", path)
	}
	return e, nil
}

func (t Templates) BuildGoal(w *ecs.World, blue bool, pos mgl64.Vec3) (ecs.Entity, error) {
	path := t.GoalRed
	if blue {
		path = t.GoalBlue
	}
	e, err := t.build(w, path, pos)
	if err != nil {
		return 0, fmt.Errorf("goal: %w", err)
	}
	return e, nil
}

func (t Templates) build(w *ecs.World, path string, pos mgl64.Vec3) (ecs.Entity, error) {
	if path == "" {
		return 0, fmt.Errorf("no prefab configured")
	}
	e, err := BuildEntity(w, path)
	if err != nil {
		return 0, err
	}
	if err := SetEntityPosition(w, e, pos); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}
