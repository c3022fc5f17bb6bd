package entity

import (
	"fmt"
	"log/slog"

	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/ecs/system"
	"github.com/milk9111/autogodraw/levels"
)

// LevelPrefabs names the prefab used for each level entity type.
type LevelPrefabs map[string]string

// BuildLevel places the level's static entities and returns the layout the
// pair spawner reads its markers from.
func BuildLevel(w *ecs.World, lvl *levels.Level, camera ecs.Entity, prefabs LevelPrefabs) (system.SpawnLayout, error) {
	if lvl == nil {
		return system.SpawnLayout{}, fmt.Errorf("build level: level is nil")
	}

	for i, ent := range lvl.Entities {
		switch ent.Type {
		case "hazard":
			e, err := NewHazardAt(w, prefabs["hazard"], ent.Position.Vec3())
			if err != nil {
				return system.SpawnLayout{}, fmt.Errorf("build level: entity %d: %w", i, err)
			}
			if err := ecs.Add(w, e, component.LevelTagComponent.Kind(), &component.LevelTag{}); err != nil {
				return system.SpawnLayout{}, fmt.Errorf("build level: entity %d: %w", i, err)
			}
		default:
			slog.Warn("level: skipping unknown entity type", "type", ent.Type, "index", i)
		}
	}

	return system.SpawnLayout{
		Plane:         lvl.PlaneSpec(),
		Camera:        camera,
		PairCount:     lvl.PairCount,
		PlayerMarkers: lvl.PlayerPositions(),
		GoalMarkers:   lvl.GoalPositions(),
	}, nil
}

// ClearLevel destroys the entities placed by BuildLevel.
func ClearLevel(w *ecs.World) int {
	n := 0
	for _, e := range w.Query(component.LevelTagComponent.Kind()) {
		if w.DestroyEntity(e) {
			n++
		}
	}
	return n
}
