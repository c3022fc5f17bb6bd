package entity

import (
	"fmt"

	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
)

// NewGameCoordinator builds the entity that holds the round state: the
// success gate, the level timer and the pointer event queue.
func NewGameCoordinator(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("coordinator: %w", err)
	}
	if !ecs.Has(w, e, component.GoalSuccessComponent.Kind()) {
		gs := component.NewGoalSuccess(0)
		if err := ecs.Add(w, e, component.GoalSuccessComponent.Kind(), &gs); err != nil {
			return 0, fmt.Errorf("coordinator: add goal success: %w", err)
		}
	}
	if !ecs.Has(w, e, component.PointerInputComponent.Kind()) {
		if err := ecs.Add(w, e, component.PointerInputComponent.Kind(), &component.PointerInput{}); err != nil {
			return 0, fmt.Errorf("coordinator: add pointer input: %w", err)
		}
	}
	return e, nil
}
