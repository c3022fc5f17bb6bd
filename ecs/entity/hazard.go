package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
)

func NewHazardAt(w *ecs.World, prefabPath string, pos mgl64.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("hazard: %w", err)
	}
	if !ecs.Has(w, e, component.HazardComponent.Kind()) {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("hazard: prefab %q has no hazard component", prefabPath)
	}
	if err := SetEntityPosition(w, e, pos); err != nil {
		return 0, fmt.Errorf("hazard: set position: %w", err)
	}
	return e, nil
}
