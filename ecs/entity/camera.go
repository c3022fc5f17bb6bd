package entity

import (
	"fmt"

	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/levels"
)

func NewCamera(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	camera, err := BuildEntity(w, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("camera: %w", err)
	}
	if !ecs.Has(w, camera, component.CameraComponent.Kind()) {
		ecs.DestroyEntity(w, camera)
		return 0, fmt.Errorf("camera: prefab %q has no camera component", prefabPath)
	}
	if !ecs.Has(w, camera, component.CameraTagComponent.Kind()) {
		if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
			return 0, fmt.Errorf("camera: add camera tag: %w", err)
		}
	}
	return camera, nil
}

// NewCameraForLevel builds the camera prefab and applies the level's
// placement, if it has one.
func NewCameraForLevel(w *ecs.World, prefabPath string, lvl *levels.Level) (ecs.Entity, error) {
	camera, err := NewCamera(w, prefabPath)
	if err != nil {
		return 0, err
	}
	if lvl == nil || lvl.Camera == nil {
		return camera, nil
	}
	if err := SetEntityPosition(w, camera, lvl.Camera.Position.Vec3()); err != nil {
		return 0, fmt.Errorf("camera: override transform: %w", err)
	}
	cam, _ := ecs.Get(w, camera, component.CameraComponent.Kind())
	cam.Target = lvl.Camera.Target.Vec3()
	if lvl.Camera.Up != nil {
		cam.Up = lvl.Camera.Up.Vec3()
	}
	return camera, nil
}
