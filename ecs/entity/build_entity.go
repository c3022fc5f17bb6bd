package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/geom"
	"github.com/milk9111/autogodraw/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":    addPlayerTag,
	"goal_tag":      addGoalTag,
	"camera_tag":    addCameraTag,
	"transform":     addTransform,
	"collider":      addCollider,
	"camera":        addCamera,
	"appearance":    addAppearance,
	"path_follower": addPathFollower,
	"path_drawer":   addPathDrawer,
	"goal":          addGoal,
	"hazard":        addHazard,
	"goal_success":  addGoalSuccess,
	"level_timer":   addLevelTimer,
	"pointer_input": addPointerInput,
}

// path_drawer reads the follower's transform, so it comes after it.
var componentBuildOrder = []string{
	"player_tag",
	"goal_tag",
	"camera_tag",
	"transform",
	"collider",
	"camera",
	"appearance",
	"path_follower",
	"path_drawer",
	"goal",
	"hazard",
	"goal_success",
	"level_timer",
	"pointer_input",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, names)
	}

	return e, nil
}

// SetEntityPosition moves e, adding a transform when it has none.
func SetEntityPosition(w *ecs.World, e ecs.Entity, pos mgl64.Vec3) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		tr := component.NewTransform(pos)
		return ecs.Add(w, e, component.TransformComponent.Kind(), &tr)
	}
	t.Position = pos
	return nil
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addGoalTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GoalTagComponent.Kind(), &component.GoalTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	t := component.NewTransform(spec.Position.Vec3())
	if r := spec.Rotation; r != (prefabs.Vec3Spec{}) {
		t.Rotation = mgl64.AnglesToQuat(mgl64.DegToRad(r.X), mgl64.DegToRad(r.Y), mgl64.DegToRad(r.Z), mgl64.XYZ)
	}
	if spec.Scale != nil {
		t.Scale = spec.Scale.Vec3()
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &t)
}

type colliderSpec = prefabs.ColliderComponentSpec

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[colliderSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	var shape geom.Shape
	if err := shape.UnmarshalText([]byte(spec.Shape)); err != nil {
		return err
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Shape:       shape,
		HalfExtents: spec.HalfExtents.Vec3(),
		Radius:      spec.Radius,
		Height:      spec.Height,
	})
}

type cameraSpec = prefabs.CameraComponentSpec

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	up := mgl64.Vec3{0, 1, 0}
	if spec.Up != nil {
		up = spec.Up.Vec3()
	}
	if spec.FovY == 0 {
		spec.FovY = 45
	}
	if spec.Near == 0 {
		spec.Near = 0.1
	}
	if spec.Far == 0 {
		spec.Far = 1000
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		Target: spec.Target.Vec3(),
		Up:     up,
		FovY:   spec.FovY,
		Near:   spec.Near,
		Far:    spec.Far,
		Width:  spec.Width,
		Height: spec.Height,
	})
}

type appearanceSpec = prefabs.AppearanceComponentSpec

func addAppearance(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[appearanceSpec](raw)
	if err != nil {
		return fmt.Errorf("decode appearance spec: %w", err)
	}
	return ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{Color: spec.Color.RGBA8()})
}

type pathFollowerSpec = prefabs.PathFollowerComponentSpec

func addPathFollower(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathFollowerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode path follower spec: %w", err)
	}
	pf := component.DefaultPathFollower()
	setIf(&pf.Speed, spec.Speed)
	setIf(&pf.FaceForward, spec.FaceForward)
	setIf(&pf.AlignToGoalRotation, spec.AlignToGoalRotation)
	pf.HeadingOffsetDeg = spec.HeadingOffsetDeg
	if pf.Speed < 0 {
		return fmt.Errorf("negative follower speed %v", pf.Speed)
	}
	return ecs.Add(w, e, component.PathFollowerComponent.Kind(), &pf)
}

type pathDrawerSpec = prefabs.PathDrawerComponentSpec

// addPathDrawer wires the drawer to its own entity as follower. Camera, goal
// and plane are linked when the pair is spawned.
func addPathDrawer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pathDrawerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode path drawer spec: %w", err)
	}
	pd := component.DefaultPathDrawer()
	setIf(&pd.MinPointSpacing, spec.MinPointSpacing)
	setIf(&pd.StartOnObject, spec.StartOnObject)
	setIf(&pd.LineWidth, spec.LineWidth)
	setIf(&pd.GoalRadius, spec.GoalRadius)
	setIf(&pd.GoalHitPadding, spec.GoalHitPadding)
	setIf(&pd.RequireGoal, spec.RequireGoal)
	setIf(&pd.AutoExtendToGoal, spec.AutoExtendToGoal)
	setIf(&pd.ClearOldPathOnStart, spec.ClearOldPathOnStart)
	setIf(&pd.BlockTopPixels, spec.BlockTopPixels)
	if spec.LineColor != nil {
		pd.LineColor = spec.LineColor.RGBA8()
	}
	if ecs.Has(w, e, component.PathFollowerComponent.Kind()) {
		pd.Follower = uint64(e)
	}
	return ecs.Add(w, e, component.PathDrawerComponent.Kind(), &pd)
}

func addGoal(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GoalComponent.Kind(), &component.Goal{})
}

type hazardSpec = prefabs.HazardComponentSpec

func addHazard(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[hazardSpec](raw)
	if err != nil {
		return fmt.Errorf("decode hazard spec: %w", err)
	}
	h := component.DefaultHazard()
	setIf(&h.BounceDistance, spec.BounceDistance)
	setIf(&h.KnockSpeed, spec.KnockSpeed)
	setIf(&h.KnockDuration, spec.KnockDuration)
	setIf(&h.SpinDegPerSec, spec.SpinDegPerSec)
	setIf(&h.SwitchDelay, spec.SwitchDelay)
	return ecs.Add(w, e, component.HazardComponent.Kind(), &h)
}

type goalSuccessSpec = prefabs.GoalSuccessComponentSpec

func addGoalSuccess(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[goalSuccessSpec](raw)
	if err != nil {
		return fmt.Errorf("decode goal success spec: %w", err)
	}
	gs := component.NewGoalSuccess(spec.TotalPlayers)
	setIf(&gs.ExtraGoalTolerance, spec.ExtraGoalTolerance)
	setIf(&gs.ArmDelay, spec.ArmDelay)
	gs.Debug = spec.Debug
	return ecs.Add(w, e, component.GoalSuccessComponent.Kind(), &gs)
}

type levelTimerSpec = prefabs.LevelTimerComponentSpec

func addLevelTimer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[levelTimerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode level timer spec: %w", err)
	}
	running := true
	setIf(&running, spec.AutoStart)
	return ecs.Add(w, e, component.LevelTimerComponent.Kind(), &component.LevelTimer{Running: running})
}

func addPointerInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PointerInputComponent.Kind(), &component.PointerInput{})
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
