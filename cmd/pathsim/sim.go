package main

import (
	"fmt"

	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/component"
	"github.com/milk9111/autogodraw/ecs/entity"
	"github.com/milk9111/autogodraw/ecs/system"
	"github.com/milk9111/autogodraw/geom"
	"github.com/milk9111/autogodraw/levels"
	"github.com/milk9111/autogodraw/prefabs"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
)

type Result struct {
	Outcome Outcome
	Frame   uint64
	Pairs   int
	Rounded int
}

func (r Result) String() string {
	return fmt.Sprintf("%s at frame %d (%d pairs, clock %s)", r.Outcome, r.Frame, r.Pairs, common.FormatClock(r.Rounded))
}

// Simulate draws a straight path from every player to its goal and steps the
// scene at a fixed 60 Hz until the round succeeds, fails or frames run out.
func Simulate(spec *prefabs.GameSpec, lvl *levels.Level, plane *geom.Plane, frames int, step float64) (Result, error) {
	scene, err := entity.NewScene(spec, lvl, entity.SceneOptions{Plane: plane})
	if err != nil {
		return Result{}, err
	}
	defer scene.Close()

	res := Result{Outcome: OutcomeTimeout, Pairs: len(scene.Spawner.Players())}
	done := false
	finish := func(o Outcome) ecs.Handler {
		return func(ecs.Event) {
			if done {
				return
			}
			done = true
			res.Outcome = o
			res.Frame = scene.World.Frame()
		}
	}
	bus := scene.World.Events()
	bus.Subscribe(ecs.TopicGameSuccess, finish(OutcomeSuccess))
	bus.Subscribe(ecs.TopicGameFailure, finish(OutcomeFailure))

	goals := scene.Spawner.Goals()
	for i, player := range scene.Spawner.Players() {
		gt, ok := ecs.Get(scene.World, goals[i], component.TransformComponent.Kind())
		if !ok {
			return Result{}, fmt.Errorf("goal %d has no transform", i)
		}
		if !scene.FeedStraightDraw(player, gt.Position, step) {
			return Result{}, fmt.Errorf("pair %d is off screen", i)
		}
		scene.Update(common.FixedDelta)
	}

	for i := 0; i < frames && !done; i++ {
		scene.Update(common.FixedDelta)
	}
	if !done {
		res.Frame = scene.World.Frame()
	}
	if lt := scene.LevelTimer(); lt != nil {
		res.Rounded = system.DisplaySeconds(lt)
	}
	return res, nil
}
