package main

import (
	"fmt"
	"log/slog"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/ecs"
	"github.com/milk9111/autogodraw/ecs/entity"
	"github.com/milk9111/autogodraw/ecs/system"
	"github.com/milk9111/autogodraw/geom"
	"github.com/milk9111/autogodraw/levels"
	"github.com/milk9111/autogodraw/prefabs"
)

type roundResult int

const (
	resultNone roundResult = iota
	resultSuccess
	resultFailure
)

type Game struct {
	frames int

	levelName string
	plane     *geom.Plane
	debug     bool

	scene *entity.Scene

	result   roundResult
	resultUI *ebitenui.UI
	label    *resultLabel

	// pending is the level queued by a solved scene, loaded between frames.
	pending string

	watcher *prefabs.Watcher
	log     *slog.Logger
}

func NewGame(levelName string, plane *geom.Plane, debug bool) (*Game, error) {
	g := &Game{
		levelName: levelName,
		plane:     plane,
		debug:     debug,
		log:       slog.Default().With("system", "game"),
	}
	if err := g.load(); err != nil {
		return nil, err
	}
	g.resultUI, g.label = NewResultUI(g.retry)

	if debug {
		w, err := prefabs.NewWatcher("prefabs", "levels")
		if err != nil {
			g.log.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

// load builds a fresh scene. On error the current scene is kept.
func (g *Game) load() error {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	name := g.levelName
	if name == "" {
		name = spec.Level
	}
	lvl, err := levels.LoadLevel(name)
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}

	scene, err := entity.NewScene(spec, lvl, entity.SceneOptions{
		Plane:     g.plane,
		Input:     true,
		LevelName: name,
		OnAdvance: func(next string) { g.pending = next },
	})
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	if g.scene != nil {
		g.scene.Close()
	}
	g.scene = scene
	g.levelName = name
	g.result = resultNone
	scene.World.AddRenderer(system.NewRenderSystem(scene.Layout.Plane))
	ebiten.SetWindowTitle(spec.Title)

	bus := scene.World.Events()
	bus.Subscribe(ecs.TopicGameSuccess, func(ecs.Event) { g.finish(resultSuccess) })
	bus.Subscribe(ecs.TopicGameFailure, func(ecs.Event) { g.finish(resultFailure) })
	bus.Subscribe(ecs.TopicPlayersSpawnedCount, func(evt ecs.Event) {
		g.log.Debug("players spawned", "count", evt.Data)
	})

	g.log.Info("level loaded", "level", name, "plane", scene.Layout.Plane.Plane, "pairs", len(scene.Spawner.Players()))
	return nil
}

func (g *Game) finish(r roundResult) {
	if g.result != resultNone {
		return
	}
	g.result = r
	if g.label == nil {
		return
	}
	switch r {
	case resultSuccess:
		secs := 0
		if lt := g.scene.LevelTimer(); lt != nil {
			secs = system.DisplaySeconds(lt)
		}
		g.label.Set("Solved in " + common.FormatClock(secs))
	case resultFailure:
		g.label.Set("Crashed!")
	}
}

func (g *Game) retry() {
	if err := g.scene.Retry(); err != nil {
		g.log.Error("retry failed", "err", err)
		return
	}
	g.result = resultNone
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case name, ok := <-g.watcher.Events:
		if !ok {
			g.watcher = nil
			return
		}
		g.log.Info("spec changed, reloading", "file", name)
		if err := g.load(); err != nil {
			g.log.Error("reload failed", "err", err)
		}
	case err, ok := <-g.watcher.Errors:
		if ok {
			g.log.Warn("watcher error", "err", err)
		}
	default:
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()

	if g.pending != "" {
		next := g.pending
		g.pending = ""
		prev := g.levelName
		g.levelName = next
		if err := g.load(); err != nil {
			g.levelName = prev
			g.log.Error("advance failed", "level", next, "err", err)
		}
		return nil
	}

	dt := 1.0 / float64(ebiten.TPS())
	if g.result != resultNone {
		g.resultUI.Update()
		g.scene.Tick(dt)
		return nil
	}
	g.scene.Update(dt)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.World.Draw(screen)

	if g.result != resultNone {
		g.resultUI.Draw(screen)
	}
	if g.debug {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()), 4, common.BaseHeight-16)
	}
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.scene.Close()
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
