package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/milk9111/autogodraw/geom"
	"github.com/milk9111/autogodraw/levels"
	"github.com/milk9111/autogodraw/prefabs"
)

func main() {
	levelName := flag.String("level", "", "level in levels/ to simulate (defaults to game.yaml's level)")
	planeName := flag.String("plane", "", "override the level's drawing plane (XZ or XY)")
	frames := flag.Int("frames", 1200, "give up after this many frames")
	step := flag.Float64("step", 0.5, "world distance between scripted pointer moves")
	verbose := flag.Bool("v", false, "log round events")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(os.Stdout, *levelName, *planeName, *frames, *step); err != nil {
		slog.Error("pathsim", "err", err)
		os.Exit(1)
	}
}

func run(out io.Writer, levelName, planeName string, frames int, step float64) error {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		return err
	}
	if levelName == "" {
		levelName = spec.Level
	}
	lvl, err := levels.LoadLevel(levelName)
	if err != nil {
		return err
	}

	var plane *geom.Plane
	if planeName != "" {
		p, err := geom.ParsePlane(planeName)
		if err != nil {
			return err
		}
		plane = &p
	}

	res, err := Simulate(spec, lvl, plane, frames, step)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, res)
	if res.Outcome != OutcomeSuccess {
		return fmt.Errorf("%s: %s", levelName, res.Outcome)
	}
	return nil
}
