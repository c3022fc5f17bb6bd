package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/autogodraw/common"
	"github.com/milk9111/autogodraw/geom"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging, the input band overlay and hot reload")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	planeName := flag.String("plane", "", "override the level's drawing plane (XZ or XY)")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var plane *geom.Plane
	if *planeName != "" {
		p, err := geom.ParsePlane(*planeName)
		if err != nil {
			slog.Error("bad -plane", "err", err)
			os.Exit(2)
		}
		plane = &p
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)

	game, err := NewGame(*levelName, plane, *debug)
	if err != nil {
		slog.Error("start", "err", err)
		os.Exit(1)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		slog.Error("run", "err", err)
		os.Exit(1)
	}
}
