package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "show hp bars, modes and the player bubble")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	seed := flag.Int64("seed", 1, "spawn and wander seed")
	frozen := flag.Bool("frozen", false, "start with the horde frozen")
	watch := flag.Bool("watch", false, "hot reload prefabs/ on edit")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "mazehorde",
		ReportTimestamp: true,
	})
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("bad log level", "level", *logLevel, "err", err)
	}
	logger.SetLevel(lvl)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("mazehorde")

	game, err := NewGame(gameConfig{
		levelName: *levelName,
		seed:      *seed,
		debug:     *debug,
		frozen:    *frozen,
		watch:     *watch,
	}, logger)
	if err != nil {
		logger.Fatal("start", "err", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run", "err", err)
		game.Close()
		os.Exit(1)
	}
}
