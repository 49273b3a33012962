// Command editor is the world editor: a terrain view with properties, tool
// and console panels.
package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/worldeditor/config"
	"github.com/milk9111/worldeditor/editor"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "settings file")
	logLevel := flag.String("log-level", "", "override the log level (debug, info, warn, error)")
	mapName := flag.String("map", "", "map to open at start")
	mapsDir := flag.String("maps", "", "override the maps directory")
	presetsDir := flag.String("presets", "", "override the presets directory")
	flag.Parse()

	if err := run(*configPath, *logLevel, *mapName, *mapsDir, *presetsDir); err != nil {
		slog.Error("editor stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel, mapName, mapsDir, presetsDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if mapsDir != "" {
		cfg.MapsDir = mapsDir
	}
	if presetsDir != "" {
		cfg.PresetsDir = presetsDir
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	s, err := editor.NewSession(cfg, log)
	if err != nil {
		return err
	}
	if mapName != "" {
		if err := s.LoadMap(mapName); err != nil {
			log.Warn("failed to open map", "name", mapName, "err", err)
		}
	}

	watcher, err := s.Presets.Watch()
	if err != nil {
		log.Warn("preset hot reload disabled", "err", err)
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	game, err := NewGame(s, watcher, log)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("World Editor")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
