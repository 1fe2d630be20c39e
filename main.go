package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/nightsky/prefabs"
	"github.com/rs/zerolog"
)

func main() {
	debug := flag.Bool("debug", false, "show detection radius, waypoint and frame stats")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	config := flag.String("config", prefabs.SkySpecFile, "sky spec in prefabs/ (embedded copy used when absent on disk)")
	script := flag.String("script", "", "wander script in prefabs/scripts/ (basename, .tengo optional); overrides the spec")
	logLevel := flag.String("log-level", "", "zerolog level; overrides the spec's log_level")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	opts := Options{
		Config:   *config,
		Debug:    *debug,
		Script:   *script,
		LogLevel: *logLevel,
		Log:      logger,
	}
	if err := run(opts, *baseMonitor); err != nil {
		logger.Error().Err(err).Str("config", *config).Msg("nightsky exited")
		os.Exit(1)
	}
}

// run owns the game for the whole window lifetime so the watcher is closed on
// every exit path before main decides the exit code.
func run(opts Options, baseMonitor bool) (err error) {
	game, err := NewGame(opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := game.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	spec := game.sky.Spec()
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(int(spec.Width), int(spec.Height))
	ebiten.SetWindowTitle("nightsky")

	return ebiten.RunGame(game)
}
