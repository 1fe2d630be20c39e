package prefabs

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Reloader re-reads the sky spec when the watcher reports a change and hands
// valid specs to Apply. It is driven from the frame loop through Advance, so
// Apply always runs on the tick goroutine.
type Reloader struct {
	Name   string
	Apply  func(SkySpec)
	Script func(name string)

	events <-chan string
	errs   <-chan error
	log    zerolog.Logger
	loaded time.Time
}

func NewReloader(name string, events <-chan string, errs <-chan error, log zerolog.Logger) *Reloader {
	if name == "" {
		name = SkySpecFile
	}
	r := &Reloader{
		Name:   name,
		events: events,
		errs:   errs,
		log:    log.With().Str("component", "reloader").Logger(),
	}
	if t, ok := ModTime(name); ok {
		r.loaded = t
	}
	return r
}

// Advance drains pending file events without blocking.
func (r *Reloader) Advance(time.Duration) {
	for {
		select {
		case name, ok := <-r.events:
			if !ok {
				r.events = nil
				return
			}
			r.handle(name)
		case err, ok := <-r.errs:
			if !ok {
				r.errs = nil
				continue
			}
			r.log.Warn().Err(err).Msg("watch error")
		default:
			return
		}
	}
}

func (r *Reloader) handle(path string) {
	if isScriptFile(path) {
		if r.Script != nil {
			r.Script(filepath.Base(path))
		}
		return
	}
	if filepath.Base(path) != filepath.Base(r.Name) {
		return
	}

	if t, ok := ModTime(r.Name); ok {
		if !t.After(r.loaded) {
			return
		}
		r.loaded = t
	}

	spec, err := LoadSkySpec(r.Name)
	if err != nil {
		r.log.Error().Err(err).Str("file", path).Msg("reload rejected, keeping previous spec")
		return
	}
	r.log.Info().Str("file", path).Msg("sky spec reloaded")
	if r.Apply != nil {
		r.Apply(spec)
	}
}
