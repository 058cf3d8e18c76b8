package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hostile/internal/game/npc"
)

// Reloader applies changed template files to a Registry. Agents already
// spawned keep their template; the next spawn or respawn uses the new one.
type Reloader struct {
	reg      *npc.Registry
	log      *zap.Logger
	reloaded atomic.Int64
	failed   atomic.Int64
}

// NewReloader returns a Reloader writing into reg.
//
// Precondition: reg must be non-nil.
func NewReloader(reg *npc.Registry, log *zap.Logger) *Reloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reloader{reg: reg, log: log}
}

// LoadDir loads every template in dir into the registry.
//
// Postcondition: returns the number of templates loaded, or the first error
// with the registry unchanged.
func (r *Reloader) LoadDir(dir string) (int, error) {
	templates, err := npc.LoadTemplates(dir)
	if err != nil {
		return 0, err
	}
	for _, t := range templates {
		r.reg.Put(t)
	}
	return len(templates), nil
}

// Reload parses path and replaces its template in the registry. A removed
// file is not an error; its template stays registered.
//
// Postcondition: an invalid file leaves the registry unchanged and returns an error.
func (r *Reloader) Reload(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		r.log.Info("template file removed; keeping last loaded version", zap.String("path", path))
		return nil
	}
	tmpl, err := npc.LoadTemplateFile(path)
	if err != nil {
		r.failed.Add(1)
		return fmt.Errorf("content: %w", err)
	}
	r.reg.Put(tmpl)
	r.reloaded.Add(1)
	r.log.Info("template reloaded", zap.String("template", tmpl.ID), zap.String("path", path))
	return nil
}

// Run applies events from w until ctx is cancelled or w is closed.
func (r *Reloader) Run(ctx context.Context, w *Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			if err := r.Reload(path); err != nil {
				r.log.Warn("template reload failed", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			r.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// Stats returns how many reloads succeeded and failed.
func (r *Reloader) Stats() (reloaded, failed int64) {
	return r.reloaded.Load(), r.failed.Load()
}
