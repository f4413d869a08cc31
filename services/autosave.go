package services

import (
	"time"

	"github.com/go-co-op/gocron"

	"room-assistant-platform/internal/logger"
	"room-assistant-platform/internal/rag"
)

// Autosaver periodically writes the engine's document store to disk so a
// restart does not lose ingested documents.
type Autosaver struct {
	scheduler *gocron.Scheduler
	engine    *rag.Engine
	path      string
}

func NewAutosaver(engine *rag.Engine, path string) *Autosaver {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Autosaver{
		scheduler: s,
		engine:    engine,
		path:      path,
	}
}

// Start schedules periodic snapshots and returns immediately.
func (a *Autosaver) Start(interval time.Duration) error {
	_, err := a.scheduler.Every(interval).Tag("snapshot").Do(func() {
		if err := a.engine.Save(a.path); err != nil {
			logger.Error("autosave failed", "path", a.path, "error", err)
		}
	})
	if err != nil {
		return err
	}
	a.scheduler.StartAsync()
	logger.Info("autosave scheduled", "path", a.path, "interval", interval.String())
	return nil
}

// Stop halts the schedule and writes one final snapshot.
func (a *Autosaver) Stop() {
	a.scheduler.Stop()
	if err := a.engine.Save(a.path); err != nil {
		logger.Error("final snapshot failed", "path", a.path, "error", err)
	}
}
