package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// loggingHooks reports simulation and store events at debug level.
type loggingHooks struct {
	logger *log.Logger
}

func newLoggingHooks(l *log.Logger) *loggingHooks {
	return &loggingHooks{logger: l.WithPrefix("hooks")}
}

func (h *loggingHooks) OnConfigure(width, height, radius, strength float64) {
	h.logger.Debug("configure", "width", width, "height", height, "radius", radius, "strength", strength)
}

func (h *loggingHooks) OnNodeAdded(id string, index int) {
	h.logger.Debug("node added", "id", id, "index", index)
}

func (h *loggingHooks) OnSelect(id string) {
	h.logger.Debug("select", "id", id)
}

func (h *loggingHooks) OnDeselect(id string) {
	h.logger.Debug("deselect", "id", id)
}

func (h *loggingHooks) OnDrag(dx, dy float64, nodes int) {
	h.logger.Debug("drag", "dx", dx, "dy", dy, "nodes", nodes)
}

// OnStep is called every frame; only slow frames are logged.
func (h *loggingHooks) OnStep(nodes int, d time.Duration) {
	if d > slowStep {
		h.logger.Debug("slow step", "nodes", nodes, "duration", d)
	}
}

func (h *loggingHooks) OnSave(_ context.Context, backend, name string, size int, err error) {
	if err != nil {
		h.logger.Debug("save failed", "backend", backend, "name", name, "err", err)
		return
	}
	h.logger.Debug("saved", "backend", backend, "name", name, "bytes", size)
}

func (h *loggingHooks) OnLoad(_ context.Context, backend, name string, found bool, err error) {
	h.logger.Debug("load", "backend", backend, "name", name, "found", found, "err", err)
}

// slowStep is one frame at 60 fps.
const slowStep = time.Second / 60
