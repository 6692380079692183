package worker

import (
	"context"
	"fmt"
	"time"

	"threshold-studio/internal/bus"
	"threshold-studio/internal/engine"
	"threshold-studio/internal/logger"
	"threshold-studio/internal/store"
)

// Local answers thresholding requests with the built-in engine, resolving
// file ids against the in-memory store. Used when no backend is configured.
type Local struct {
	bus    *bus.Bus
	files  *store.FileStore
	engine *engine.Engine
	logger logger.Logger
	sub    *bus.Subscription
}

func NewLocal(b *bus.Bus, files *store.FileStore, eng *engine.Engine, log logger.Logger) *Local {
	return &Local{
		bus:    b,
		files:  files,
		engine: eng,
		logger: log,
	}
}

func (w *Local) Start() {
	w.sub = w.bus.Subscribe(bus.TopicProcessImage, w.handle)
	w.logger.Info("LocalWorker", "listening for processing requests", nil)
}

func (w *Local) handle(payload interface{}) {
	req, ok := payload.(bus.ProcessImageRequest)
	if !ok {
		w.logger.Error("LocalWorker", fmt.Errorf("unexpected payload type %T", payload), nil)
		w.bus.Publish(bus.TopicImageError, bus.ImageError{})
		return
	}

	fileID, err := FileIDFromEndpoint(req.Endpoint)
	if err != nil {
		w.fail(req.Endpoint, err)
		return
	}

	data, ok := w.files.Get(fileID)
	if !ok {
		w.fail(req.Endpoint, fmt.Errorf("file %s not found", fileID))
		return
	}

	start := time.Now()
	img, err := w.engine.Apply(context.Background(), data, req.Body)
	if err != nil {
		w.fail(req.Endpoint, err)
		return
	}

	w.logger.Info("LocalWorker", "request completed", map[string]interface{}{
		"endpoint":        req.Endpoint,
		"mode":            string(req.Body.Mode),
		"processing_time": time.Since(start),
	})
	w.bus.Publish(bus.TopicImageReceived, bus.ImageReceived{Image: img})
}

func (w *Local) fail(endpoint string, err error) {
	w.logger.Error("LocalWorker", err, map[string]interface{}{
		"endpoint": endpoint,
	})
	w.bus.Publish(bus.TopicImageError, bus.ImageError{})
}

func (w *Local) Shutdown() {
	if w.sub != nil {
		w.sub.Close()
	}
	w.logger.Info("LocalWorker", "shutdown completed", nil)
}
