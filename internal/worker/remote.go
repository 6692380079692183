package worker

import (
	"context"
	"fmt"
	"time"

	"threshold-studio/internal/backend"
	"threshold-studio/internal/bus"
	"threshold-studio/internal/logger"
)

// Remote forwards thresholding requests to the external HTTP backend.
type Remote struct {
	bus    *bus.Bus
	client *backend.Client
	logger logger.Logger
	sub    *bus.Subscription
}

func NewRemote(b *bus.Bus, client *backend.Client, log logger.Logger) *Remote {
	return &Remote{
		bus:    b,
		client: client,
		logger: log,
	}
}

func (w *Remote) Start() {
	w.sub = w.bus.Subscribe(bus.TopicProcessImage, w.handle)
	w.logger.Info("RemoteWorker", "listening for processing requests", nil)
}

func (w *Remote) handle(payload interface{}) {
	req, ok := payload.(bus.ProcessImageRequest)
	if !ok {
		w.logger.Error("RemoteWorker", fmt.Errorf("unexpected payload type %T", payload), nil)
		w.bus.Publish(bus.TopicImageError, bus.ImageError{})
		return
	}

	start := time.Now()
	img, err := w.client.Threshold(context.Background(), req.Endpoint, req.Body)
	if err != nil {
		w.logger.Error("RemoteWorker", err, map[string]interface{}{
			"endpoint": req.Endpoint,
		})
		w.bus.Publish(bus.TopicImageError, bus.ImageError{})
		return
	}

	w.logger.Info("RemoteWorker", "request completed", map[string]interface{}{
		"endpoint":     req.Endpoint,
		"has_image":    img != nil,
		"request_time": time.Since(start),
	})
	w.bus.Publish(bus.TopicImageReceived, bus.ImageReceived{Image: img})
}

func (w *Remote) Shutdown() {
	if w.sub != nil {
		w.sub.Close()
	}
	w.logger.Info("RemoteWorker", "shutdown completed", nil)
}
