package gui

import (
	"context"
	"sync"
	"time"

	"fyne.io/fyne/v2"

	"threshold-studio/internal/backend"
	"threshold-studio/internal/bus"
	"threshold-studio/internal/logger"
	"threshold-studio/internal/metrics"
	"threshold-studio/internal/pipeline"
	"threshold-studio/internal/session"
)

const uploadTimeout = 60 * time.Second

// Uploader stores an opened image and returns the file id screens address
// it by. The backend client serves it in remote mode, the in-memory file
// store in local mode.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Controller is the thresholding screen: it binds the form to a request,
// owns the single in-flight request's lifecycle, and reacts to the two
// terminal events from the message channel.
type Controller struct {
	view     *View
	sessions *session.Store
	bus      *bus.Bus
	uploader Uploader
	loader   *pipeline.Loader
	saver    *pipeline.Saver
	logger   logger.Logger

	mu      sync.RWMutex
	request backend.ThresholdingRequest

	subs []*bus.Subscription
}

func NewController(sessions *session.Store, b *bus.Bus, uploader Uploader, log logger.Logger) *Controller {
	return &Controller{
		sessions: sessions,
		bus:      b,
		uploader: uploader,
		loader:   pipeline.NewLoader(log),
		saver:    pipeline.NewSaver(log),
		logger:   log,
		request:  backend.NewThresholdingRequest(),
	}
}

func (c *Controller) SetView(view *View) {
	c.view = view
}

// Mount resets the screen's slot, clears any stale display from a previous
// visit, and registers the terminal event handlers. Each handler gets its
// own subscription handle; Teardown closes exactly those.
func (c *Controller) Mount() {
	sess := c.session()
	sess.Reset()

	c.mu.Lock()
	c.request = backend.NewThresholdingRequest()
	c.mu.Unlock()

	c.view.ClearScreen()

	c.subs = append(c.subs,
		c.bus.Subscribe(bus.TopicImageReceived, c.onImageReceived),
		c.bus.Subscribe(bus.TopicImageError, c.onImageError),
	)

	c.logger.Info("ThresholdingScreen", "mounted", map[string]interface{}{
		"slot": session.DefaultSlot,
	})
}

// Teardown removes this screen's subscriptions; other listeners on the same
// channel are untouched.
func (c *Controller) Teardown() {
	for _, sub := range c.subs {
		sub.Close()
	}
	c.subs = nil

	c.logger.Info("ThresholdingScreen", "torn down", nil)
}

func (c *Controller) OpenImage() {
	c.view.ShowFileDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}

		fyne.Do(func() {
			c.view.SetStatus("Loading image...")
		})

		go func() {
			defer reader.Close()

			imageData, loadErr := c.loader.LoadFromReader(reader)
			if loadErr != nil {
				c.handleError("Image load error", loadErr)
				c.setStatusAsync("Ready")
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
			defer cancel()

			fileID, uploadErr := c.uploader.Upload(ctx, imageData.Name, imageData.Raw)
			if uploadErr != nil {
				c.handleError("Image upload error", uploadErr)
				c.setStatusAsync("Ready")
				return
			}

			fyne.Do(func() {
				sess := c.session()
				sess.SetSource(fileID, imageData.Image)

				c.view.SetUploadedImage(imageData.Image)
				c.view.SetProcessedImage(nil)
				c.view.SetSaveEnabled(false)
				c.view.SetMetrics(0, 0)
				c.view.SetStatus("Image loaded")
				c.updateApplyState()

				c.logger.Info("ThresholdingScreen", "image selected", map[string]interface{}{
					"file_id": fileID,
					"width":   imageData.Width,
					"height":  imageData.Height,
					"format":  imageData.Format,
				})
			})
		}()
	})
}

// SelectMode records the active mode. The panel has already switched the
// visible inputs; values for hidden fields stay in the form state and are
// still sent.
func (c *Controller) SelectMode(mode backend.Mode) {
	c.mu.Lock()
	c.request.Mode = mode
	c.mu.Unlock()

	c.logger.Debug("ThresholdingScreen", "mode selected", map[string]interface{}{
		"mode": string(mode),
	})
}

func (c *Controller) UpdateParameter(name string, value interface{}) {
	intValue, ok := value.(int)
	if !ok {
		c.logger.Warning("ThresholdingScreen", "ignoring non-integer parameter", map[string]interface{}{
			"name": name,
		})
		return
	}

	c.mu.Lock()
	switch name {
	case "threshold":
		c.request.Threshold = intValue
	case "thresholdMargin":
		c.request.ThresholdMargin = intValue
	case "blockSize":
		c.request.BlockSize = intValue
	default:
		c.logger.Warning("ThresholdingScreen", "unknown parameter", map[string]interface{}{
			"name": name,
		})
	}
	c.mu.Unlock()
}

// Apply dispatches the thresholding request. The disabled Apply button
// already prevents this while no file is selected or a request is in
// flight; Begin rejects those states again so the guard does not rely on
// the UI alone.
func (c *Controller) Apply() {
	sess := c.session()

	if err := sess.Begin(); err != nil {
		c.logger.Warning("ThresholdingScreen", "submit rejected", map[string]interface{}{
			"reason": err.Error(),
			"state":  sess.State().String(),
		})
		return
	}

	c.mu.RLock()
	body := c.request
	c.mu.RUnlock()

	endpoint := backend.ThresholdingEndpoint(sess.SourceFileID())

	c.view.SetApplyEnabled(false)
	c.view.SetStatus("Processing...")

	c.bus.Publish(bus.TopicProcessImage, bus.ProcessImageRequest{
		Endpoint: endpoint,
		Body:     body,
	})

	c.logger.Info("ThresholdingScreen", "request dispatched", map[string]interface{}{
		"endpoint":  endpoint,
		"mode":      string(body.Mode),
		"threshold": body.Threshold,
	})
}

func (c *Controller) onImageReceived(payload interface{}) {
	received, ok := payload.(bus.ImageReceived)
	if !ok {
		c.logger.Warning("ThresholdingScreen", "unexpected payload on image:received", nil)
		return
	}

	fyne.Do(func() {
		sess := c.session()
		if !sess.Succeed() {
			// The session dropped the event, so the screen must not
			// display a result that belongs to no outstanding request.
			return
		}

		if received.Image != nil {
			sess.SetProcessed(received.Image)
			c.view.SetProcessedImage(received.Image)
			c.view.SetSaveEnabled(true)
			c.view.SetMetrics(
				metrics.PSNR(sess.Uploaded(), received.Image),
				metrics.SSIM(sess.Uploaded(), received.Image),
			)
			c.view.SetStatus("Processing completed")
		} else {
			c.view.SetStatus("No result returned")
		}

		c.updateApplyState()
	})
}

func (c *Controller) onImageError(interface{}) {
	fyne.Do(func() {
		sess := c.session()
		if !sess.Fail() {
			return
		}

		c.view.ShowProcessingFailed()
		c.view.SetStatus("Processing failed")
		c.updateApplyState()
	})
}

func (c *Controller) SaveImage() {
	processed := c.session().Processed()
	if processed == nil {
		c.logger.Warning("ThresholdingScreen", "save requested without processed image", nil)
		return
	}

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError("File save error", err)
			return
		}
		if writer == nil {
			return
		}

		go func() {
			defer writer.Close()

			if saveErr := c.saver.SaveToWriter(writer, processed, ""); saveErr != nil {
				c.handleError("Image save error", saveErr)
				return
			}

			c.setStatusAsync("Image saved")
		}()
	})
}

func (c *Controller) session() *session.Session {
	return c.sessions.Slot(session.DefaultSlot)
}

func (c *Controller) updateApplyState() {
	sess := c.session()
	c.view.SetApplyEnabled(sess.SourceFileID() != "" && !sess.Busy())
}

func (c *Controller) setStatusAsync(status string) {
	fyne.Do(func() {
		c.view.SetStatus(status)
	})
}

func (c *Controller) handleError(title string, err error) {
	c.logger.Error("ThresholdingScreen", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		c.view.ShowError(title, err)
	})
}
