package gui

import (
	"context"
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"threshold-studio/internal/backend"
	"threshold-studio/internal/bus"
	"threshold-studio/internal/logger"
	"threshold-studio/internal/session"
)

type stubUploader struct{}

func (stubUploader) Upload(context.Context, string, []byte) (string, error) {
	return "file-1", nil
}

// newTestScreen wires a controller and view the way the manager does, on the
// test driver so fyne.Do runs inline.
func newTestScreen(t *testing.T) (*Controller, *View, *session.Session, *bus.Bus) {
	t.Helper()

	testApp := test.NewApp()
	window := testApp.NewWindow("test")

	b := bus.New(logger.NewNop())
	t.Cleanup(b.Shutdown)
	sessions := session.NewStore(logger.NewNop())

	view := NewView(window)
	controller := NewController(sessions, b, stubUploader{}, logger.NewNop())
	view.SetController(controller)
	controller.SetView(view)

	return controller, view, sessions.Slot(session.DefaultSlot), b
}

func waitUntil(t *testing.T, message string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(message)
}

func grayImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 2, 2))
}

func TestMountResetsSlotAndScreen(t *testing.T) {
	controller, view, sess, _ := newTestScreen(t)

	sess.SetSource("stale-file", grayImage())
	sess.SetProcessed(grayImage())
	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	view.SetSaveEnabled(true)
	view.SetStatus("Processing...")

	controller.Mount()

	if sess.SourceFileID() != "" {
		t.Errorf("Expected empty file id after mount, got %q", sess.SourceFileID())
	}
	if sess.State() != session.StateIdle {
		t.Errorf("Expected idle state after mount, got %s", sess.State())
	}
	if sess.Processed() != nil {
		t.Error("Expected no processed result after mount")
	}
	if view.toolbar.ApplyEnabled() {
		t.Error("Expected Apply disabled after mount")
	}
	if view.toolbar.SaveEnabled() {
		t.Error("Expected Save disabled after mount")
	}
	if got := view.toolbar.Status(); got != "Ready" {
		t.Errorf("Status = %q, want Ready", got)
	}
}

func TestApplyDispatchesRequestOnce(t *testing.T) {
	controller, view, sess, b := newTestScreen(t)
	controller.Mount()

	requests := make(chan bus.ProcessImageRequest, 2)
	b.Subscribe(bus.TopicProcessImage, func(payload interface{}) {
		requests <- payload.(bus.ProcessImageRequest)
	})

	sess.SetSource("file-7", grayImage())
	controller.SelectMode(backend.ModeGlobal)
	controller.UpdateParameter("threshold", 200)

	controller.Apply()

	var req bus.ProcessImageRequest
	select {
	case req = <-requests:
	case <-time.After(2 * time.Second):
		t.Fatal("No request was dispatched")
	}

	if req.Endpoint != "/api/thresholding/file-7" {
		t.Errorf("Endpoint = %q, want /api/thresholding/file-7", req.Endpoint)
	}
	if req.Body.Mode != backend.ModeGlobal {
		t.Errorf("Mode = %q, want global", req.Body.Mode)
	}
	if req.Body.Threshold != 200 {
		t.Errorf("Threshold = %d, want 200", req.Body.Threshold)
	}
	if !sess.Busy() {
		t.Error("Expected session to be busy after Apply")
	}
	if view.toolbar.ApplyEnabled() {
		t.Error("Expected Apply disabled while in flight")
	}
	if got := view.toolbar.Status(); got != "Processing..." {
		t.Errorf("Status = %q, want Processing...", got)
	}

	// A second submit while in flight must be rejected outright.
	controller.Apply()
	select {
	case extra := <-requests:
		t.Fatalf("Concurrent Apply dispatched a second request: %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestImageReceivedDisplaysResult(t *testing.T) {
	controller, view, sess, b := newTestScreen(t)
	controller.Mount()

	sess.SetSource("file-1", grayImage())
	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	b.Publish(bus.TopicImageReceived, bus.ImageReceived{Image: grayImage()})

	waitUntil(t, "session never settled", func() bool {
		return sess.State() == session.StateSucceeded
	})

	if sess.Processed() == nil {
		t.Error("Expected processed result to be recorded")
	}
	if !view.toolbar.SaveEnabled() {
		t.Error("Expected Save enabled after a result arrived")
	}
	if !view.toolbar.ApplyEnabled() {
		t.Error("Expected Apply re-enabled after the request settled")
	}
	if got := view.toolbar.Status(); got != "Processing completed" {
		t.Errorf("Status = %q, want Processing completed", got)
	}
}

func TestImageReceivedWithoutResult(t *testing.T) {
	controller, view, sess, b := newTestScreen(t)
	controller.Mount()

	sess.SetSource("file-1", grayImage())
	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	b.Publish(bus.TopicImageReceived, bus.ImageReceived{})

	waitUntil(t, "session never settled", func() bool {
		return sess.State() == session.StateSucceeded
	})

	if sess.Processed() != nil {
		t.Error("Expected no processed result for an absent image")
	}
	if view.toolbar.SaveEnabled() {
		t.Error("Expected Save to stay disabled without a result")
	}
	if got := view.toolbar.Status(); got != "No result returned" {
		t.Errorf("Status = %q, want No result returned", got)
	}
}

func TestImageErrorFailsRequest(t *testing.T) {
	controller, view, sess, b := newTestScreen(t)
	controller.Mount()

	sess.SetSource("file-1", grayImage())
	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	b.Publish(bus.TopicImageError, bus.ImageError{})

	waitUntil(t, "session never settled", func() bool {
		return sess.State() == session.StateFailed
	})

	// The view is updated after the session settles; wait for the handler's
	// final view mutation before asserting the screen state.
	waitUntil(t, "apply never re-enabled after failure", func() bool {
		return view.toolbar.ApplyEnabled()
	})

	if got := view.toolbar.Status(); got != "Processing failed" {
		t.Errorf("Status = %q, want Processing failed", got)
	}
	if !view.toolbar.ApplyEnabled() {
		t.Error("Expected Apply re-enabled for resubmission after a failure")
	}
}

func TestStaleTerminalEventDoesNotTouchScreen(t *testing.T) {
	controller, view, sess, _ := newTestScreen(t)
	controller.Mount()

	sess.SetSource("file-1", grayImage())

	// No request is outstanding: the session drops the event and the screen
	// must not display the result either.
	controller.onImageReceived(bus.ImageReceived{Image: grayImage()})

	if sess.State() != session.StateIdle {
		t.Errorf("Expected idle state, got %s", sess.State())
	}
	if sess.Processed() != nil {
		t.Error("Expected no processed result from a stale event")
	}
	if view.toolbar.SaveEnabled() {
		t.Error("Expected Save to stay disabled after a stale event")
	}

	controller.onImageError(bus.ImageError{})
	if sess.State() != session.StateIdle {
		t.Errorf("Expected stale failure to be dropped, got %s", sess.State())
	}
}

func TestTeardownClosesOnlyOwnSubscriptions(t *testing.T) {
	controller, _, sess, b := newTestScreen(t)
	controller.Mount()

	external := make(chan interface{}, 1)
	b.Subscribe(bus.TopicImageReceived, func(payload interface{}) {
		external <- payload
	})

	controller.Teardown()

	sess.SetSource("file-1", grayImage())
	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	b.Publish(bus.TopicImageReceived, bus.ImageReceived{Image: grayImage()})

	select {
	case <-external:
	case <-time.After(2 * time.Second):
		t.Fatal("External subscriber lost its subscription with the screen's teardown")
	}

	// The screen's own handler is gone, so nothing settles the session.
	time.Sleep(50 * time.Millisecond)
	if sess.State() != session.StateInFlight {
		t.Errorf("Expected the request to stay in flight, got %s", sess.State())
	}
}
