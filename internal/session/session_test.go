package session

import (
	"image"
	"testing"

	"threshold-studio/internal/logger"
)

func testImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 2, 2))
}

func TestSlotReturnsSameSession(t *testing.T) {
	store := NewStore(logger.NewNop())

	if store.Slot(DefaultSlot) != store.Slot(DefaultSlot) {
		t.Fatal("Expected the same session for the same slot")
	}
	if store.Slot(0) == store.Slot(1) {
		t.Fatal("Expected distinct sessions for distinct slots")
	}
}

func TestResetClearsEverything(t *testing.T) {
	sess := NewStore(logger.NewNop()).Slot(DefaultSlot)

	sess.SetSource("file-1", testImage())
	sess.SetProcessed(testImage())
	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	sess.Reset()

	if sess.SourceFileID() != "" {
		t.Errorf("Expected empty file id, got %q", sess.SourceFileID())
	}
	if sess.Uploaded() != nil {
		t.Error("Expected uploaded image to be cleared")
	}
	if sess.Processed() != nil {
		t.Error("Expected processed image to be cleared")
	}
	if sess.State() != StateIdle {
		t.Errorf("Expected idle state, got %s", sess.State())
	}
	if sess.Busy() {
		t.Error("Expected session not to be busy after reset")
	}
}

func TestBeginRequiresSourceFile(t *testing.T) {
	sess := NewStore(logger.NewNop()).Slot(DefaultSlot)

	if err := sess.Begin(); err == nil {
		t.Fatal("Expected Begin to fail without a source file")
	}
	if sess.State() != StateIdle {
		t.Errorf("Expected state to stay idle, got %s", sess.State())
	}
}

func TestBeginRejectsConcurrentRequest(t *testing.T) {
	sess := NewStore(logger.NewNop()).Slot(DefaultSlot)
	sess.SetSource("file-1", testImage())

	if err := sess.Begin(); err != nil {
		t.Fatalf("First Begin failed: %v", err)
	}
	if !sess.Busy() {
		t.Fatal("Expected session to be busy after Begin")
	}
	if err := sess.Begin(); err == nil {
		t.Fatal("Expected second Begin to be rejected while in flight")
	}
}

func TestTerminalStatesAllowResubmission(t *testing.T) {
	cases := []struct {
		name     string
		finish   func(*Session) bool
		expected RequestState
	}{
		{"succeeded", (*Session).Succeed, StateSucceeded},
		{"failed", (*Session).Fail, StateFailed},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sess := NewStore(logger.NewNop()).Slot(DefaultSlot)
			sess.SetSource("file-1", testImage())

			if err := sess.Begin(); err != nil {
				t.Fatalf("Begin failed: %v", err)
			}
			c.finish(sess)

			if sess.State() != c.expected {
				t.Fatalf("Expected state %s, got %s", c.expected, sess.State())
			}
			if sess.Busy() {
				t.Error("Expected session not to be busy in a terminal state")
			}
			if err := sess.Begin(); err != nil {
				t.Errorf("Expected resubmission to be allowed, got %v", err)
			}
		})
	}
}

func TestSessionSettlesOnce(t *testing.T) {
	sess := NewStore(logger.NewNop()).Slot(DefaultSlot)
	sess.SetSource("file-1", testImage())

	if err := sess.Begin(); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !sess.Succeed() {
		t.Error("Expected the first terminal event to settle the session")
	}
	if sess.Fail() {
		t.Error("Expected the second terminal event to be dropped")
	}
	if sess.State() != StateSucceeded {
		t.Errorf("Expected the first terminal event to win, got %s", sess.State())
	}

	sess.Reset()
	if sess.Fail() {
		t.Error("Expected a terminal event after a reset to be dropped")
	}
	if sess.State() != StateIdle {
		t.Errorf("Expected idle state after reset, got %s", sess.State())
	}
}

func TestSetSourceDiscardsOldResult(t *testing.T) {
	sess := NewStore(logger.NewNop()).Slot(DefaultSlot)

	sess.SetSource("file-1", testImage())
	sess.SetProcessed(testImage())
	sess.SetSource("file-2", testImage())

	if sess.Processed() != nil {
		t.Error("Expected processed result to be discarded with a new source")
	}
	if sess.SourceFileID() != "file-2" {
		t.Errorf("Expected file-2, got %q", sess.SourceFileID())
	}
}
