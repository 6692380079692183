package session

import (
	"fmt"
	"image"
	"sync"

	"threshold-studio/internal/logger"
)

// DefaultSlot is the upload/output pair the thresholding screen operates on.
const DefaultSlot = 0

// RequestState tracks the lifecycle of the screen's single outstanding
// request. Succeeded and Failed both permit resubmission; only InFlight
// blocks it.
type RequestState int

const (
	StateIdle RequestState = iota
	StateInFlight
	StateSucceeded
	StateFailed
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in_flight"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session holds the per-slot processing state shared between a screen and
// the display layer.
type Session struct {
	mu           sync.Mutex
	slot         int
	sourceFileID string
	uploaded     image.Image
	processed    image.Image
	state        RequestState
	logger       logger.Logger
}

// Store hands out sessions keyed by slot index. It is built once during
// application wiring and passed into each screen explicitly.
type Store struct {
	mu     sync.Mutex
	slots  map[int]*Session
	logger logger.Logger
}

func NewStore(log logger.Logger) *Store {
	return &Store{
		slots:  make(map[int]*Session),
		logger: log,
	}
}

func (st *Store) Slot(index int) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.slots[index]
	if !ok {
		sess = &Session{slot: index, logger: st.logger}
		st.slots[index] = sess
	}
	return sess
}

// Reset clears every field of the session. Called when a screen mounts so no
// stale display from a previous visit survives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sourceFileID = ""
	s.uploaded = nil
	s.processed = nil
	s.state = StateIdle

	s.logger.Debug("Session", "slot reset", map[string]interface{}{
		"slot": s.slot,
	})
}

// SetSource records a freshly uploaded file. Any previous processed result
// belongs to the old file and is discarded.
func (s *Session) SetSource(fileID string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sourceFileID = fileID
	s.uploaded = img
	s.processed = nil
}

func (s *Session) SourceFileID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceFileID
}

func (s *Session) Uploaded() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploaded
}

func (s *Session) SetProcessed(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed = img
}

func (s *Session) Processed() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processed
}

func (s *Session) State() RequestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a request is currently outstanding.
func (s *Session) Busy() bool {
	return s.State() == StateInFlight
}

// Begin moves the session into InFlight. It rejects the transition when no
// source file is selected or a request is already outstanding, so the guard
// holds even if the submit control was somehow triggered while disabled.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sourceFileID == "" {
		return fmt.Errorf("no source file selected")
	}
	if s.state == StateInFlight {
		return fmt.Errorf("a request is already in flight")
	}

	s.state = StateInFlight
	return nil
}

// Succeed marks the outstanding request as completed. It reports whether the
// session actually settled; callers must not act on a terminal event the
// session dropped.
func (s *Session) Succeed() bool {
	return s.settle(StateSucceeded)
}

// Fail marks the outstanding request as failed. Reports whether the session
// actually settled.
func (s *Session) Fail() bool {
	return s.settle(StateFailed)
}

// settle records the terminal outcome of the outstanding request. A session
// settles at most once per request; a second terminal event, or one arriving
// after a reset, is logged and dropped.
func (s *Session) settle(state RequestState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInFlight {
		s.logger.Warning("Session", "terminal event without outstanding request", map[string]interface{}{
			"slot":  s.slot,
			"state": s.state.String(),
			"event": state.String(),
		})
		return false
	}

	s.logger.Debug("Session", "request settled", map[string]interface{}{
		"slot": s.slot,
		"to":   state.String(),
	})
	s.state = state
	return true
}
