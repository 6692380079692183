package gui

import (
	"fyne.io/fyne/v2"

	"threshold-studio/internal/bus"
	"threshold-studio/internal/logger"
	"threshold-studio/internal/session"
)

// Deps carries everything the thresholding screen needs; it is assembled in
// the application wiring instead of reaching for ambient shared state.
type Deps struct {
	Sessions *session.Store
	Bus      *bus.Bus
	Uploader Uploader
}

// Manager wires the view and controller for the window.
type Manager struct {
	window     fyne.Window
	controller *Controller
	view       *View
	logger     logger.Logger
	isShutdown bool
}

func NewManager(window fyne.Window, deps Deps, log logger.Logger) *Manager {
	manager := &Manager{
		window: window,
		logger: log,
	}

	manager.view = NewView(window)
	manager.controller = NewController(deps.Sessions, deps.Bus, deps.Uploader, log)

	manager.view.SetController(manager.controller)
	manager.controller.SetView(manager.view)

	log.Info("GUIManager", "initialized", map[string]interface{}{
		"window_title": window.Title(),
	})

	return manager
}

// Show mounts the thresholding screen and displays the window.
func (m *Manager) Show() {
	m.controller.Mount()
	m.view.Show()
	m.logger.Info("GUIManager", "GUI displayed", nil)
}

func (m *Manager) GetWindow() fyne.Window {
	return m.window
}

func (m *Manager) Shutdown() {
	if m.isShutdown {
		return
	}
	m.isShutdown = true

	if m.controller != nil {
		m.controller.Teardown()
	}

	m.logger.Info("GUIManager", "shutdown completed", nil)
}
