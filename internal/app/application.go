package app

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"threshold-studio/internal/backend"
	"threshold-studio/internal/bus"
	"threshold-studio/internal/config"
	"threshold-studio/internal/engine"
	"threshold-studio/internal/gui"
	"threshold-studio/internal/gui/widgets"
	"threshold-studio/internal/logger"
	"threshold-studio/internal/session"
	"threshold-studio/internal/store"
	"threshold-studio/internal/worker"
)

const (
	AppName    = "Threshold Studio"
	AppID      = "com.imageprocessing.threshold-studio"
	AppVersion = "1.0.0"
)

type shutdownHandler interface {
	Shutdown()
}

type processingWorker interface {
	Start()
	Shutdown()
}

type Application struct {
	fyneApp       fyne.App
	window        fyne.Window
	guiManager    *gui.Manager
	messageBus    *bus.Bus
	worker        processingWorker
	config        *config.Config
	logger        logger.Logger
	shutdownables []shutdownHandler
	shutdown      chan struct{}
}

func NewApplication() (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
		Build:   1,
	})

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	windowSize := calculateMinimumWindowSize()
	window.Resize(windowSize)
	window.CenterOnScreen()
	window.SetMaster()

	cfg := config.Load()
	log := logger.NewConsoleLogger(config.LogLevel())

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"window_width":  windowSize.Width,
		"window_height": windowSize.Height,
		"backend_url":   cfg.BackendURL,
		"local_engine":  !cfg.UseBackend(),
	})

	messageBus := bus.New(log)
	sessions := session.NewStore(log)

	var (
		uploader          gui.Uploader
		processing        processingWorker
		extraShutdownable shutdownHandler
	)

	if cfg.UseBackend() {
		client := backend.NewClient(cfg.BackendURL, cfg.HTTPTimeout, log)
		uploader = client
		processing = worker.NewRemote(messageBus, client, log)
	} else {
		files := store.NewFileStore(log)
		uploader = files
		processing = worker.NewLocal(messageBus, files, engine.New(log), log)
		extraShutdownable = shutdownFunc(files.Clear)
	}

	guiManager := gui.NewManager(window, gui.Deps{
		Sessions: sessions,
		Bus:      messageBus,
		Uploader: uploader,
	}, log)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		guiManager: guiManager,
		messageBus: messageBus,
		worker:     processing,
		config:     cfg,
		logger:     log,
		shutdown:   make(chan struct{}),
	}

	// Shut down in reverse order: screen first, then the worker, the bus,
	// and finally the file store.
	if extraShutdownable != nil {
		application.shutdownables = append(application.shutdownables, extraShutdownable)
	}
	application.shutdownables = append(application.shutdownables,
		shutdownFunc(messageBus.Shutdown),
		processing,
		guiManager,
	)

	application.setupSignalHandling()
	application.setupMenu()

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

type shutdownFunc func()

func (f shutdownFunc) Shutdown() { f() }

func (a *Application) setupMenu() {
	aboutAction := func() {
		fyne.Do(func() {
			a.showAbout()
		})
	}

	fileMenu := fyne.NewMenu("File")
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", aboutAction),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *Application) showAbout() {
	processingMode := "built-in engine"
	if a.config.UseBackend() {
		processingMode = a.config.BackendURL
	}

	aboutContent := container.NewVBox(
		widget.NewLabel(AppName),
		widget.NewLabel(fmt.Sprintf("Version: %s", AppVersion)),
		widget.NewLabel(""),
		widget.NewLabel(fmt.Sprintf("Processing: %s", processingMode)),
		widget.NewLabel(fmt.Sprintf("Go: %s", runtime.Version())),
		widget.NewLabel(fmt.Sprintf("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)),
	)

	dialog.ShowCustom("About", "Close", aboutContent, a.window)
}

func calculateMinimumWindowSize() fyne.Size {
	imageDisplayWidth := widgets.ImageAreaWidth * 2
	toolbarHeight := float32(50)
	parametersHeight := float32(150)

	return fyne.Size{
		Width:  float32(imageDisplayWidth + 100),
		Height: float32(widgets.ImageAreaHeight) + toolbarHeight + parametersHeight + 100,
	}
}

func (a *Application) setupSignalHandling() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case sig := <-sigChan:
			a.logger.Info("Application", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			a.initiateShutdown()
		case <-a.shutdown:
		}
	}()
}

func (a *Application) Run() error {
	a.worker.Start()

	a.window.SetCloseIntercept(func() {
		a.initiateShutdown()
		a.window.Close()
	})

	fyne.Do(func() {
		a.guiManager.Show()
	})

	go func() {
		<-a.shutdown
		fyne.Do(func() {
			a.fyneApp.Quit()
		})
	}()

	a.fyneApp.Run()
	return nil
}

func (a *Application) initiateShutdown() {
	select {
	case <-a.shutdown:
		return
	default:
		close(a.shutdown)
	}

	a.logger.Info("Application", "shutdown sequence initiated", map[string]interface{}{
		"components": len(a.shutdownables),
	})

	for i := len(a.shutdownables) - 1; i >= 0; i-- {
		component := a.shutdownables[i]

		done := make(chan struct{})
		go func() {
			defer close(done)
			component.Shutdown()
		}()

		select {
		case <-done:
		case <-time.After(10 * time.Second):
			a.logger.Warning("Application", "component shutdown timeout", map[string]interface{}{
				"component_index": i,
			})
		}
	}

	a.logger.Info("Application", "shutdown sequence completed", nil)
}
