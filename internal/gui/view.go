package gui

import (
	"errors"
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"threshold-studio/internal/gui/widgets"
)

// processingFailedMessage is the user-facing text for the failure event.
const processingFailedMessage = "Thresholding couldn't be applied on your image, please try again later"

type View struct {
	window     fyne.Window
	controller *Controller

	toolbar        *widgets.Toolbar
	imageDisplay   *widgets.ImageDisplay
	parameterPanel *widgets.ParameterPanel
	mainContainer  *fyne.Container
}

func NewView(window fyne.Window) *View {
	view := &View{
		window: window,
	}

	view.setupComponents()
	view.setupLayout()

	return view
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.setupEventHandlers()
}

func (v *View) setupComponents() {
	v.toolbar = widgets.NewToolbar()
	v.imageDisplay = widgets.NewImageDisplay()
	v.parameterPanel = widgets.NewParameterPanel()
}

func (v *View) setupLayout() {
	v.mainContainer = container.NewVBox(
		v.imageDisplay.GetContainer(),
		v.toolbar.GetContainer(),
		v.parameterPanel.GetContainer(),
	)
}

func (v *View) setupEventHandlers() {
	if v.controller == nil {
		return
	}

	v.toolbar.SetOpenHandler(v.controller.OpenImage)
	v.toolbar.SetSaveHandler(v.controller.SaveImage)
	v.toolbar.SetApplyHandler(v.controller.Apply)

	v.parameterPanel.SetModeChangeHandler(v.controller.SelectMode)
	v.parameterPanel.SetParameterChangeHandler(v.controller.UpdateParameter)
}

func (v *View) GetMainContainer() *fyne.Container {
	return v.mainContainer
}

func (v *View) SetUploadedImage(img image.Image) {
	v.imageDisplay.SetUploadedImage(img)
}

func (v *View) SetProcessedImage(img image.Image) {
	v.imageDisplay.SetProcessedImage(img)
}

// ClearScreen returns every visible element to its mounted state.
func (v *View) ClearScreen() {
	v.imageDisplay.Clear()
	v.parameterPanel.Reset()
	v.toolbar.SetApplyEnabled(false)
	v.toolbar.SetSaveEnabled(false)
	v.toolbar.SetMetrics(0, 0)
	v.toolbar.SetStatus("Ready")
}

func (v *View) SetApplyEnabled(enabled bool) {
	v.toolbar.SetApplyEnabled(enabled)
}

func (v *View) SetSaveEnabled(enabled bool) {
	v.toolbar.SetSaveEnabled(enabled)
}

func (v *View) SetStatus(status string) {
	v.toolbar.SetStatus(status)
}

func (v *View) SetMetrics(psnr, ssim float64) {
	v.toolbar.SetMetrics(psnr, ssim)
}

func (v *View) ShowError(title string, err error) {
	dialog.ShowError(fmt.Errorf("%s: %w", title, err), v.window)
}

// ShowProcessingFailed surfaces the single failure outcome as a dismissible
// notification.
func (v *View) ShowProcessingFailed() {
	dialog.ShowError(errors.New(processingFailedMessage), v.window)
}

func (v *View) ShowFileDialog(callback func(fyne.URIReadCloser, error)) {
	dialog.ShowFileOpen(callback, v.window)
}

func (v *View) ShowSaveDialog(callback func(fyne.URIWriteCloser, error)) {
	dialog.ShowFileSave(callback, v.window)
}

func (v *View) GetWindow() fyne.Window {
	return v.window
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
