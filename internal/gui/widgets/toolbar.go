package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Toolbar carries the file actions, the Apply control, the status line and
// the quality metrics readout.
type Toolbar struct {
	container    *fyne.Container
	openButton   *widget.Button
	saveButton   *widget.Button
	applyButton  *widget.Button
	statusLabel  *widget.Label
	metricsLabel *widget.Label

	openHandler  func()
	saveHandler  func()
	applyHandler func()
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.openButton = widget.NewButton("Open", t.onOpenClicked)
	t.openButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButton("Save", t.onSaveClicked)
	t.saveButton.Importance = widget.HighImportance
	t.saveButton.Disable()

	t.applyButton = widget.NewButton("Apply", t.onApplyClicked)
	t.applyButton.Importance = widget.HighImportance
	t.applyButton.Disable()

	t.statusLabel = widget.NewLabel("Ready")
	t.metricsLabel = widget.NewLabel("PSNR: -- | SSIM: --")
}

func (t *Toolbar) buildLayout() {
	background := canvas.NewRectangle(color.RGBA{R: 250, G: 249, B: 245, A: 255})
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 1.0
	border.StrokeColor = color.RGBA{R: 231, G: 231, B: 231, A: 255}

	leftSection := container.NewHBox(t.openButton, t.saveButton)
	centerSection := container.NewHBox(t.applyButton)
	statusSection := container.NewHBox(t.statusLabel)
	rightSection := container.NewHBox(t.metricsLabel)

	content := container.NewBorder(
		nil, nil,
		leftSection,
		rightSection,
		container.NewHBox(centerSection, widget.NewSeparator(), statusSection),
	)

	t.container = container.NewStack(
		border,
		container.NewPadded(
			container.NewStack(background, container.NewPadded(content)),
		),
	)
}

func (t *Toolbar) onOpenClicked() {
	if t.openHandler != nil {
		t.openHandler()
	}
}

func (t *Toolbar) onSaveClicked() {
	if t.saveHandler != nil {
		t.saveHandler()
	}
}

func (t *Toolbar) onApplyClicked() {
	if t.applyHandler != nil {
		t.applyHandler()
	}
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetOpenHandler(handler func()) {
	t.openHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetApplyHandler(handler func()) {
	t.applyHandler = handler
}

// SetApplyEnabled toggles the submit affordance. The control is inert while
// no file is selected or a request is outstanding.
func (t *Toolbar) SetApplyEnabled(enabled bool) {
	if enabled {
		t.applyButton.Enable()
	} else {
		t.applyButton.Disable()
	}
}

func (t *Toolbar) ApplyEnabled() bool {
	return !t.applyButton.Disabled()
}

func (t *Toolbar) SetSaveEnabled(enabled bool) {
	if enabled {
		t.saveButton.Enable()
	} else {
		t.saveButton.Disable()
	}
}

func (t *Toolbar) SaveEnabled() bool {
	return !t.saveButton.Disabled()
}

func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

func (t *Toolbar) Status() string {
	return t.statusLabel.Text
}

func (t *Toolbar) SetMetrics(psnr, ssim float64) {
	if psnr > 0 && ssim > 0 {
		t.metricsLabel.SetText(fmt.Sprintf("PSNR: %.2f dB | SSIM: %.4f", psnr, ssim))
	} else {
		t.metricsLabel.SetText("PSNR: -- | SSIM: --")
	}
}
