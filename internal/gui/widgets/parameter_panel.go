package widgets

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"threshold-studio/internal/backend"
)

const (
	modeLocalLabel  = "Local"
	modeGlobalLabel = "Global"
)

// ParameterPanel renders the mode selector and the numeric inputs for the
// selected mode: Local shows threshold margin and block size, Global shows
// the threshold. Hidden inputs keep their values.
type ParameterPanel struct {
	container         *fyne.Container
	parametersContent *fyne.Container

	modeSelect *widget.Select

	thresholdSlider *widget.Slider
	thresholdLabel  *widget.Label
	marginSlider    *widget.Slider
	marginLabel     *widget.Label
	blockSizeSlider *widget.Slider
	blockSizeLabel  *widget.Label

	modeChangeHandler      func(backend.Mode)
	parameterChangeHandler func(string, interface{})

	currentMode backend.Mode
}

func NewParameterPanel() *ParameterPanel {
	panel := &ParameterPanel{}
	panel.createWidgets()
	panel.setupPanel()
	return panel
}

func (pp *ParameterPanel) createWidgets() {
	pp.modeSelect = widget.NewSelect([]string{modeLocalLabel, modeGlobalLabel}, pp.onModeSelected)
	pp.modeSelect.PlaceHolder = "Select mode"

	pp.thresholdSlider = widget.NewSlider(backend.ThresholdMin, backend.ThresholdMax)
	pp.thresholdSlider.Step = 1
	pp.thresholdSlider.SetValue(backend.DefaultThreshold)
	pp.thresholdLabel = widget.NewLabel("Threshold: " + strconv.Itoa(backend.DefaultThreshold))

	pp.marginSlider = widget.NewSlider(backend.ThresholdMin, backend.ThresholdMax)
	pp.marginSlider.Step = 1
	pp.marginSlider.SetValue(backend.DefaultThresholdMargin)
	pp.marginLabel = widget.NewLabel("Threshold Margin: " + strconv.Itoa(backend.DefaultThresholdMargin))

	pp.blockSizeSlider = widget.NewSlider(backend.BlockSizeMin, backend.BlockSizeMax)
	pp.blockSizeSlider.Step = 2
	pp.blockSizeSlider.SetValue(backend.DefaultBlockSize)
	pp.blockSizeLabel = widget.NewLabel("Block Size: " + strconv.Itoa(backend.DefaultBlockSize))
}

func (pp *ParameterPanel) setupPanel() {
	pp.parametersContent = container.NewVBox(
		widget.NewLabel("Select a thresholding mode"),
	)
	pp.container = container.NewVBox(
		container.NewHBox(widget.NewLabel("Mode:"), pp.modeSelect),
		pp.parametersContent,
	)
}

func (pp *ParameterPanel) GetContainer() *fyne.Container {
	return pp.container
}

func (pp *ParameterPanel) SetModeChangeHandler(handler func(backend.Mode)) {
	pp.modeChangeHandler = handler
}

func (pp *ParameterPanel) SetParameterChangeHandler(handler func(string, interface{})) {
	pp.parameterChangeHandler = handler
	pp.setupEventHandlers()
}

func (pp *ParameterPanel) setupEventHandlers() {
	if pp.parameterChangeHandler == nil {
		return
	}

	pp.thresholdSlider.OnChanged = func(value float64) {
		intValue := int(value)
		pp.thresholdLabel.SetText("Threshold: " + strconv.Itoa(intValue))
		pp.parameterChangeHandler("threshold", intValue)
	}

	pp.marginSlider.OnChanged = func(value float64) {
		intValue := int(value)
		pp.marginLabel.SetText("Threshold Margin: " + strconv.Itoa(intValue))
		pp.parameterChangeHandler("thresholdMargin", intValue)
	}

	pp.blockSizeSlider.OnChanged = func(value float64) {
		intValue := int(value)
		if intValue%2 == 0 {
			intValue++
		}
		pp.blockSizeLabel.SetText("Block Size: " + strconv.Itoa(intValue))
		pp.parameterChangeHandler("blockSize", intValue)
	}
}

func (pp *ParameterPanel) onModeSelected(label string) {
	mode := backend.ModeLocal
	if label == modeGlobalLabel {
		mode = backend.ModeGlobal
	}

	pp.ShowModeParameters(mode)

	if pp.modeChangeHandler != nil {
		pp.modeChangeHandler(mode)
	}
}

// ShowModeParameters swaps the visible inputs to the given mode's set.
// Widget instances are reused, so values entered under the other mode
// survive the switch.
func (pp *ParameterPanel) ShowModeParameters(mode backend.Mode) {
	if pp.currentMode == mode {
		return
	}
	pp.currentMode = mode

	pp.parametersContent.RemoveAll()

	switch mode {
	case backend.ModeGlobal:
		pp.parametersContent.Add(container.NewVBox(pp.thresholdLabel, pp.thresholdSlider))
	case backend.ModeLocal:
		pp.parametersContent.Add(container.NewHBox(
			container.NewVBox(pp.marginLabel, pp.marginSlider),
			container.NewVBox(pp.blockSizeLabel, pp.blockSizeSlider),
		))
	default:
		pp.parametersContent.Add(widget.NewLabel("Select a thresholding mode"))
	}

	pp.container.Refresh()
}

// Reset returns the panel to its unselected state with default values.
func (pp *ParameterPanel) Reset() {
	pp.modeSelect.ClearSelected()
	pp.currentMode = ""

	pp.thresholdSlider.SetValue(backend.DefaultThreshold)
	pp.marginSlider.SetValue(backend.DefaultThresholdMargin)
	pp.blockSizeSlider.SetValue(backend.DefaultBlockSize)

	pp.parametersContent.RemoveAll()
	pp.parametersContent.Add(widget.NewLabel("Select a thresholding mode"))
	pp.container.Refresh()
}
