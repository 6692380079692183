package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 500
	ImageAreaHeight = 400
)

// ImageDisplay shows the uploaded image next to the processed result.
type ImageDisplay struct {
	container      fyne.CanvasObject
	uploadedImage  *canvas.Image
	processedImage *canvas.Image
	splitView      *container.Split
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (d *ImageDisplay) createComponents() {
	d.uploadedImage = canvas.NewImageFromImage(nil)
	d.uploadedImage.FillMode = canvas.ImageFillContain
	d.uploadedImage.ScaleMode = canvas.ImageScaleSmooth
	d.uploadedImage.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))

	d.processedImage = canvas.NewImageFromImage(nil)
	d.processedImage.FillMode = canvas.ImageFillContain
	d.processedImage.ScaleMode = canvas.ImageScaleSmooth
	d.processedImage.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
}

func (d *ImageDisplay) setupLayout() {
	uploadedContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Uploaded**"),
		nil, nil, nil,
		d.uploadedImage,
	)

	processedContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Processed**"),
		nil, nil, nil,
		d.processedImage,
	)

	d.splitView = container.NewHSplit(uploadedContainer, processedContainer)
	d.splitView.SetOffset(0.5)
	d.container = d.splitView
}

func (d *ImageDisplay) GetContainer() fyne.CanvasObject {
	return d.container
}

func (d *ImageDisplay) SetUploadedImage(img image.Image) {
	d.uploadedImage.Image = img
	d.uploadedImage.Refresh()
	d.container.Refresh()
}

func (d *ImageDisplay) SetProcessedImage(img image.Image) {
	d.processedImage.Image = img
	d.processedImage.Refresh()
}

// Clear empties both canvases, used when the screen mounts.
func (d *ImageDisplay) Clear() {
	d.uploadedImage.Image = nil
	d.processedImage.Image = nil
	d.uploadedImage.Refresh()
	d.processedImage.Refresh()
	d.container.Refresh()
}
