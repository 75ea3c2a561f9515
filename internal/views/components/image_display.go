package components

import (
	"image"
	"image/color"
	"image/draw"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	ImageAreaWidth  = 480
	ImageAreaHeight = 360
)

// ImageDisplay shows the original image next to the current one.
type ImageDisplay struct {
	container     *container.Split
	originalImage *canvas.Image
	currentImage  *canvas.Image

	placeholder image.Image

	hasOriginal bool
	hasCurrent  bool
}

func NewImageDisplay() *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.placeholder = placeholderImage()

	id.originalImage = newImageCanvas(id.placeholder)
	id.currentImage = newImageCanvas(id.placeholder)
}

func newImageCanvas(img image.Image) *canvas.Image {
	c := canvas.NewImageFromImage(img)
	c.FillMode = canvas.ImageFillContain
	// Filter output is inspected pixel by pixel, so no smoothing.
	c.ScaleMode = canvas.ImageScalePixels
	c.SetMinSize(fyne.NewSize(ImageAreaWidth, ImageAreaHeight))
	return c
}

// placeholderImage is a light grey panel with a one pixel border.
func placeholderImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, ImageAreaWidth, ImageAreaHeight))

	borderColor := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(borderColor), image.Point{}, draw.Src)

	inner := img.Bounds().Inset(1)
	lightGray := color.RGBA{R: 240, G: 240, B: 240, A: 255}
	draw.Draw(img, inner, image.NewUniform(lightGray), image.Point{}, draw.Src)

	return img
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original Image**"),
		nil, nil, nil,
		container.NewStack(canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255}), id.originalImage),
	)

	currentContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Current Image**"),
		nil, nil, nil,
		container.NewStack(canvas.NewRectangle(color.RGBA{R: 252, G: 252, B: 252, A: 255}), id.currentImage),
	)

	id.container = container.NewHSplit(originalContainer, currentContainer)
	id.container.SetOffset(0.5)
}

// SetOriginalImage shows img on the left; nil restores the placeholder.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.hasOriginal = setCanvasImage(id.originalImage, img, id.placeholder)
}

// SetCurrentImage shows img on the right; nil restores the placeholder.
func (id *ImageDisplay) SetCurrentImage(img image.Image) {
	id.hasCurrent = setCanvasImage(id.currentImage, img, id.placeholder)
}

func setCanvasImage(c *canvas.Image, img, placeholder image.Image) bool {
	loaded := img != nil
	if !loaded {
		img = placeholder
	}
	c.Image = img
	c.Refresh()
	return loaded
}

func (id *ImageDisplay) HasOriginalImage() bool {
	return id.hasOriginal
}

func (id *ImageDisplay) HasCurrentImage() bool {
	return id.hasCurrent
}

// CurrentImage returns the image shown on the right, or nil for the placeholder.
func (id *ImageDisplay) CurrentImage() image.Image {
	if !id.hasCurrent {
		return nil
	}
	return id.currentImage.Image
}

func (id *ImageDisplay) ClearImages() {
	id.SetOriginalImage(nil)
	id.SetCurrentImage(nil)
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}
