package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"

	"threshold-studio/internal/logger"
)

type Loader struct {
	logger logger.Logger
}

func NewLoader(log logger.Logger) *Loader {
	return &Loader{logger: log}
}

func (l *Loader) LoadFromReader(reader fyne.URIReadCloser) (*ImageData, error) {
	uri := reader.URI()
	extension := strings.ToLower(filepath.Ext(uri.Path()))

	data, err := io.ReadAll(bufio.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	imageData, err := l.LoadFromBytes(data, extension)
	if err != nil {
		return nil, err
	}
	imageData.Name = uri.Name()
	return imageData, nil
}

func (l *Loader) LoadFromBytes(data []byte, formatHint string) (*ImageData, error) {
	img, decodedFormat, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	imageData := &ImageData{
		Image:  img,
		Raw:    data,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: determineFormat(formatHint, decodedFormat),
	}

	l.logger.Info("ImageLoader", "image loaded", map[string]interface{}{
		"width":  imageData.Width,
		"height": imageData.Height,
		"format": imageData.Format,
	})

	return imageData, nil
}

func determineFormat(extension, decodedFormat string) string {
	switch extension {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".png":
		return "png"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	default:
		if decodedFormat != "" {
			return decodedFormat
		}
		return "unknown"
	}
}
