package pipeline

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"fyne.io/fyne/v2"

	"threshold-studio/internal/logger"
)

type Saver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	return &Saver{logger: log}
}

// SaveToWriter encodes img in the requested format. An empty format falls
// back to the writer's URI extension, then to PNG.
func (s *Saver) SaveToWriter(writer io.Writer, img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}

	saveFormat := strings.ToLower(format)
	if saveFormat == "" {
		if uriWriter, ok := writer.(fyne.URIWriteCloser); ok {
			switch strings.ToLower(uriWriter.URI().Extension()) {
			case ".jpg", ".jpeg":
				saveFormat = "jpeg"
			default:
				saveFormat = "png"
			}
		} else {
			saveFormat = "png"
		}
	}

	var err error
	switch saveFormat {
	case "jpeg":
		err = jpeg.Encode(writer, img, &jpeg.Options{Quality: 95})
	case "png":
		err = png.Encode(writer, img)
	default:
		s.logger.Warning("ImageSaver", "format not supported, using PNG", map[string]interface{}{
			"requested_format": saveFormat,
		})
		err = png.Encode(writer, img)
	}

	if err != nil {
		s.logger.Error("ImageSaver", err, map[string]interface{}{
			"format": saveFormat,
		})
		return err
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"format": saveFormat,
	})

	return nil
}
