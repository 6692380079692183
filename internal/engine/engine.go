package engine

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"threshold-studio/internal/backend"
	"threshold-studio/internal/logger"
)

// Engine is the built-in thresholding implementation, used when no remote
// backend is configured. It mirrors the backend contract: it receives the
// full request body and ignores the fields irrelevant to the selected mode.
type Engine struct {
	logger logger.Logger
}

func New(log logger.Logger) *Engine {
	return &Engine{logger: log}
}

// ValidateRequest checks the parameters the way the backend would. The UI
// only constrains values through control bounds, so out-of-range or
// mode-less requests can still arrive here.
func ValidateRequest(req backend.ThresholdingRequest) error {
	switch req.Mode {
	case backend.ModeLocal, backend.ModeGlobal:
	case "":
		return fmt.Errorf("no thresholding mode selected")
	default:
		return fmt.Errorf("unknown thresholding mode %q", req.Mode)
	}

	if req.Mode == backend.ModeGlobal {
		if req.Threshold < backend.ThresholdMin || req.Threshold > backend.ThresholdMax {
			return fmt.Errorf("threshold %d outside [%d, %d]", req.Threshold, backend.ThresholdMin, backend.ThresholdMax)
		}
		return nil
	}

	if req.ThresholdMargin < backend.ThresholdMin || req.ThresholdMargin > backend.ThresholdMax {
		return fmt.Errorf("threshold margin %d outside [%d, %d]", req.ThresholdMargin, backend.ThresholdMin, backend.ThresholdMax)
	}
	if req.BlockSize%2 == 0 {
		return fmt.Errorf("block size %d must be odd", req.BlockSize)
	}
	if req.BlockSize > backend.BlockSizeMax {
		return fmt.Errorf("block size %d outside [%d, %d]", req.BlockSize, backend.BlockSizeMin, backend.BlockSizeMax)
	}
	// OpenCV needs a neighborhood of at least 3x3, even though the control
	// allows 1.
	if req.BlockSize < 3 {
		return fmt.Errorf("block size %d too small for adaptive thresholding", req.BlockSize)
	}
	return nil
}

// Apply runs thresholding over the encoded image bytes and returns the
// binarized result.
func (e *Engine) Apply(ctx context.Context, data []byte, req backend.ThresholdingRequest) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	src, err := gocv.IMDecode(data, gocv.IMReadGrayScale)
	if err != nil {
		return nil, fmt.Errorf("failed to decode source image: %w", err)
	}
	defer src.Close()

	if src.Empty() {
		return nil, fmt.Errorf("source image decoded to an empty matrix")
	}

	dst := gocv.NewMat()
	defer dst.Close()

	switch req.Mode {
	case backend.ModeGlobal:
		gocv.Threshold(src, &dst, float32(req.Threshold), 255, gocv.ThresholdBinary)
	case backend.ModeLocal:
		gocv.AdaptiveThreshold(src, &dst, 255, gocv.AdaptiveThresholdMean, gocv.ThresholdBinary,
			req.BlockSize, float32(req.ThresholdMargin))
	}

	if dst.Empty() {
		return nil, fmt.Errorf("thresholding produced an empty matrix")
	}

	result, err := dst.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert result: %w", err)
	}

	e.logger.Info("Engine", "thresholding applied", map[string]interface{}{
		"mode":   string(req.Mode),
		"width":  dst.Cols(),
		"height": dst.Rows(),
	})

	return result, nil
}
