package bus

import (
	"image"

	"threshold-studio/internal/backend"
)

// Topics shared between the thresholding screen and the processing workers.
const (
	TopicProcessImage  = "process:image"
	TopicImageReceived = "image:received"
	TopicImageError    = "image:error"
)

// ProcessImageRequest asks a worker to run thresholding. Endpoint carries the
// destination locator ("/api/thresholding/<fileID>"); Body always contains all
// parameters, including the ones irrelevant to the selected mode.
type ProcessImageRequest struct {
	Endpoint string
	Body     backend.ThresholdingRequest
}

// ImageReceived terminates a request successfully. Image may be nil when the
// worker produced no result payload.
type ImageReceived struct {
	Image image.Image
}

// ImageError terminates a request with a failure. It carries no detail; every
// failure kind collapses to the same user-facing outcome.
type ImageError struct{}
