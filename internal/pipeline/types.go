package pipeline

import "image"

// ImageData is a decoded image plus the raw bytes it came from. The raw
// bytes travel on to the uploader (remote mode) or the file store and engine
// (local mode), so the file is read exactly once.
type ImageData struct {
	Image  image.Image
	Raw    []byte
	Width  int
	Height int
	Format string
	Name   string
}
