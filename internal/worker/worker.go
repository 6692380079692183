// Package worker hosts the processing side of the message channel. A worker
// subscribes to process:image and answers every request with exactly one of
// image:received or image:error; any failure kind collapses to the error
// event, detail goes to the log.
package worker

import (
	"fmt"
	"strings"
)

const thresholdingPrefix = "/api/thresholding/"

// FileIDFromEndpoint extracts the source file id from a destination locator
// of the form "/api/thresholding/<fileID>".
func FileIDFromEndpoint(endpoint string) (string, error) {
	if !strings.HasPrefix(endpoint, thresholdingPrefix) {
		return "", fmt.Errorf("endpoint %q is not a thresholding locator", endpoint)
	}
	id := strings.TrimPrefix(endpoint, thresholdingPrefix)
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("endpoint %q carries no usable file id", endpoint)
	}
	return id, nil
}
