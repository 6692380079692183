package backend

import (
	"encoding/json"
	"fmt"
)

// Mode selects the thresholding variant. The zero value means "not chosen
// yet" and marshals as JSON null.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeGlobal Mode = "global"
)

func (m Mode) MarshalJSON() ([]byte, error) {
	if m == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(m))
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*m = Mode(s)
	return nil
}

// Defaults reported for parameters the user never adjusted. Every request
// carries all four fields; the consumer ignores the ones irrelevant to the
// selected mode.
const (
	DefaultThreshold       = 128
	DefaultThresholdMargin = 4
	DefaultBlockSize       = 7
)

// Parameter bounds as presented by the UI controls. They are not enforced
// before sending; the consumer may still reject out-of-range values.
const (
	ThresholdMin = 0
	ThresholdMax = 255
	BlockSizeMin = 1
	BlockSizeMax = 13
)

// ThresholdingRequest is the JSON body of POST /api/thresholding/<fileID>.
type ThresholdingRequest struct {
	Mode            Mode `json:"mode"`
	Threshold       int  `json:"threshold"`
	ThresholdMargin int  `json:"thresholdMargin"`
	BlockSize       int  `json:"blockSize"`
}

// NewThresholdingRequest returns a request with default parameter values and
// no mode selected.
func NewThresholdingRequest() ThresholdingRequest {
	return ThresholdingRequest{
		Threshold:       DefaultThreshold,
		ThresholdMargin: DefaultThresholdMargin,
		BlockSize:       DefaultBlockSize,
	}
}

// ThresholdingEndpoint builds the destination locator for a source file.
func ThresholdingEndpoint(fileID string) string {
	return fmt.Sprintf("/api/thresholding/%s", fileID)
}

type thresholdingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Image   string `json:"image"`
}

type uploadResponse struct {
	ID string `json:"id"`
}
