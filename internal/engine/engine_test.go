package engine

import (
	"testing"

	"threshold-studio/internal/backend"
)

func TestValidateRequest(t *testing.T) {
	local := func(margin, block int) backend.ThresholdingRequest {
		return backend.ThresholdingRequest{
			Mode:            backend.ModeLocal,
			Threshold:       backend.DefaultThreshold,
			ThresholdMargin: margin,
			BlockSize:       block,
		}
	}
	global := func(threshold int) backend.ThresholdingRequest {
		return backend.ThresholdingRequest{
			Mode:            backend.ModeGlobal,
			Threshold:       threshold,
			ThresholdMargin: backend.DefaultThresholdMargin,
			BlockSize:       backend.DefaultBlockSize,
		}
	}

	cases := []struct {
		name    string
		req     backend.ThresholdingRequest
		wantErr bool
	}{
		{"no mode", backend.NewThresholdingRequest(), true},
		{"unknown mode", backend.ThresholdingRequest{Mode: "otsu"}, true},
		{"global ok", global(127), false},
		{"global threshold low bound", global(0), false},
		{"global threshold high bound", global(255), false},
		{"global threshold too high", global(256), true},
		{"global threshold negative", global(-1), true},
		{"local ok", local(4, 7), false},
		{"local block bound", local(4, 13), false},
		{"local even block", local(4, 8), true},
		{"local block too small for opencv", local(4, 1), true},
		{"local block too large", local(4, 15), true},
		{"local margin too high", local(300, 7), true},
		// Global mode ignores the local-only fields entirely.
		{"global with bad local fields", backend.ThresholdingRequest{
			Mode: backend.ModeGlobal, Threshold: 127, ThresholdMargin: 999, BlockSize: 2,
		}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateRequest(c.req)
			if c.wantErr && err == nil {
				t.Fatal("Expected an error")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
		})
	}
}
