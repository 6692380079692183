package metrics

import (
	"image"
	"image/color"
	"math"
)

// PSNR cap reported for identical images, where the mean squared error is
// zero and the true value is unbounded.
const psnrIdentical = 100.0

// PSNR returns the peak signal-to-noise ratio between two images, computed
// over their grayscale values. Dimension mismatch yields 0.
func PSNR(a, b image.Image) float64 {
	if a == nil || b == nil || !a.Bounds().Eq(b.Bounds()) {
		return 0
	}

	bounds := a.Bounds()
	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			diff := grayValue(a.At(x, y)) - grayValue(b.At(x, y))
			sum += diff * diff
		}
	}

	pixels := float64(bounds.Dx() * bounds.Dy())
	mse := sum / pixels
	if mse == 0 {
		return psnrIdentical
	}

	return 10 * math.Log10(255*255/mse)
}

// SSIM returns a single-window structural similarity index between two
// images over their grayscale values. Dimension mismatch yields 0.
func SSIM(a, b image.Image) float64 {
	if a == nil || b == nil || !a.Bounds().Eq(b.Bounds()) {
		return 0
	}

	bounds := a.Bounds()
	pixels := float64(bounds.Dx() * bounds.Dy())

	var meanA, meanB float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			meanA += grayValue(a.At(x, y))
			meanB += grayValue(b.At(x, y))
		}
	}
	meanA /= pixels
	meanB /= pixels

	var varA, varB, covar float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			da := grayValue(a.At(x, y)) - meanA
			db := grayValue(b.At(x, y)) - meanB
			varA += da * da
			varB += db * db
			covar += da * db
		}
	}
	varA /= pixels
	varB /= pixels
	covar /= pixels

	// Standard SSIM stabilizing constants for 8-bit dynamic range.
	c1 := math.Pow(0.01*255, 2)
	c2 := math.Pow(0.03*255, 2)

	numerator := (2*meanA*meanB + c1) * (2*covar + c2)
	denominator := (meanA*meanA + meanB*meanB + c1) * (varA + varB + c2)

	return numerator / denominator
}

func grayValue(c color.Color) float64 {
	g := color.GrayModel.Convert(c).(color.Gray)
	return float64(g.Y)
}
