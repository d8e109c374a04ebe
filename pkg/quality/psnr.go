// Package quality measures how far a stego image drifted from its original.
package quality

import (
	"errors"
	"fmt"
	"math"

	"github.com/Beastly713/bitplane/pkg/raster"
)

// MaxSampleValue is the peak value of an 8-bit sample.
const MaxSampleValue = 255.0

// ErrShapeMismatch indicates the two buffers differ in kind or dimensions.
var ErrShapeMismatch = errors.New("images do not have the same shape")

// MSE returns the mean squared error over every sample of two equal-shaped carriers.
func MSE(original, stego raster.Carrier) (float64, error) {
	a, b, err := samplePair(original, stego)
	if err != nil {
		return 0, err
	}
	if len(a) == 0 {
		return 0, nil
	}

	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return sum / float64(len(a)), nil
}

// PSNR returns the peak signal-to-noise ratio in dB.
// Identical images give +Inf.
func PSNR(original, stego raster.Carrier) (float64, error) {
	mse, err := MSE(original, stego)
	if err != nil {
		return 0, err
	}
	return PSNRFromMSE(mse), nil
}

// PSNRFromMSE converts a mean squared error to dB.
func PSNRFromMSE(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 20 * math.Log10(MaxSampleValue/math.Sqrt(mse))
}

// FormatPSNR renders a PSNR value with two decimals, or "inf".
func FormatPSNR(psnr float64) string {
	if math.IsInf(psnr, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", psnr)
}

func samplePair(original, stego raster.Carrier) ([]uint8, []uint8, error) {
	if original.Kind() != stego.Kind() {
		return nil, nil, fmt.Errorf("%w: %s vs %s", ErrShapeMismatch, original.Kind(), stego.Kind())
	}
	ow, oh := original.Bounds()
	sw, sh := stego.Bounds()
	if ow != sw || oh != sh {
		return nil, nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, ow, oh, sw, sh)
	}

	a, b := raster.Samples(original), raster.Samples(stego)
	if a == nil || b == nil {
		return nil, nil, fmt.Errorf("%w: no samples for %s image", ErrShapeMismatch, original.Kind())
	}
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("%w: %d vs %d samples", ErrShapeMismatch, len(a), len(b))
	}
	return a, b, nil
}
