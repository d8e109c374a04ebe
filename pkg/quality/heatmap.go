package quality

import (
	"image"

	"github.com/Beastly713/bitplane/pkg/raster"
	"github.com/disintegration/gift"
)

// Heatmap renders where the stego image differs from the original.
// Each pixel's brightness is its largest per-channel difference, stretched so
// the biggest change in the image is full intensity, then tinted red.
func Heatmap(original, stego raster.Carrier) (*image.NRGBA, error) {
	a, b, err := samplePair(original, stego)
	if err != nil {
		return nil, err
	}

	width, height := original.Bounds()
	channels := 1
	if original.Kind() == raster.KindRGB {
		channels = raster.RGBChannels
	}

	diff := image.NewGray(image.Rect(0, 0, width, height))
	var peak uint8
	for p := 0; p < width*height; p++ {
		var d uint8
		for c := 0; c < channels; c++ {
			i := p*channels + c
			if v := absDiff(a[i], b[i]); v > d {
				d = v
			}
		}
		diff.Pix[p] = d
		if d > peak {
			peak = d
		}
	}

	if peak > 0 {
		for i, d := range diff.Pix {
			diff.Pix[i] = uint8(int(d) * 255 / int(peak))
		}
	}

	g := gift.New(gift.Colorize(0, 100, 100))
	out := image.NewNRGBA(g.Bounds(diff.Bounds()))
	g.Draw(out, diff)
	return out, nil
}

func absDiff(x, y uint8) uint8 {
	if x > y {
		return x - y
	}
	return y - x
}
