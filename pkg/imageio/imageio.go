package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Beastly713/bitplane/pkg/raster"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrUnsupportedOutput indicates an output path whose extension has no lossless encoder.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// LoadFile decodes the image at path and classifies it.
// The returned format is the decoder name ("png", "bmp", ...).
func LoadFile(path string) (raster.Carrier, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Load decodes an image stream and classifies it.
// PNG files declaring an alpha channel are Unsupported even when every pixel is opaque.
func Load(r io.Reader) (raster.Carrier, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "png" && pngHasAlpha(data) {
		b := img.Bounds()
		return raster.Unsupported{Width: b.Dx(), Height: b.Dy(), Reason: "alpha channel"}, format, nil
	}
	return Classify(img), format, nil
}

// PNG color types carrying an alpha sample.
const (
	pngGrayAlpha = 4
	pngRGBA      = 6
)

// pngHasAlpha reads the color type byte of the IHDR chunk, which always
// directly follows the 8-byte signature.
func pngHasAlpha(data []byte) bool {
	// signature(8) + length(4) + "IHDR"(4) + width(4) + height(4) + depth(1)
	const colorTypeOffset = 25
	if len(data) <= colorTypeOffset || string(data[12:16]) != "IHDR" {
		return false
	}
	ct := data[colorTypeOffset]
	return ct == pngGrayAlpha || ct == pngRGBA
}

// Classify converts a decoded image into the carrier its band layout calls for.
// Single-band images (gray and palette) become Gray, opaque three-band images
// become RGB, and anything with transparency or a sample depth other than 8
// bits is Unsupported.
func Classify(img image.Image) raster.Carrier {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := raster.NewGray(width, height)
		for y := 0; y < height; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(out.Pix[y*width:(y+1)*width], row[:width])
		}
		return out

	case *image.Paletted:
		out := raster.NewGray(width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
				out.Pix[y*width+x] = c.Y
			}
		}
		return out

	case *image.RGBA:
		if !src.Opaque() {
			return raster.Unsupported{Width: width, Height: height, Reason: "alpha channel"}
		}
		return copyRGB(width, height, src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y))

	case *image.NRGBA:
		if !src.Opaque() {
			return raster.Unsupported{Width: width, Height: height, Reason: "alpha channel"}
		}
		return copyRGB(width, height, src.Pix, src.Stride, src.PixOffset(b.Min.X, b.Min.Y))

	case *image.YCbCr:
		out := raster.NewRGB(width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.RGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
				off := out.PixOffset(x, y)
				out.Pix[off], out.Pix[off+1], out.Pix[off+2] = c.R, c.G, c.B
			}
		}
		return out

	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return raster.Unsupported{Width: width, Height: height, Reason: "16-bit samples"}

	default:
		return raster.Unsupported{Width: width, Height: height, Reason: fmt.Sprintf("%T color layout", img)}
	}
}

// copyRGB drops the alpha byte from 4-byte-per-pixel rows.
func copyRGB(width, height int, pix []uint8, stride, start int) *raster.RGB {
	out := raster.NewRGB(width, height)
	for y := 0; y < height; y++ {
		row := pix[start+y*stride:]
		for x := 0; x < width; x++ {
			off := out.PixOffset(x, y)
			copy(out.Pix[off:off+raster.RGBChannels], row[x*4:x*4+raster.RGBChannels])
		}
	}
	return out
}

// Image converts a carrier back into a standard library image with 8-bit samples.
func Image(c raster.Carrier) (image.Image, error) {
	switch v := c.(type) {
	case *raster.Gray:
		out := image.NewGray(image.Rect(0, 0, v.Width, v.Height))
		copy(out.Pix, v.Pix)
		return out, nil
	case *raster.RGB:
		out := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
		for p := 0; p < v.Width*v.Height; p++ {
			src := p * raster.RGBChannels
			dst := p * 4
			out.Pix[dst], out.Pix[dst+1], out.Pix[dst+2] = v.Pix[src], v.Pix[src+1], v.Pix[src+2]
			out.Pix[dst+3] = 0xFF
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot encode %s image", c.Kind())
	}
}

// FormatForPath picks an encoder name from the output file extension.
func FormatForPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".bmp":
		return "bmp", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %q (use .png, .bmp or .tiff)", ErrUnsupportedOutput, ext)
	}
}

// Encode writes the carrier to w in the named lossless format.
func Encode(w io.Writer, c raster.Carrier, format string) error {
	img, err := Image(c)
	if err != nil {
		return err
	}

	switch format {
	case "png":
		err = png.Encode(w, img)
	case "bmp":
		err = bmp.Encode(w, img)
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOutput, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// SaveFile encodes the carrier in the format implied by path's extension.
func SaveFile(path string, c raster.Carrier) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, c, format); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
