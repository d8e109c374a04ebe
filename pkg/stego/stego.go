package stego

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Beastly713/bitplane/pkg/bitstream"
	"github.com/Beastly713/bitplane/pkg/raster"
)

// MaxLSBCount is the widest mask an 8-bit sample can take.
const MaxLSBCount = 8

// ErrMessageTooLarge indicates the carrier image has fewer bit slots than the message needs.
var ErrMessageTooLarge = errors.New("message does not fit in available capacity")

// ErrInvalidLSBCount indicates an lsb count outside [1, MaxLSBCount].
var ErrInvalidLSBCount = errors.New("invalid lsb count")

// ErrUnsupportedFormat indicates a carrier that is neither grayscale nor RGB.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ErrInvalidUTF8 indicates the extracted bytes do not decode as text.
// This is the usual outcome of extracting with the wrong lsb count or from a clean image.
var ErrInvalidUTF8 = errors.New("extracted data is not valid UTF-8")

// ErrMalformedBuffer indicates a pixel slice whose length disagrees with its dimensions.
var ErrMalformedBuffer = errors.New("pixel buffer length does not match dimensions")

// Mask returns the low-bit mask 2^lsbCount - 1.
func Mask(lsbCount int) (uint8, error) {
	if lsbCount < 1 || lsbCount > MaxLSBCount {
		return 0, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidLSBCount, lsbCount, MaxLSBCount)
	}
	return uint8(1<<lsbCount - 1), nil
}

// Budget returns how many message bits the carrier accepts at the given lsb count.
// Grayscale carriers offer one slot per sample. RGB carriers count the lsb
// count as a multiplier even though only one bit is written per sample, so
// bits past pixels*3 are accepted and then dropped.
func Budget(c raster.Carrier, lsbCount int) int {
	switch v := c.(type) {
	case *raster.Gray:
		return v.Width * v.Height
	case *raster.RGB:
		return v.Width * v.Height * lsbCount * raster.RGBChannels
	default:
		return 0
	}
}

// Embed dispatches to the grayscale or RGB embedder.
func Embed(c raster.Carrier, message string, lsbCount int) (raster.Carrier, error) {
	switch v := c.(type) {
	case *raster.Gray:
		out, err := EmbedGray(v, message, lsbCount)
		if err != nil {
			return nil, err
		}
		return out, nil
	case *raster.RGB:
		out, err := EmbedRGB(v, message, lsbCount)
		if err != nil {
			return nil, err
		}
		return out, nil
	case raster.Unsupported:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, v)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFormat, c)
	}
}

// Extract dispatches to the grayscale or RGB extractor.
func Extract(c raster.Carrier, lsbCount int) (string, error) {
	switch v := c.(type) {
	case *raster.Gray:
		return ExtractGray(v, lsbCount)
	case *raster.RGB:
		return ExtractRGB(v, lsbCount)
	case raster.Unsupported:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, v)
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedFormat, c)
	}
}

// EmbedGray hides message in the low bits of a grayscale image.
// Each sample gets its masked bits cleared and exactly one message bit OR'd in,
// so lsbCount widens the cleared region without adding capacity.
// The original buffer is not modified.
func EmbedGray(original *raster.Gray, message string, lsbCount int) (*raster.Gray, error) {
	mask, err := Mask(lsbCount)
	if err != nil {
		return nil, err
	}
	if len(original.Pix) != original.Width*original.Height {
		return nil, fmt.Errorf("%w: %dx%d with %d samples", ErrMalformedBuffer, original.Width, original.Height, len(original.Pix))
	}

	bits, err := messageBits(message, Budget(original, lsbCount))
	if err != nil {
		return nil, err
	}

	stego := original.Clone()
	for i, s := range stego.Pix {
		stego.Pix[i] = (s &^ mask) | bits[i]
	}
	return stego, nil
}

// ExtractGray recovers a message hidden by EmbedGray.
func ExtractGray(stego *raster.Gray, lsbCount int) (string, error) {
	mask, err := Mask(lsbCount)
	if err != nil {
		return "", err
	}

	values := make([]uint8, len(stego.Pix))
	for i, s := range stego.Pix {
		values[i] = s & mask
	}
	return decode(values)
}

// EmbedRGB hides message in the low bits of every channel of an RGB image.
// Bit i*3+c lands in channel c of pixel i. The original buffer is not modified.
func EmbedRGB(original *raster.RGB, message string, lsbCount int) (*raster.RGB, error) {
	mask, err := Mask(lsbCount)
	if err != nil {
		return nil, err
	}
	pixels := original.Width * original.Height
	if len(original.Pix) != pixels*raster.RGBChannels {
		return nil, fmt.Errorf("%w: %dx%dx%d with %d samples", ErrMalformedBuffer, original.Width, original.Height, raster.RGBChannels, len(original.Pix))
	}

	bits, err := messageBits(message, Budget(original, lsbCount))
	if err != nil {
		return nil, err
	}

	stego := original.Clone()
	for i := 0; i < pixels; i++ {
		for c := 0; c < raster.RGBChannels; c++ {
			idx := i*raster.RGBChannels + c
			stego.Pix[idx] = (stego.Pix[idx] &^ mask) | bits[idx]
		}
	}
	return stego, nil
}

// ExtractRGB recovers a message hidden by EmbedRGB, reading pixels in
// row-major order and channels within each pixel.
func ExtractRGB(stego *raster.RGB, lsbCount int) (string, error) {
	mask, err := Mask(lsbCount)
	if err != nil {
		return "", err
	}
	pixels := stego.Width * stego.Height
	if len(stego.Pix) < pixels*raster.RGBChannels {
		return "", fmt.Errorf("%w: %dx%dx%d with %d samples", ErrMalformedBuffer, stego.Width, stego.Height, raster.RGBChannels, len(stego.Pix))
	}

	values := make([]uint8, 0, pixels*raster.RGBChannels)
	for i := 0; i < pixels; i++ {
		for c := 0; c < raster.RGBChannels; c++ {
			values = append(values, stego.Pix[i*raster.RGBChannels+c]&mask)
		}
	}
	return decode(values)
}

func messageBits(message string, budget int) ([]uint8, error) {
	bits, err := bitstream.Pad(bitstream.Unpack([]byte(message)), budget)
	if errors.Is(err, bitstream.ErrTooManyBits) {
		return nil, fmt.Errorf("%w: need %d bits, have %d", ErrMessageTooLarge, len(message)*8, budget)
	}
	return bits, err
}

func decode(values []uint8) (string, error) {
	data := bitstream.Pack(values)
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return strings.TrimRight(string(data), "\x00"), nil
}
