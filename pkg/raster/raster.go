package raster

import "fmt"

// Kind identifies which pipeline a carrier image belongs to.
type Kind int

const (
	KindUnsupported Kind = iota
	KindGrayscale
	KindRGB
)

func (k Kind) String() string {
	switch k {
	case KindGrayscale:
		return "grayscale"
	case KindRGB:
		return "rgb"
	default:
		return "unsupported"
	}
}

// RGBChannels is the number of interleaved samples per RGB pixel.
const RGBChannels = 3

// Carrier is one of *Gray, *RGB or Unsupported.
// The set is closed; the unexported method keeps other packages from adding variants.
type Carrier interface {
	Kind() Kind
	Bounds() (width, height int)
	carrier()
}

// Gray is a single-channel 8-bit image stored row-major.
type Gray struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGray allocates a zeroed grayscale buffer.
func NewGray(width, height int) *Gray {
	return &Gray{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

func (g *Gray) Kind() Kind                  { return KindGrayscale }
func (g *Gray) Bounds() (width, height int) { return g.Width, g.Height }
func (g *Gray) carrier()                    {}

// Clone returns a deep copy of the buffer.
func (g *Gray) Clone() *Gray {
	pix := make([]uint8, len(g.Pix))
	copy(pix, g.Pix)
	return &Gray{Width: g.Width, Height: g.Height, Pix: pix}
}

// RGB is a three-channel 8-bit image stored row-major with
// channel-interleaved samples (R, G, B).
type RGB struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRGB allocates a zeroed RGB buffer.
func NewRGB(width, height int) *RGB {
	return &RGB{Width: width, Height: height, Pix: make([]uint8, width*height*RGBChannels)}
}

func (r *RGB) Kind() Kind                  { return KindRGB }
func (r *RGB) Bounds() (width, height int) { return r.Width, r.Height }
func (r *RGB) carrier()                    {}

// PixOffset returns the index of the first channel of the pixel at (x, y).
func (r *RGB) PixOffset(x, y int) int {
	return (y*r.Width + x) * RGBChannels
}

// Clone returns a deep copy of the buffer.
func (r *RGB) Clone() *RGB {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &RGB{Width: r.Width, Height: r.Height, Pix: pix}
}

// Unsupported stands in for an image neither pipeline can handle.
type Unsupported struct {
	Width  int
	Height int
	Reason string
}

func (u Unsupported) Kind() Kind                  { return KindUnsupported }
func (u Unsupported) Bounds() (width, height int) { return u.Width, u.Height }
func (u Unsupported) carrier()                    {}

func (u Unsupported) String() string {
	return fmt.Sprintf("%dx%d image with %s", u.Width, u.Height, u.Reason)
}

// Samples returns the flat sample slice backing a carrier, or nil for Unsupported.
func Samples(c Carrier) []uint8 {
	switch v := c.(type) {
	case *Gray:
		return v.Pix
	case *RGB:
		return v.Pix
	default:
		return nil
	}
}
