package bitstream

import (
	"errors"
	"fmt"
)

// ErrTooManyBits is returned when a bit sequence is longer than the length it must be padded to.
var ErrTooManyBits = errors.New("bit sequence longer than target length")

// Unpack expands data into one value per bit (0 or 1), most significant bit first.
func Unpack(data []byte) []uint8 {
	bits := make([]uint8, len(data)*8)
	for i, b := range data {
		offset := i * 8
		for j := 0; j < 8; j++ {
			bits[offset+j] = (b >> (7 - j)) & 1
		}
	}
	return bits
}

// Pad returns a copy of bits extended with zeros to exactly length entries.
// It never truncates.
func Pad(bits []uint8, length int) ([]uint8, error) {
	if len(bits) > length {
		return nil, fmt.Errorf("%w: have %d, target %d", ErrTooManyBits, len(bits), length)
	}
	padded := make([]uint8, length)
	copy(padded, bits)
	return padded, nil
}

// Pack folds values into bytes, eight per byte, most significant bit first.
// Any non-zero value packs as a set bit. A trailing partial byte is zero-filled.
func Pack(values []uint8) []byte {
	out := make([]byte, (len(values)+7)/8)
	for i, v := range values {
		if v != 0 {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}
