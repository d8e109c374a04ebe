package bitstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpack(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []uint8
	}{
		{
			name:     "empty",
			input:    []byte{},
			expected: []uint8{},
		},
		{
			name:     "letter A",
			input:    []byte("A"),
			expected: []uint8{0, 1, 0, 0, 0, 0, 0, 1},
		},
		{
			name:     "two bytes",
			input:    []byte{0x80, 0x01},
			expected: []uint8{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Unpack(tt.input))
		})
	}
}

func TestPad(t *testing.T) {
	bits := []uint8{1, 0, 1}

	padded, err := Pad(bits, 6)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 1, 0, 0, 0}, padded)

	// The input slice is left alone.
	assert.Equal(t, []uint8{1, 0, 1}, bits)

	same, err := Pad(bits, 3)
	require.NoError(t, err)
	assert.Equal(t, bits, same)

	_, err = Pad(bits, 2)
	if !errors.Is(err, ErrTooManyBits) {
		t.Errorf("Expected ErrTooManyBits, got %v", err)
	}
}

func TestPack(t *testing.T) {
	tests := []struct {
		name     string
		input    []uint8
		expected []byte
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []byte{},
		},
		{
			name:     "letter A",
			input:    []uint8{0, 1, 0, 0, 0, 0, 0, 1},
			expected: []byte{0x41},
		},
		{
			name:     "partial byte is zero filled",
			input:    []uint8{1, 1, 1},
			expected: []byte{0xE0},
		},
		{
			name:     "non-zero values pack as one",
			input:    []uint8{3, 0, 0, 0, 0, 0, 0, 2},
			expected: []byte{0x81},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pack(tt.input))
		})
	}
}

func TestUnpackPackRoundTrip(t *testing.T) {
	original := []byte("Hello, 世界")
	assert.Equal(t, original, Pack(Unpack(original)))
}
