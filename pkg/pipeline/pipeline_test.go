package pipeline

import (
	"errors"
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Beastly713/bitplane/pkg/imageio"
	"github.com/Beastly713/bitplane/pkg/raster"
	"github.com/Beastly713/bitplane/pkg/stego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCarrier(t *testing.T, path string, c raster.Carrier) {
	t.Helper()
	require.NoError(t, imageio.SaveFile(path, c))
}

func TestPipelineRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	rgb := raster.NewRGB(32, 32)
	for i := range rgb.Pix {
		rgb.Pix[i] = uint8(i * 13)
	}
	gray := raster.NewGray(32, 32)
	for i := range gray.Pix {
		gray.Pix[i] = uint8(i * 5)
	}

	for _, c := range []raster.Carrier{rgb, gray} {
		t.Run(c.Kind().String(), func(t *testing.T) {
			input := filepath.Join(tmpDir, c.Kind().String()+".bmp")
			output := filepath.Join(tmpDir, c.Kind().String()+"_stego.png")
			writeCarrier(t, input, c)

			report, err := EmbedPipeline(EmbedConfig{
				InputPath:  input,
				OutputPath: output,
				Message:    "This is a secret message",
				LSBCount:   1,
			})
			require.NoError(t, err)
			assert.Equal(t, c.Kind(), report.Kind)
			assert.Equal(t, 32, report.Width)
			assert.Equal(t, 24*8, report.MessageBits)
			assert.False(t, math.IsInf(report.PSNR, 1))
			assert.Greater(t, report.PSNR, 40.0)

			msg, err := ExtractPipeline(output, 1)
			require.NoError(t, err)
			assert.Equal(t, "This is a secret message", msg)

			analysis, err := AnalyzePipeline(input, output, filepath.Join(tmpDir, c.Kind().String()+"_heat.png"))
			require.NoError(t, err)
			assert.InDelta(t, report.PSNR, analysis.PSNR, 1e-9)

			_, err = os.Stat(filepath.Join(tmpDir, c.Kind().String()+"_heat.png"))
			assert.NoError(t, err)
		})
	}
}

func TestEmbedPipelineRejectsBadOutput(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "in.png")
	writeCarrier(t, input, raster.NewGray(8, 8))

	_, err := EmbedPipeline(EmbedConfig{
		InputPath:  input,
		OutputPath: filepath.Join(tmpDir, "out.jpg"),
		Message:    "A",
		LSBCount:   1,
	})
	assert.ErrorIs(t, err, imageio.ErrUnsupportedOutput)
}

func TestEmbedPipelineTooLarge(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "in.png")
	writeCarrier(t, input, raster.NewGray(2, 2))

	_, err := EmbedPipeline(EmbedConfig{
		InputPath:  input,
		OutputPath: filepath.Join(tmpDir, "out.png"),
		Message:    "too long",
		LSBCount:   1,
	})
	if !errors.Is(err, stego.ErrMessageTooLarge) {
		t.Errorf("Expected ErrMessageTooLarge, got %v", err)
	}

	_, err = os.Stat(filepath.Join(tmpDir, "out.png"))
	assert.True(t, os.IsNotExist(err), "no output should be written on failure")
}

func TestAnalyzeIdentical(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "in.png")
	writeCarrier(t, input, raster.NewGray(4, 4))

	analysis, err := AnalyzePipeline(input, input, "")
	require.NoError(t, err)
	assert.Zero(t, analysis.MSE)
	assert.True(t, math.IsInf(analysis.PSNR, 1))
}

func TestWritePNGRemovesFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heat.png")

	// png.Encode rejects an empty image after the file is created.
	err := writePNG(path, image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	require.Error(t, err)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "a failed heatmap must not be left on disk")

	require.NoError(t, writePNG(path, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	_, statErr = os.Stat(path)
	assert.NoError(t, statErr)
}

func TestAnalyzeHeatmapUnwritable(t *testing.T) {
	tmpDir := t.TempDir()
	input := filepath.Join(tmpDir, "in.png")
	writeCarrier(t, input, raster.NewGray(4, 4))

	_, err := AnalyzePipeline(input, input, filepath.Join(tmpDir, "missing", "heat.png"))
	assert.Error(t, err)
}
