package pipeline

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/Beastly713/bitplane/pkg/imageio"
	"github.com/Beastly713/bitplane/pkg/quality"
	"github.com/Beastly713/bitplane/pkg/raster"
	"github.com/Beastly713/bitplane/pkg/stego"
	"github.com/rs/zerolog/log"
)

// EmbedConfig holds the parameters for the embed operation
type EmbedConfig struct {
	InputPath  string
	OutputPath string
	Message    string
	LSBCount   int
}

// Report describes a finished embedding.
type Report struct {
	Kind        raster.Kind
	Width       int
	Height      int
	LSBCount    int
	Budget      int // message bits the carrier accepts
	MessageBits int
	PSNR        float64
}

// Analysis is the result of comparing two images.
type Analysis struct {
	Kind   raster.Kind
	Width  int
	Height int
	MSE    float64
	PSNR   float64
}

// EmbedPipeline orchestrates the flow: Load -> Classify -> Embed -> Measure -> Save
func EmbedPipeline(config EmbedConfig) (*Report, error) {
	// Fail on a bad output extension before doing any work.
	if _, err := imageio.FormatForPath(config.OutputPath); err != nil {
		return nil, err
	}

	original, format, err := imageio.LoadFile(config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.InputPath, err)
	}

	width, height := original.Bounds()
	budget := stego.Budget(original, config.LSBCount)
	log.Debug().
		Str("path", config.InputPath).
		Str("format", format).
		Stringer("kind", original.Kind()).
		Int("width", width).
		Int("height", height).
		Int("budget", budget).
		Msg("loaded carrier")

	stegoImg, err := stego.Embed(original, config.Message, config.LSBCount)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	psnr, err := quality.PSNR(original, stegoImg)
	if err != nil {
		return nil, fmt.Errorf("quality measurement failed: %w", err)
	}

	if err := imageio.SaveFile(config.OutputPath, stegoImg); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", config.OutputPath, err)
	}
	log.Debug().Str("path", config.OutputPath).Msg("wrote stego image")

	return &Report{
		Kind:        original.Kind(),
		Width:       width,
		Height:      height,
		LSBCount:    config.LSBCount,
		Budget:      budget,
		MessageBits: len(config.Message) * 8,
		PSNR:        psnr,
	}, nil
}

// ExtractPipeline reverses EmbedPipeline: Load -> Classify -> Extract
func ExtractPipeline(path string, lsbCount int) (string, error) {
	carrier, format, err := imageio.LoadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debug().
		Str("path", path).
		Str("format", format).
		Stringer("kind", carrier.Kind()).
		Int("lsb", lsbCount).
		Msg("extracting")

	message, err := stego.Extract(carrier, lsbCount)
	if err != nil {
		return "", fmt.Errorf("extraction failed: %w", err)
	}
	return message, nil
}

// AnalyzePipeline compares an original with its stego copy.
// When heatmapPath is non-empty a PNG difference map is written there.
func AnalyzePipeline(originalPath, stegoPath, heatmapPath string) (*Analysis, error) {
	original, _, err := imageio.LoadFile(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", originalPath, err)
	}
	modified, _, err := imageio.LoadFile(stegoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", stegoPath, err)
	}

	mse, err := quality.MSE(original, modified)
	if err != nil {
		return nil, err
	}

	if heatmapPath != "" {
		hm, err := quality.Heatmap(original, modified)
		if err != nil {
			return nil, err
		}
		if err := writePNG(heatmapPath, hm); err != nil {
			return nil, fmt.Errorf("failed to write heatmap: %w", err)
		}
		log.Debug().Str("path", heatmapPath).Msg("wrote heatmap")
	}

	width, height := original.Bounds()
	return &Analysis{
		Kind:   original.Kind(),
		Width:  width,
		Height: height,
		MSE:    mse,
		PSNR:   quality.PSNRFromMSE(mse),
	}, nil
}

// writePNG encodes img to path. A partially written file is removed on failure.
func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(out, img)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
