package cmd

import (
	"fmt"

	"github.com/Beastly713/bitplane/pkg/pipeline"
	"github.com/Beastly713/bitplane/pkg/quality"
	"github.com/spf13/cobra"
)

var heatmapPath string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <original_image> <stego_image>",
	Short: "Compare an original image with its stego copy",
	Long: `Analyze prints the mean squared error and PSNR between two images of the
same shape. With --heatmap it also writes a PNG highlighting changed pixels.`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := pipeline.AnalyzePipeline(args[0], args[1], heatmapPath)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Image:  %dx%d %s\n", result.Width, result.Height, result.Kind)
		fmt.Fprintf(out, "MSE:    %.4f\n", result.MSE)
		fmt.Fprintf(out, "PSNR:   %s dB\n", quality.FormatPSNR(result.PSNR))
		if heatmapPath != "" {
			fmt.Fprintf(out, "Heatmap saved to: %s\n", heatmapPath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&heatmapPath, "heatmap", "m", "", "Write a difference heatmap PNG to this path")
}
