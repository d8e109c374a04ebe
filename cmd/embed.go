package cmd

import (
	"fmt"

	"github.com/Beastly713/bitplane/pkg/pipeline"
	"github.com/Beastly713/bitplane/pkg/quality"
	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed <input_image> <output_image> <message> <lsb_count>",
	Short: "Hide a message in the low bits of an image",
	Long: `Embed writes the message one bit per sample into the low bits of the
input image and saves the result. Grayscale and palette images use one
sample per pixel, RGB images use all three channels.

lsb_count sets how many low bits of each sample are cleared before the
message bit is written. Only one message bit goes into each sample.

Example:
  bitplane embed cover.bmp stego.bmp "meet at dawn" 1`,
	Args: exactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		lsbCount, err := parseLSBCount(args[3])
		if err != nil {
			return err
		}

		report, err := pipeline.EmbedPipeline(pipeline.EmbedConfig{
			InputPath:  args[0],
			OutputPath: args[1],
			Message:    args[2],
			LSBCount:   lsbCount,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Embedding complete.")
		fmt.Fprintf(out, "PSNR: %s dB\n", quality.FormatPSNR(report.PSNR))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)

	// Everything after the first positional is taken literally, so messages may start with '-'.
	embedCmd.Flags().SetInterspersed(false)
}
