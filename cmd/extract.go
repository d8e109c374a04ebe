package cmd

import (
	"fmt"

	"github.com/Beastly713/bitplane/pkg/pipeline"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <stego_image> <lsb_count>",
	Short: "Recover a message hidden by embed",
	Long: `Extract reads the masked low bits of every sample, packs them into
bytes and prints the text with trailing NUL bytes removed.

Use the same lsb_count that was used to embed. A wrong value, or an image
that never had a message, usually fails UTF-8 decoding.`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lsbCount, err := parseLSBCount(args[1])
		if err != nil {
			return err
		}

		message, err := pipeline.ExtractPipeline(args[0], lsbCount)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Extracted Message: %s\n", message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().SetInterspersed(false)
}
