package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// errUsage marks a wrong argument shape. Execute answers it with the usage lines.
var errUsage = errors.New("invalid arguments")

const usageText = `Usage for embedding: bitplane embed <original_image.bmp> <output_image.bmp> <message> <lsb_count>
Usage for extracting: bitplane extract <stego_image.bmp> <lsb_count>`

var rootCmd = &cobra.Command{
	Use:   "bitplane",
	Short: "Hide text in the least-significant bits of an image",
	Long: `Bitplane: hide a text message in the low-order bits of a grayscale or
RGB image, recover it later, and measure how much the image changed (PSNR).`,
	Args:          exactArgs(0),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd.ErrOrStderr())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return errUsage
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(rootCmd.ErrOrStderr(), usageText)
		} else {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// exactArgs is cobra.ExactArgs reporting errUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d argument(s), got %d", errUsage, cmd.Name(), n, len(args))
		}
		return nil
	}
}

func parseLSBCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: lsb_count must be an integer, got %q", errUsage, s)
	}
	return n, nil
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
}
