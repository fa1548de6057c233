package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/pipeline"
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Hide a message in an image",
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringP("input", "i", "", "Carrier image (PNG, BMP, TIFF, QOI, GIF, WebP or JPEG)")
	encodeCmd.Flags().StringP("message", "m", "", "Secret message")
	encodeCmd.Flags().String("message-file", "", "Read the secret message from a file")
	encodeCmd.Flags().StringP("output", "o", "", "Output stego-image: .png or .tiff, or .bmp/.qoi for opaque carriers (default from config, encoded_image.png)")
	encodeCmd.Flags().String("terminator", "", "End-of-message marker (default from config, #####)")
	encodeCmd.MarkFlagRequired("input")
	encodeCmd.MarkFlagsOneRequired("message", "message-file")
	encodeCmd.MarkFlagsMutuallyExclusive("message", "message-file")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")
	message, _ := cmd.Flags().GetString("message")
	messageFile, _ := cmd.Flags().GetString("message-file")

	if outputPath == "" {
		outputPath = cfg.Output
	}
	if messageFile != "" {
		data, err := os.ReadFile(messageFile)
		if err != nil {
			return fmt.Errorf("reading message: %w", err)
		}
		message = string(data)
	}

	codec, err := codecFor(cmd)
	if err != nil {
		return err
	}

	result, err := pipeline.Encode(pipeline.EncodeOptions{
		Input:   inputPath,
		Output:  outputPath,
		Message: message,
		Codec:   codec,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Encoded %d bits into %dx%d %s → %s\n",
		result.Capacity.RequiredBits, result.Width, result.Height, result.InputFormat, result.OutputFormat)
	fmt.Fprintf(out, "Capacity: %d of %d bits used (%.1f%%)\n",
		result.Capacity.RequiredBits, result.Capacity.MaxBits,
		float64(result.Capacity.RequiredBits)/float64(result.Capacity.MaxBits)*100)
	fmt.Fprintf(out, "Free:     %d bits\n", result.Capacity.FreeBits())
	fmt.Fprintf(out, "Output:   %s\n", outputPath)
	return nil
}
