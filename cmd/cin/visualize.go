package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/pipeline"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Render an image's least significant bits as black and white noise",
	RunE:  runVisualize,
}

func init() {
	visualizeCmd.Flags().StringP("input", "i", "", "Input image")
	visualizeCmd.Flags().StringP("output", "o", "", "Noise map output (.png, .tiff, .bmp or .qoi)")
	visualizeCmd.MarkFlagRequired("input")
	visualizeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(visualizeCmd)
}

func runVisualize(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	outputPath, _ := cmd.Flags().GetString("output")

	if err := pipeline.Visualize(inputPath, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "LSB noise map: %s\n", outputPath)
	return nil
}
