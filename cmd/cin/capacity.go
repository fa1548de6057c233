package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/pipeline"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Show how much text an image can hide",
	RunE:  runCapacity,
}

func init() {
	capacityCmd.Flags().StringP("input", "i", "", "Carrier image")
	capacityCmd.Flags().StringP("message", "m", "", "Check whether this message fits")
	capacityCmd.Flags().String("terminator", "", "End-of-message marker (default from config, #####)")
	capacityCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(capacityCmd)
}

func runCapacity(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	message, _ := cmd.Flags().GetString("message")

	codec, err := codecFor(cmd)
	if err != nil {
		return err
	}

	res, err := pipeline.Capacity(inputPath, message, codec)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:       %s (%s)\n", inputPath, res.Format)
	fmt.Fprintf(out, "Dimensions: %d x %d, %d channels\n", res.Width, res.Height, res.Channels)
	fmt.Fprintf(out, "Capacity:   %d bits (%d characters after the %q terminator)\n",
		res.Report.MaxBits, res.MaxChars, codec.Terminator())
	fmt.Fprintf(out, "LSB density: %.3f\n", res.Density)

	if cmd.Flags().Changed("message") {
		verdict := "fits"
		if !res.Report.Fits() {
			verdict = "does NOT fit"
		}
		fmt.Fprintf(out, "Message:    %d bits required, %s\n", res.Report.RequiredBits, verdict)
	}
	return nil
}
