package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/embed"
	"github.com/s0shaw/cin/internal/icc"
	"github.com/s0shaw/cin/internal/imageio"
	"github.com/s0shaw/cin/internal/jpeg"
)

var identifyCmd = &cobra.Command{
	Use:   "identify [file]",
	Short: "Inspect an image's format, layout and hiding capacity",
	Args:  cobra.ExactArgs(1),
	RunE:  runIdentify,
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	img, err := imageio.Decode(path, data)
	if err != nil {
		return err
	}
	px := img.Pixels

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:       %s\n", path)
	fmt.Fprintf(out, "Format:     %s\n", img.Format)
	fmt.Fprintf(out, "Dimensions: %d x %d\n", px.Cols, px.Rows)
	fmt.Fprintf(out, "Channels:   %d\n", px.Channels)
	fmt.Fprintf(out, "File size:  %d bytes (%.1f MB)\n", len(data), float64(len(data))/(1024*1024))
	fmt.Fprintf(out, "Capacity:   %d bits\n", embed.Capacity(px))

	if img.Format == "jpeg" {
		h, err := jpeg.ReadHeader(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		fmt.Fprintf(out, "JPEG:       %s (read only; encode to a lossless output)\n", h)
	}

	if img.ICC != nil {
		pi, err := icc.ParseProfileInfo(img.ICC)
		if err != nil {
			fmt.Fprintf(out, "ICC profile: present (%d bytes) but invalid: %v\n", len(img.ICC), err)
		} else {
			fmt.Fprintf(out, "ICC profile: %d bytes, %s\n", len(img.ICC), pi.Summary())
		}
	} else {
		fmt.Fprintln(out, "ICC profile: none")
	}
	return nil
}
