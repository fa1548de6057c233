package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0shaw/cin/internal/pipeline"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Recover a hidden message from an image",
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().StringP("input", "i", "", "Stego-image")
	decodeCmd.Flags().Bool("strict", false, "Fail when no terminator is found instead of printing the raw bits as text")
	decodeCmd.Flags().String("terminator", "", "End-of-message marker (default from config, #####)")
	decodeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")

	codec, err := codecFor(cmd)
	if err != nil {
		return err
	}

	result, err := pipeline.Decode(pipeline.DecodeOptions{
		Input:  inputPath,
		Codec:  codec,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	if !result.Terminated {
		fmt.Fprintf(cmd.ErrOrStderr(), "[Warning] no terminator in %s; showing all %d decoded bytes\n",
			inputPath, result.BytesRead)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.Text)
	return nil
}
