package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/s0shaw/cin/internal/bitstream"
	"github.com/s0shaw/cin/internal/embed"
	"github.com/s0shaw/cin/internal/imageio"
	"github.com/s0shaw/cin/internal/noise"
)

// EncodeOptions controls hiding a message in a carrier image.
type EncodeOptions struct {
	Input   string // carrier image path
	Output  string // stego-image path, must be a lossless format
	Message string
	Codec   *bitstream.Codec // optional: defaults to bitstream.Default()
	Logger  *slog.Logger     // optional: defaults to slog.Default()
}

// EncodeResult holds the output of an encode run.
type EncodeResult struct {
	Width        int
	Height       int
	InputFormat  string
	OutputFormat string
	Capacity     embed.Report
}

// DecodeOptions controls recovering a message.
type DecodeOptions struct {
	Input  string
	Codec  *bitstream.Codec
	Logger *slog.Logger
}

// DecodeResult holds the recovered message and how it was framed.
type DecodeResult struct {
	bitstream.Decoded
	Width    int
	Height   int
	BitsRead int
	Format   string
}

// CapacityResult describes how much a carrier can hold.
type CapacityResult struct {
	Width    int
	Height   int
	Channels int
	Format   string
	Report   embed.Report // RequiredBits is 0 when no message was given
	MaxChars int
	Density  float64 // share of payload LSBs currently set
}

// Encode runs the full hide pipeline: load → frame + encode → capacity
// check → embed → save. A message that does not fit fails before any pixel
// changes and the output file is never written.
func Encode(opts EncodeOptions) (*EncodeResult, error) {
	codec, log := defaults(opts.Codec, opts.Logger)

	// 1. Validate the destination before doing any work
	outFormat, err := imageio.OutputFormat(opts.Output)
	if err != nil {
		return nil, err
	}

	// 2. Load carrier
	img, err := imageio.Load(opts.Input)
	if err != nil {
		return nil, err
	}
	px := img.Pixels
	if err := imageio.CheckOutput(px, opts.Output); err != nil {
		return nil, err
	}

	// 3. Frame and serialize the message
	bits, err := codec.EncodeFramed(opts.Message)
	if err != nil {
		return nil, fmt.Errorf("encoding message: %w", err)
	}

	// 4. Refuse oversized payloads before touching pixels
	report, err := embed.CheckCapacity(px, len(bits))
	if err != nil {
		return nil, err
	}
	log.Info("encoding message", "bits", len(bits), "capacity", report.MaxBits,
		"size", fmt.Sprintf("%dx%d", px.Cols, px.Rows), "format", img.Format)

	// 5. Embed and write
	if err := embed.Embed(px, bits); err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	if err := imageio.Save(px, opts.Output); err != nil {
		return nil, fmt.Errorf("saving: %w", err)
	}
	log.Info("message encoded", "output", opts.Output)

	return &EncodeResult{
		Width:        px.Cols,
		Height:       px.Rows,
		InputFormat:  img.Format,
		OutputFormat: outFormat,
		Capacity:     report,
	}, nil
}

// Decode runs the reveal pipeline: load → extract every LSB → decode up to
// the terminator. A missing terminator is not an error unless the codec is
// strict; the result then carries the best-effort text.
func Decode(opts DecodeOptions) (*DecodeResult, error) {
	codec, log := defaults(opts.Codec, opts.Logger)

	img, err := imageio.Load(opts.Input)
	if err != nil {
		return nil, err
	}
	log.Info("reading image", "path", opts.Input, "format", img.Format)

	bits, err := embed.ExtractBits(img.Pixels)
	if err != nil {
		return nil, fmt.Errorf("extracting: %w", err)
	}

	decoded, err := codec.Decode(bits)
	res := &DecodeResult{
		Decoded:  decoded,
		Width:    img.Pixels.Cols,
		Height:   img.Pixels.Rows,
		BitsRead: decoded.BytesRead * 8,
		Format:   img.Format,
	}
	if err != nil {
		return res, fmt.Errorf("decoding: %w", err)
	}
	if !decoded.Terminated {
		log.Warn("terminator not found, output may be noise", "bytes", decoded.BytesRead)
	}
	return res, nil
}

// Capacity loads a carrier and reports how much it can hold, and whether
// message (if non-empty) fits.
func Capacity(input, message string, codec *bitstream.Codec) (*CapacityResult, error) {
	codec, _ = defaults(codec, nil)

	img, err := imageio.Load(input)
	if err != nil {
		return nil, err
	}
	px := img.Pixels

	report := embed.Report{MaxBits: embed.Capacity(px)}
	if message != "" {
		required, err := codec.RequiredBits(message)
		if err != nil {
			return nil, fmt.Errorf("encoding message: %w", err)
		}
		report.RequiredBits = required
	}

	return &CapacityResult{
		Width:    px.Cols,
		Height:   px.Rows,
		Channels: px.Channels,
		Format:   img.Format,
		Report:   report,
		MaxChars: embed.MaxChars(report.MaxBits, codec.TerminatorBits()),
		Density:  noise.Density(px),
	}, nil
}

// Visualize writes the LSB plane of input as a black and white image.
func Visualize(input, output string) error {
	if _, err := imageio.OutputFormat(output); err != nil {
		return err
	}
	img, err := imageio.Load(input)
	if err != nil {
		return err
	}
	if err := imageio.Save(noise.Visualize(img.Pixels), output); err != nil {
		return fmt.Errorf("saving: %w", err)
	}
	return nil
}

func defaults(codec *bitstream.Codec, log *slog.Logger) (*bitstream.Codec, *slog.Logger) {
	if codec == nil {
		codec = bitstream.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return codec, log
}
