package pipeline

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/s0shaw/cin/internal/bitstream"
	"github.com/s0shaw/cin/internal/embed"
	"github.com/s0shaw/cin/internal/imageio"
	"github.com/s0shaw/cin/internal/ir"
)

// writeCarrier saves a noisy rows x cols image and returns its path.
func writeCarrier(t *testing.T, dir, name string, rows, cols int) string {
	t.Helper()
	buf, err := ir.NewPixelBuffer(rows, cols, 3)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	rand.New(rand.NewSource(int64(rows * cols))).Read(buf.Pix)
	path := filepath.Join(dir, name)
	if err := imageio.Save(buf, path); err != nil {
		t.Fatalf("writing carrier: %v", err)
	}
	return path
}

func TestFullPipeline(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "input_image.png", 8, 8)
	output := filepath.Join(dir, "encoded_image.png")

	enc, err := Encode(EncodeOptions{Input: input, Output: output, Message: "Hi"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if enc.Capacity.MaxBits != 192 || enc.Capacity.RequiredBits != 56 {
		t.Errorf("unexpected capacity report: %+v", enc.Capacity)
	}
	if enc.Width != 8 || enc.Height != 8 {
		t.Errorf("unexpected dimensions: %dx%d", enc.Width, enc.Height)
	}

	dec, err := Decode(DecodeOptions{Input: output})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Text != "Hi" {
		t.Errorf("expected %q, got %q", "Hi", dec.Text)
	}
	if !dec.Terminated {
		t.Error("expected terminator to be found")
	}
	if dec.BitsRead != 56 {
		t.Errorf("expected 56 bits read, got %d", dec.BitsRead)
	}
}

func TestPipeline_AllLosslessFormats(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "carrier.bmp", 24, 40)
	message := "The quick brown fox jumps over the lazy dog"

	for _, ext := range []string{".png", ".bmp", ".tiff", ".qoi"} {
		output := filepath.Join(dir, "stego"+ext)
		if _, err := Encode(EncodeOptions{Input: input, Output: output, Message: message}); err != nil {
			t.Fatalf("[%s] Encode: %v", ext, err)
		}
		dec, err := Decode(DecodeOptions{Input: output})
		if err != nil {
			t.Fatalf("[%s] Decode: %v", ext, err)
		}
		if dec.Text != message {
			t.Errorf("[%s] expected %q, got %q", ext, message, dec.Text)
		}
	}
}

// writeTranslucentCarrier saves a 16x16 BGRA PNG whose alpha varies per pixel.
func writeTranslucentCarrier(t *testing.T, dir string) string {
	t.Helper()
	buf, err := ir.NewPixelBuffer(16, 16, 4)
	if err != nil {
		t.Fatalf("NewPixelBuffer: %v", err)
	}
	rand.New(rand.NewSource(16)).Read(buf.Pix)
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 0x40 | byte(i)
	}
	path := filepath.Join(dir, "translucent.png")
	if err := imageio.Save(buf, path); err != nil {
		t.Fatalf("writing carrier: %v", err)
	}
	return path
}

func TestPipeline_TranslucentCarrier(t *testing.T) {
	dir := t.TempDir()
	input := writeTranslucentCarrier(t, dir)

	for _, ext := range []string{".png", ".tiff"} {
		output := filepath.Join(dir, "out"+ext)
		if _, err := Encode(EncodeOptions{Input: input, Output: output, Message: "Hi"}); err != nil {
			t.Fatalf("[%s] Encode: %v", ext, err)
		}
		dec, err := Decode(DecodeOptions{Input: output})
		if err != nil {
			t.Fatalf("[%s] Decode: %v", ext, err)
		}
		if dec.Text != "Hi" || !dec.Terminated {
			t.Errorf("[%s] expected terminated %q, got %q (terminated=%v)", ext, "Hi", dec.Text, dec.Terminated)
		}
	}

	for _, ext := range []string{".qoi", ".bmp"} {
		output := filepath.Join(dir, "out"+ext)
		_, err := Encode(EncodeOptions{Input: input, Output: output, Message: "Hi"})
		if !errors.Is(err, imageio.ErrLossyFormat) {
			t.Fatalf("[%s] expected ErrLossyFormat, got %v", ext, err)
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Errorf("[%s] output must not be written", ext)
		}
	}

	// the noise map is opaque, so any writer will do
	if err := Visualize(input, filepath.Join(dir, "noise.bmp")); err != nil {
		t.Errorf("Visualize to bmp: %v", err)
	}
}

func TestPipeline_EmptyMessage(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "in.png", 4, 4)
	output := filepath.Join(dir, "out.png")

	enc, err := Encode(EncodeOptions{Input: input, Output: output, Message: ""})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if enc.Capacity.RequiredBits != 40 {
		t.Errorf("expected 40 bits for terminator only, got %d", enc.Capacity.RequiredBits)
	}
	dec, err := Decode(DecodeOptions{Input: output})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Text != "" || !dec.Terminated {
		t.Errorf("expected empty terminated message, got %q (terminated=%v)", dec.Text, dec.Terminated)
	}
}

func TestPipeline_CapacityErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "tiny.png", 1, 1)
	output := filepath.Join(dir, "out.png")
	before, _ := os.ReadFile(input)

	_, err := Encode(EncodeOptions{Input: input, Output: output, Message: "x"})
	var ce *embed.CapacityError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CapacityError, got %v", err)
	}
	if ce.Required != 48 || ce.Max != 3 {
		t.Errorf("unexpected capacity error: %+v", ce)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output must not be written when the message does not fit")
	}
	after, _ := os.ReadFile(input)
	if string(before) != string(after) {
		t.Error("input must never be modified")
	}
}

func TestPipeline_InputNotFound(t *testing.T) {
	dir := t.TempDir()
	_, err := Encode(EncodeOptions{
		Input:   filepath.Join(dir, "input_image.png"),
		Output:  filepath.Join(dir, "out.png"),
		Message: "hi",
	})
	if !errors.Is(err, imageio.ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}

	_, err = Decode(DecodeOptions{Input: filepath.Join(dir, "encoded_image.png")})
	if !errors.Is(err, imageio.ErrInputNotFound) {
		t.Fatalf("expected ErrInputNotFound, got %v", err)
	}
}

func TestPipeline_LossyOutputRejectedUpFront(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "in.png", 8, 8)

	_, err := Encode(EncodeOptions{Input: input, Output: filepath.Join(dir, "out.jpg"), Message: "hi"})
	if !errors.Is(err, imageio.ErrLossyFormat) {
		t.Fatalf("expected ErrLossyFormat, got %v", err)
	}
}

func TestPipeline_UnencodableMessage(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "in.png", 8, 8)

	_, err := Encode(EncodeOptions{Input: input, Output: filepath.Join(dir, "out.png"), Message: "€"})
	if !errors.Is(err, bitstream.ErrUnencodable) {
		t.Fatalf("expected ErrUnencodable, got %v", err)
	}
}

func TestPipeline_DecodeWithoutTerminator(t *testing.T) {
	dir := t.TempDir()
	buf, _ := ir.NewPixelBuffer(4, 4, 3) // all LSBs zero: decodes to NUL bytes
	input := filepath.Join(dir, "blank.png")
	if err := imageio.Save(buf, input); err != nil {
		t.Fatalf("Save: %v", err)
	}

	dec, err := Decode(DecodeOptions{Input: input})
	if err != nil {
		t.Fatalf("non-strict decode must not fail: %v", err)
	}
	if dec.Terminated {
		t.Error("expected no terminator")
	}
	if dec.Text != strings.Repeat("\x00", 6) || dec.TrailingBits != 0 {
		t.Errorf("unexpected best-effort result %q (trailing %d)", dec.Text, dec.TrailingBits)
	}

	strict, _ := bitstream.New(bitstream.Options{Strict: true})
	_, err = Decode(DecodeOptions{Input: input, Codec: strict})
	if !errors.Is(err, bitstream.ErrTerminatorNotFound) {
		t.Fatalf("expected ErrTerminatorNotFound, got %v", err)
	}
}

func TestPipeline_CustomTerminator(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "in.png", 10, 10)
	output := filepath.Join(dir, "out.png")
	codec, err := bitstream.New(bitstream.Options{Terminator: "~~END~~"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := Encode(EncodeOptions{Input: input, Output: output, Message: "#####", Codec: codec}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	dec, err := Decode(DecodeOptions{Input: output, Codec: codec})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dec.Text != "#####" {
		t.Errorf("expected the default terminator to be ordinary text, got %q", dec.Text)
	}
}

func TestCapacity(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "in.png", 8, 8)

	res, err := Capacity(input, "", nil)
	if err != nil {
		t.Fatalf("Capacity: %v", err)
	}
	if res.Report.MaxBits != 192 || res.MaxChars != 19 {
		t.Errorf("unexpected capacity: %+v", res)
	}

	res, err = Capacity(input, strings.Repeat("a", 20), nil)
	if err != nil {
		t.Fatalf("Capacity: %v", err)
	}
	if res.Report.Fits() {
		t.Errorf("20 characters need %d bits and must not fit in 192", res.Report.RequiredBits)
	}
}

func TestVisualize(t *testing.T) {
	dir := t.TempDir()
	input := writeCarrier(t, dir, "in.png", 6, 5)
	output := filepath.Join(dir, "noise.png")

	if err := Visualize(input, output); err != nil {
		t.Fatalf("Visualize: %v", err)
	}
	img, err := imageio.Load(output)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, v := range img.Pixels.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel byte %d = %d, expected 0 or 255", i, v)
		}
	}
}
