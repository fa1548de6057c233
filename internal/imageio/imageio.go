// Package imageio loads carrier images into pixel buffers and writes
// stego-images back out in lossless formats only.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/s0shaw/cin/internal/ir"
	"github.com/s0shaw/cin/internal/jpeg"
)

// Image is a decoded carrier.
type Image struct {
	Pixels *ir.PixelBuffer
	Format string // "png", "bmp", "tiff", "qoi", "gif", "webp" or "jpeg"
	ICC    []byte // embedded colour profile, JPEG only
}

type writer struct {
	name   string
	exts   []string
	alpha  bool // keeps exact colour bytes of translucent pixels
	encode func(io.Writer, image.Image) error
}

// bmp drops the alpha channel and qoi premultiplies translucent pixels, so
// both are only lossless for opaque buffers.
var writers = []writer{
	{name: "png", exts: []string{".png"}, alpha: true, encode: png.Encode},
	{name: "bmp", exts: []string{".bmp"}, encode: bmp.Encode},
	{name: "tiff", exts: []string{".tif", ".tiff"}, alpha: true, encode: func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	}},
	{name: "qoi", exts: []string{".qoi"}, encode: qoi.Encode},
}

var lossyExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jpe":  true,
	".jfif": true,
	".webp": true,
}

// Load reads and decodes the image at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(path, data)
}

// Decode decodes an in-memory image. name is only used in errors.
func Decode(name string, data []byte) (*Image, error) {
	if isJPEG(data) {
		dec, err := jpeg.Decode(data)
		if err != nil {
			return nil, &DecodeError{Path: name, Err: err}
		}
		return &Image{Pixels: dec.Pixels, Format: "jpeg", ICC: dec.ICC}, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}
	return &Image{Pixels: FromImage(img), Format: format}, nil
}

// Save encodes buf in the format implied by path's extension and replaces
// path atomically.
func Save(buf *ir.PixelBuffer, path string) error {
	if buf == nil {
		return errors.New("no pixel buffer to save")
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	w, err := writerFor(path)
	if err != nil {
		return err
	}
	if err := w.accepts(buf); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := w.encode(&out, ToImage(buf)); err != nil {
		return fmt.Errorf("encoding %s: %w", w.name, err)
	}
	return writeFileAtomic(path, out.Bytes())
}

// OutputFormat reports the format Save would use for path.
func OutputFormat(path string) (string, error) {
	w, err := writerFor(path)
	if err != nil {
		return "", err
	}
	return w.name, nil
}

// CheckOutput reports whether buf can be written to path without changing
// any of its bytes.
func CheckOutput(buf *ir.PixelBuffer, path string) error {
	w, err := writerFor(path)
	if err != nil {
		return err
	}
	return w.accepts(buf)
}

func (w writer) accepts(buf *ir.PixelBuffer) error {
	if !w.alpha && !buf.Opaque() {
		return fmt.Errorf("%w: %s cannot store a translucent image exactly (use .png or .tiff)", ErrLossyFormat, w.name)
	}
	return nil
}

func writerFor(path string) (writer, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if lossyExts[ext] {
		return writer{}, fmt.Errorf("%w: %s", ErrLossyFormat, ext)
	}
	for _, w := range writers {
		for _, e := range w.exts {
			if e == ext {
				return w, nil
			}
		}
	}
	return writer{}, fmt.Errorf("%w: %q (use .png, .bmp, .tiff or .qoi)", ErrUnsupportedFormat, ext)
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cin-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

func isJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xff && data[1] == 0xd8 && data[2] == 0xff
}
