package ir

import "fmt"

// PixelBuffer is the intermediate representation passed between the image
// loader, the LSB embedder and the image writer. Pixels are stored as
// interleaved B,G,R[,A] bytes (Channels bytes per pixel, row-major order).
type PixelBuffer struct {
	Rows     int
	Cols     int
	Channels int    // 3 (BGR) or 4 (BGRA)
	Pix      []byte // len = Rows * Cols * Channels
}

// NewPixelBuffer allocates a zeroed buffer.
func NewPixelBuffer(rows, cols, channels int) (*PixelBuffer, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", cols, rows)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("unsupported channel count %d (want 3 or 4)", channels)
	}
	return &PixelBuffer{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]byte, rows*cols*channels),
	}, nil
}

// Validate reports whether Pix agrees with the declared shape.
func (b *PixelBuffer) Validate() error {
	if b.Rows < 0 || b.Cols < 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Cols, b.Rows)
	}
	if b.Channels != 3 && b.Channels != 4 {
		return fmt.Errorf("unsupported channel count %d", b.Channels)
	}
	if want := b.Rows * b.Cols * b.Channels; len(b.Pix) != want {
		return fmt.Errorf("expected %d bytes for %dx%dx%d buffer, got %d",
			want, b.Cols, b.Rows, b.Channels, len(b.Pix))
	}
	return nil
}

// Offset returns the index into Pix of the given channel.
func (b *PixelBuffer) Offset(row, col, ch int) int {
	return (row*b.Cols+col)*b.Channels + ch
}

func (b *PixelBuffer) At(row, col, ch int) byte {
	return b.Pix[b.Offset(row, col, ch)]
}

func (b *PixelBuffer) Set(row, col, ch int, v byte) {
	b.Pix[b.Offset(row, col, ch)] = v
}

// HasAlpha reports whether the buffer carries a 4th channel.
func (b *PixelBuffer) HasAlpha() bool {
	return b.Channels == 4
}

// Opaque reports whether every pixel is fully opaque. 3-channel buffers
// always are.
func (b *PixelBuffer) Opaque() bool {
	if !b.HasAlpha() {
		return true
	}
	for i := 3; i < len(b.Pix); i += 4 {
		if b.Pix[i] != 0xff {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Rows: b.Rows, Cols: b.Cols, Channels: b.Channels, Pix: pix}
}

