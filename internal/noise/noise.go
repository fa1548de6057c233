// Package noise renders the least significant bit plane of an image so the
// distribution of hidden data becomes visible.
package noise

import "github.com/s0shaw/cin/internal/ir"

// Visualize returns a new buffer where every payload channel is 255 if its
// LSB is set and 0 otherwise. Alpha, when present, is made fully opaque.
func Visualize(buf *ir.PixelBuffer) *ir.PixelBuffer {
	out := &ir.PixelBuffer{
		Rows:     buf.Rows,
		Cols:     buf.Cols,
		Channels: buf.Channels,
		Pix:      make([]byte, len(buf.Pix)),
	}
	for i, v := range buf.Pix {
		if buf.Channels == 4 && i%4 == 3 {
			out.Pix[i] = 0xff
			continue
		}
		out.Pix[i] = (v & 1) * 255
	}
	return out
}

// Density returns the fraction of payload channels whose LSB is set. Natural
// images sit near 0.5; long runs of embedded ASCII push it lower.
func Density(buf *ir.PixelBuffer) float64 {
	var set, total int
	for i, v := range buf.Pix {
		if buf.Channels == 4 && i%4 == 3 {
			continue
		}
		set += int(v & 1)
		total++
	}
	if total == 0 {
		return 0
	}
	return float64(set) / float64(total)
}
