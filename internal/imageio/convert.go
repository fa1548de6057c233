package imageio

import (
	"image"
	"image/color"

	"github.com/s0shaw/cin/internal/ir"
)

// FromImage copies img into a BGR (or BGRA, when img has any transparency)
// pixel buffer using exact 8-bit non-premultiplied values.
func FromImage(img image.Image) *ir.PixelBuffer {
	b := img.Bounds()
	channels := 3
	if !isOpaque(img) {
		channels = 4
	}
	buf := &ir.PixelBuffer{
		Rows:     b.Dy(),
		Cols:     b.Dx(),
		Channels: channels,
		Pix:      make([]byte, b.Dx()*b.Dy()*channels),
	}

	if m, ok := img.(*image.NRGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := m.Pix[m.PixOffset(b.Min.X, y):]
			for x := 0; x < b.Dx(); x++ {
				s := row[x*4 : x*4+4]
				buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = s[2], s[1], s[0]
				if channels == 4 {
					buf.Pix[i+3] = s[3]
				}
				i += channels
			}
		}
		return buf
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2] = c.B, c.G, c.R
			if channels == 4 {
				buf.Pix[i+3] = c.A
			}
			i += channels
		}
	}
	return buf
}

// ToImage converts buf back to an NRGBA image. 3-channel buffers become
// fully opaque.
func ToImage(buf *ir.PixelBuffer) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, buf.Cols, buf.Rows))
	src := 0
	for dst := 0; dst < len(img.Pix); dst += 4 {
		img.Pix[dst] = buf.Pix[src+2]
		img.Pix[dst+1] = buf.Pix[src+1]
		img.Pix[dst+2] = buf.Pix[src]
		if buf.Channels == 4 {
			img.Pix[dst+3] = buf.Pix[src+3]
		} else {
			img.Pix[dst+3] = 0xff
		}
		src += buf.Channels
	}
	return img
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
