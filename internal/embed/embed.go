// Package embed writes and reads bit sequences in the least significant bits
// of a pixel buffer's first three channels.
//
// Positions are visited in a single fixed order: rows, then columns, then
// channels 0..2. A linear position k maps to
//
//	row = k / (cols*3), col = (k/3) % cols, channel = k % 3
//
// and both Embed and ExtractBits iterate over k, so they agree on ordering by
// construction. A 4th (alpha) channel is never read or written.
package embed

import (
	"errors"
	"fmt"

	"github.com/s0shaw/cin/internal/bitstream"
	"github.com/s0shaw/cin/internal/ir"
)

// ChannelsUsed is the number of channels per pixel that carry payload bits.
const ChannelsUsed = 3

// ErrNilBuffer is returned when no pixel buffer was supplied.
var ErrNilBuffer = errors.New("no pixel buffer")

// CapacityError reports a payload that does not fit in the carrier.
type CapacityError struct {
	Required int // bits needed for the framed message
	Max      int // LSB slots available
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message too large: needs %d bits, image holds %d", e.Required, e.Max)
}

// Report describes a carrier's capacity relative to a payload.
type Report struct {
	MaxBits      int
	RequiredBits int
}

// Fits reports whether the payload fits.
func (r Report) Fits() bool {
	return r.RequiredBits <= r.MaxBits
}

// FreeBits is the number of LSB slots left after embedding, or 0.
func (r Report) FreeBits() int {
	if r.RequiredBits >= r.MaxBits {
		return 0
	}
	return r.MaxBits - r.RequiredBits
}

// MaxChars is the longest message, in characters, that fits in maxBits once
// a terminator of terminatorBits is appended.
func MaxChars(maxBits, terminatorBits int) int {
	n := (maxBits - terminatorBits) / 8
	if n < 0 {
		return 0
	}
	return n
}

// Capacity returns the number of LSB slots in buf.
func Capacity(buf *ir.PixelBuffer) int {
	if buf == nil {
		return 0
	}
	return buf.Rows * buf.Cols * ChannelsUsed
}

// Position maps a linear bit index to its pixel coordinate and channel.
func Position(k, cols int) (row, col, ch int) {
	return k / (cols * ChannelsUsed), (k / ChannelsUsed) % cols, k % ChannelsUsed
}

// offset maps a linear bit index straight to its index in buf.Pix.
func offset(buf *ir.PixelBuffer, k int) int {
	return (k/ChannelsUsed)*buf.Channels + k%ChannelsUsed
}

// CheckCapacity fails with *CapacityError when requiredBits exceeds the
// carrier's LSB slots.
func CheckCapacity(buf *ir.PixelBuffer, requiredBits int) (Report, error) {
	if buf == nil {
		return Report{}, ErrNilBuffer
	}
	r := Report{MaxBits: Capacity(buf), RequiredBits: requiredBits}
	if !r.Fits() {
		return r, &CapacityError{Required: r.RequiredBits, Max: r.MaxBits}
	}
	return r, nil
}

// Embed writes bits into buf in scan order, replacing only the least
// significant bit of each visited channel byte. Positions past len(bits) are
// left untouched. On error buf is not modified.
func Embed(buf *ir.PixelBuffer, bits bitstream.Bits) error {
	if buf == nil {
		return ErrNilBuffer
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := bits.Validate(); err != nil {
		return err
	}
	if _, err := CheckCapacity(buf, len(bits)); err != nil {
		return err
	}

	for k, bit := range bits {
		i := offset(buf, k)
		buf.Pix[i] = buf.Pix[i]&0xFE | bit
	}
	return nil
}

// ExtractBits reads the least significant bit of every payload channel in
// scan order. The result always has Capacity(buf) bits; termination is left
// to the bitstream decoder.
func ExtractBits(buf *ir.PixelBuffer) (bitstream.Bits, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	n := Capacity(buf)
	bits := make(bitstream.Bits, n)
	for k := 0; k < n; k++ {
		bits[k] = buf.Pix[offset(buf, k)] & 0x01
	}
	return bits, nil
}
