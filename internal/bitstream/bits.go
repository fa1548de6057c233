package bitstream

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBit is returned when a bit sequence holds a value other than 0 or 1.
var ErrInvalidBit = errors.New("invalid bit value")

// Bits is an ordered sequence of single-bit values, one per element.
type Bits []byte

// ParseBits converts a string of '0'/'1' characters into Bits.
func ParseBits(s string) (Bits, error) {
	bits := make(Bits, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			bits[i] = 0
		case '1':
			bits[i] = 1
		default:
			return nil, fmt.Errorf("%w: %q at index %d", ErrInvalidBit, s[i], i)
		}
	}
	return bits, nil
}

// String renders the sequence as '0'/'1' text.
func (b Bits) String() string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, v := range b {
		sb.WriteByte('0' + v)
	}
	return sb.String()
}

// Validate checks that every element is 0 or 1.
func (b Bits) Validate() error {
	for i, v := range b {
		if v > 1 {
			return fmt.Errorf("%w: %d at index %d", ErrInvalidBit, v, i)
		}
	}
	return nil
}

// AppendByte appends the 8 bits of v to dst, most significant bit first.
func AppendByte(dst Bits, v byte) Bits {
	for shift := 7; shift >= 0; shift-- {
		dst = append(dst, (v>>uint(shift))&1)
	}
	return dst
}

// PackByte interprets an 8-bit group, most significant bit first.
func PackByte(group Bits) (byte, error) {
	if len(group) != 8 {
		return 0, fmt.Errorf("bit group must be exactly 8 bits, got %d", len(group))
	}
	var v byte
	for i, bit := range group {
		if bit > 1 {
			return 0, fmt.Errorf("%w: %d at index %d", ErrInvalidBit, bit, i)
		}
		v = v<<1 | bit
	}
	return v, nil
}
