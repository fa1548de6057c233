// Package bitstream converts text messages to and from the bit sequences
// that are hidden in image LSBs.
//
// Each character is mapped to one byte (ISO-8859-1 after NFC normalization)
// and written as 8 bits, most significant bit first. Messages are framed by
// appending a terminator; decoding stops at the first occurrence of it.
package bitstream

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// DefaultTerminator marks the end of a hidden message.
const DefaultTerminator = "#####"

var (
	// ErrUnencodable is returned for characters outside the single-byte range.
	ErrUnencodable = errors.New("character does not fit in one byte")
	// ErrTerminatorNotFound is only returned by a strict Codec.
	ErrTerminatorNotFound = errors.New("terminator not found")
)

// Options configures a Codec.
type Options struct {
	Terminator string // defaults to DefaultTerminator
	Strict     bool   // treat a missing terminator as an error
}

// Codec encodes and decodes framed messages.
type Codec struct {
	terminator string
	term       []byte
	strict     bool
}

// Decoded is the outcome of decoding a bit sequence.
type Decoded struct {
	Text         string
	Terminated   bool // the terminator was found and stripped
	BytesRead    int  // bytes consumed, terminator included
	TrailingBits int  // bits left over after the last whole byte, never decoded
}

// New builds a Codec, validating the terminator.
func New(opts Options) (*Codec, error) {
	terminator := opts.Terminator
	if terminator == "" {
		terminator = DefaultTerminator
	}
	term, err := toBytes(terminator)
	if err != nil {
		return nil, fmt.Errorf("terminator: %w", err)
	}
	return &Codec{terminator: norm.NFC.String(terminator), term: term, strict: opts.Strict}, nil
}

// Default returns a non-strict Codec using DefaultTerminator.
func Default() *Codec {
	c, _ := New(Options{})
	return c
}

// Terminator returns the framing literal.
func (c *Codec) Terminator() string {
	return c.terminator
}

// TerminatorBits is the number of bits the terminator occupies.
func (c *Codec) TerminatorBits() int {
	return len(c.term) * 8
}

// Frame appends the terminator to message.
func (c *Codec) Frame(message string) string {
	return message + c.terminator
}

// Encode converts message to bits, 8 per character, MSB first.
func (c *Codec) Encode(message string) (Bits, error) {
	raw, err := toBytes(message)
	if err != nil {
		return nil, err
	}
	bits := make(Bits, 0, len(raw)*8)
	for _, b := range raw {
		bits = AppendByte(bits, b)
	}
	return bits, nil
}

// EncodeFramed encodes message followed by the terminator.
func (c *Codec) EncodeFramed(message string) (Bits, error) {
	return c.Encode(c.Frame(message))
}

// RequiredBits returns the bit length of the framed message.
func (c *Codec) RequiredBits(message string) (int, error) {
	raw, err := toBytes(message)
	if err != nil {
		return 0, err
	}
	return (len(raw) + len(c.term)) * 8, nil
}

// Decode reads consecutive 8-bit groups until the terminator completes.
// Bits after the terminator are never examined. If the terminator never
// appears the whole stream is returned; a strict Codec also reports
// ErrTerminatorNotFound alongside that best-effort result.
func (c *Codec) Decode(bits Bits) (Decoded, error) {
	m := NewMatcher(c.term)
	groups := len(bits) / 8
	out := make([]byte, 0, groups)

	for i := 0; i < groups; i++ {
		b, err := PackByte(bits[i*8 : i*8+8])
		if err != nil {
			return Decoded{}, fmt.Errorf("byte %d: %w", i, err)
		}
		out = append(out, b)
		if m.Push(b) {
			return Decoded{
				Text:       fromBytes(out[:len(out)-len(c.term)]),
				Terminated: true,
				BytesRead:  len(out),
			}, nil
		}
	}

	res := Decoded{
		Text:         fromBytes(out),
		BytesRead:    len(out),
		TrailingBits: len(bits) % 8,
	}
	if c.strict {
		return res, ErrTerminatorNotFound
	}
	return res, nil
}

func toBytes(s string) ([]byte, error) {
	s = norm.NFC.String(s)
	out := make([]byte, 0, len(s))
	pos := 0
	for _, r := range s {
		b, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return nil, fmt.Errorf("%w: %q at position %d", ErrUnencodable, r, pos)
		}
		out = append(out, b)
		pos++
	}
	return out, nil
}

func fromBytes(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = charmap.ISO8859_1.DecodeByte(b)
	}
	return string(runes)
}
