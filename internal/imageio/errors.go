package imageio

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound is returned when the source image path does not exist.
	ErrInputNotFound = errors.New("input image not found")
	// ErrLossyFormat is returned when asked to write a format that would
	// recompress pixels and destroy the hidden bits.
	ErrLossyFormat       = errors.New("lossy output format would destroy the hidden message")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// DecodeError reports a file that exists but is not a readable image.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
