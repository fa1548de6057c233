package bitstream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_MSBFirst(t *testing.T) {
	bits, err := Default().Encode("Hi")
	require.NoError(t, err)
	// 'H' = 0x48, 'i' = 0x69
	assert.Equal(t, "0100100001101001", bits.String())
}

func TestEncode_LengthIsMultipleOfEight(t *testing.T) {
	for _, msg := range []string{"", "a", "hello world", "café", strings.Repeat("x", 100)} {
		bits, err := Default().Encode(msg)
		require.NoError(t, err, msg)
		assert.Zero(t, len(bits)%8, "message %q", msg)
	}
}

func TestEncodeFramed_Hi(t *testing.T) {
	c := Default()
	bits, err := c.EncodeFramed("Hi")
	require.NoError(t, err)
	assert.Len(t, bits, 56)

	plain, err := c.Encode("Hi#####")
	require.NoError(t, err)
	assert.Equal(t, plain, bits)
}

func TestEncode_RejectsWideCharacters(t *testing.T) {
	_, err := Default().Encode("ok 日本")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnencodable)
	assert.Contains(t, err.Error(), "position 3")
}

func TestEncode_NormalizesToComposedForm(t *testing.T) {
	decomposed, err := Default().Encode("cafe\u0301")
	require.NoError(t, err)
	composed, err := Default().Encode("caf\u00e9")
	require.NoError(t, err)
	assert.Equal(t, composed, decomposed)
	assert.Len(t, decomposed, 32)
}

func TestDecode_RoundTrip(t *testing.T) {
	c := Default()
	for _, msg := range []string{"", "Hi", "The quick brown fox", "caf\u00e9 \u00ff", "tab\tnew\nline"} {
		bits, err := c.EncodeFramed(msg)
		require.NoError(t, err)

		got, err := c.Decode(bits)
		require.NoError(t, err)
		assert.Equal(t, msg, got.Text)
		assert.True(t, got.Terminated)
	}
}

func TestDecode_EmptyMessage(t *testing.T) {
	c := Default()
	bits, err := c.EncodeFramed("")
	require.NoError(t, err)
	assert.Len(t, bits, 40)

	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "", got.Text)
	assert.True(t, got.Terminated)
	assert.Equal(t, 5, got.BytesRead)
}

func TestDecode_StopsAtFirstTerminator(t *testing.T) {
	c := Default()
	bits, err := c.Encode("Hi#####XYZ")
	require.NoError(t, err)

	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Text)
	assert.Equal(t, 7, got.BytesRead, "bytes after the terminator must not be consumed")
}

func TestDecode_IgnoresGarbageAfterTerminator(t *testing.T) {
	c := Default()
	bits, err := c.EncodeFramed("Hi")
	require.NoError(t, err)
	// invalid values past the terminator are never examined
	bits = append(bits, 7, 7, 7, 7, 7, 7, 7, 7)

	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Text)
}

func TestDecode_MissingTerminatorIsBestEffort(t *testing.T) {
	c := Default()
	bits, err := c.Encode("no end ##")
	require.NoError(t, err)
	bits = append(bits, 1, 0, 1)

	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "no end ##", got.Text)
	assert.False(t, got.Terminated)
	assert.Equal(t, 3, got.TrailingBits)
}

func TestDecode_StrictReportsMissingTerminator(t *testing.T) {
	c, err := New(Options{Strict: true})
	require.NoError(t, err)
	bits, err := c.Encode("abc")
	require.NoError(t, err)

	got, err := c.Decode(bits)
	assert.ErrorIs(t, err, ErrTerminatorNotFound)
	assert.Equal(t, "abc", got.Text)
}

func TestDecode_InvalidBit(t *testing.T) {
	_, err := Default().Decode(Bits{0, 1, 2, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidBit)
}

func TestCustomTerminator(t *testing.T) {
	c, err := New(Options{Terminator: "<END>"})
	require.NoError(t, err)
	assert.Equal(t, 40, c.TerminatorBits())

	bits, err := c.EncodeFramed("a ##### b")
	require.NoError(t, err)
	got, err := c.Decode(bits)
	require.NoError(t, err)
	assert.Equal(t, "a ##### b", got.Text)
}

func TestNew_RejectsWideTerminator(t *testing.T) {
	_, err := New(Options{Terminator: "終"})
	assert.ErrorIs(t, err, ErrUnencodable)
}

func TestRequiredBits(t *testing.T) {
	n, err := Default().RequiredBits("Hi")
	require.NoError(t, err)
	assert.Equal(t, 56, n)

	n, err = Default().RequiredBits("")
	require.NoError(t, err)
	assert.Equal(t, 40, n)
}
