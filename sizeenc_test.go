package m68k

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeEncoding1Bit(t *testing.T) {
	enc := SizeEncoding1Bit(8)
	assertSizeRoundTrip(t, enc, Word, 0)
	assertSizeRoundTrip(t, enc, Long, 1)
	_, ok := enc.Encode(Byte)
	assert.False(t, ok)
}

func TestSizeEncoding2Bit(t *testing.T) {
	enc := SizeEncoding2Bit(6)
	assertSizeRoundTrip(t, enc, Byte, 0)
	assertSizeRoundTrip(t, enc, Word, 1)
	assertSizeRoundTrip(t, enc, Long, 2)
}

func TestSizeEncodingMove(t *testing.T) {
	enc := SizeEncodingMove(12)
	assertSizeRoundTrip(t, enc, Byte, 1)
	assertSizeRoundTrip(t, enc, Word, 3)
	assertSizeRoundTrip(t, enc, Long, 2)
}

func TestSizeEncodingMOVEA(t *testing.T) {
	enc := SizeEncodingMOVEA(12)
	assertSizeRoundTrip(t, enc, Word, 3)
	assertSizeRoundTrip(t, enc, Long, 2)
	_, ok := enc.Encode(Byte)
	assert.False(t, ok)
}

func assertSizeRoundTrip(t *testing.T, enc SizeEncoding, sz Size, wantCode uint16) {
	t.Helper()
	code, ok := enc.Encode(sz)
	assert.True(t, ok)
	assert.Equal(t, wantCode, code)

	got, ok := enc.Decode(code)
	assert.True(t, ok)
	assert.Equal(t, sz, got)
}
