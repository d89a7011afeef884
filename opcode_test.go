package m68k

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpcodePatternRejectsBadTemplates(t *testing.T) {
	_, err := NewOpcodePattern("101")
	require.Error(t, err)

	_, err = NewOpcodePattern("110022221100xxxx")
	require.Error(t, err)
}

func TestOpcodePatternMatch(t *testing.T) {
	p := MustOpcodePattern("1100xxx100000xxx") // ABCD Dy,Dx
	assert.True(t, p.Match(0xC100))            // rx=0 ry=0
	assert.True(t, p.Match(0xC300))            // rx=1 ry=0
	assert.False(t, p.Match(0xC108))           // R bit set: not the reg form
}

func TestOpcodePatternSpecificity(t *testing.T) {
	exact := MustOpcodePattern("0100111001110001") // NOP
	wild := MustOpcodePattern("0100100000xxxxxx")   // NBCD, 6 wildcard bits
	assert.Equal(t, 0, exact.Specificity())
	assert.Equal(t, 6, wild.Specificity())
	assert.Less(t, exact.Specificity(), wild.Specificity())
}

func TestOpcodePatternWithFieldRefinesSizeBits(t *testing.T) {
	// A MOVEA-shaped template with a 2-bit dynamic size field at bits 13-12.
	p := MustOpcodePattern("00xxxxx001xxxxxx")
	refined := p.withField(12, 2, 0x3) // word (MOVEA: word -> code 3)

	assert.Equal(t, p.Specificity()-2, refined.Specificity())
	assert.True(t, refined.Match(0x3049))  // bits 13-12 = 11
	assert.False(t, refined.Match(0x2049)) // bits 13-12 = 10, wrong code
}

// TestBCDRoundTrip mirrors spec §8's invariant: frombcd(tobcd(v).0) == v % 100.
func TestBCDRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		packed, overflow := toBCD(uint8(v))
		got := fromBCD(packed)
		assert.EqualValues(t, v%100, got, "v=%d", v)
		assert.Equal(t, v > 99, overflow, "v=%d", v)
	}
}
