package m68k

// SizeEncoding is a partial mapping between a Size and the integer code
// occupying a bit field at a known position in an opcode word. Different
// instruction families place this field at different positions and use
// different code assignments, so the mapping itself is a value rather than
// a fixed switch.
type SizeEncoding struct {
	pos   uint
	width uint
	toCode map[Size]uint16
	toSize map[uint16]Size
}

// newSizeEncoding builds a SizeEncoding from a position, field width, and the
// size->code entries it admits.
func newSizeEncoding(pos, width uint, entries map[Size]uint16) SizeEncoding {
	e := SizeEncoding{pos: pos, width: width, toCode: entries, toSize: make(map[uint16]Size, len(entries))}
	for sz, code := range entries {
		e.toSize[code] = sz
	}
	return e
}

// BackingWidth returns ceil(log2(max(code)+1)), the number of bits needed to
// represent the largest code this encoding admits.
func (e SizeEncoding) BackingWidth() uint {
	return e.width
}

// Pos returns the bit position of the size field within the opcode word.
func (e SizeEncoding) Pos() uint { return e.pos }

// Decode extracts the size field from word and returns the Size it names,
// or ok=false if the field's value maps to no size.
func (e SizeEncoding) Decode(word uint16) (sz Size, ok bool) {
	code := uint16(extract(uint32(word), e.pos, e.width))
	sz, ok = e.toSize[code]
	return
}

// Encode is the inverse of Decode: the code for sz, or ok=false if this
// encoding does not admit sz.
func (e SizeEncoding) Encode(sz Size) (code uint16, ok bool) {
	code, ok = e.toCode[sz]
	return
}

// Count is the number of sizes this encoding maps (1-3).
func (e SizeEncoding) Count() int {
	return len(e.toCode)
}

// Sizes returns the sizes admitted by this encoding in a stable order
// (Byte, Word, Long), for use by the permutation generator.
func (e SizeEncoding) Sizes() []Size {
	out := make([]Size, 0, 3)
	for _, sz := range [3]Size{Byte, Word, Long} {
		if _, ok := e.toCode[sz]; ok {
			out = append(out, sz)
		}
	}
	return out
}

// Default size encodings used across the instruction set. Field positions
// are bound per-instruction at descriptor construction time by the pos
// argument of the SizeEncoding constructors; these values fix only the code
// assignment.

// sizeCodes1Bit is the {word->0, long->1} assignment used by a 1-bit size field.
var sizeCodes1Bit = map[Size]uint16{Word: 0, Long: 1}

// sizeCodes2Bit is the {byte->0, word->1, long->2} assignment used by a
// 2-bit size field.
var sizeCodes2Bit = map[Size]uint16{Byte: 0, Word: 1, Long: 2}

// sizeCodesMove is MOVE's non-standard {byte->1, word->3, long->2} assignment.
var sizeCodesMove = map[Size]uint16{Byte: 1, Word: 3, Long: 2}

// sizeCodesMOVEA is MOVEA's {word->3, long->2} assignment (no byte form).
var sizeCodesMOVEA = map[Size]uint16{Word: 3, Long: 2}

// SizeEncoding1Bit builds the standard 1-bit size field at the given
// position: {word->0, long->1}.
func SizeEncoding1Bit(pos uint) SizeEncoding { return newSizeEncoding(pos, 1, sizeCodes1Bit) }

// SizeEncoding2Bit builds the standard 2-bit size field at the given
// position: {byte->0, word->1, long->2}.
func SizeEncoding2Bit(pos uint) SizeEncoding { return newSizeEncoding(pos, 2, sizeCodes2Bit) }

// SizeEncodingMove builds MOVE's 2-bit size field at the given position:
// {byte->1, word->3, long->2}.
func SizeEncodingMove(pos uint) SizeEncoding { return newSizeEncoding(pos, 2, sizeCodesMove) }

// SizeEncodingMOVEA builds MOVEA's 2-bit size field at the given position:
// {word->3, long->2}.
func SizeEncodingMOVEA(pos uint) SizeEncoding { return newSizeEncoding(pos, 2, sizeCodesMOVEA) }
