package m68k

// AddrMode names one of the twelve effective-address variants of the
// MC68000 programming model.
type AddrMode int

const (
	AddrModeDataReg AddrMode = iota
	AddrModeAddrReg
	AddrModeAddr
	AddrModeAddrInc
	AddrModeAddrDec
	AddrModeAddrDisp
	AddrModeAddrIdx
	AddrModePCDisp
	AddrModePCIdx
	AddrModeAbsShort
	AddrModeAbsLong
	AddrModeImm
)

func (m AddrMode) String() string {
	switch m {
	case AddrModeDataReg:
		return "data_reg"
	case AddrModeAddrReg:
		return "addr_reg"
	case AddrModeAddr:
		return "addr"
	case AddrModeAddrInc:
		return "addr_inc"
	case AddrModeAddrDec:
		return "addr_dec"
	case AddrModeAddrDisp:
		return "addr_disp"
	case AddrModeAddrIdx:
		return "addr_idx"
	case AddrModePCDisp:
		return "pc_disp"
	case AddrModePCIdx:
		return "pc_idx"
	case AddrModeAbsShort:
		return "abs_short"
	case AddrModeAbsLong:
		return "abs_long"
	case AddrModeImm:
		return "imm"
	}
	return "unknown"
}

// mnConstraint names which bit field (m, n, or both) a given addressing-mode
// variant is constrained on within the encoding's table.
type mnConstraint struct {
	m, n     uint16
	mSet     bool
	nSet     bool
}

// AddrModeEncoding maps each of the twelve addressing-mode variants to an
// optional (m, n) bit-field constraint and exposes an O(1) decode table
// keyed by the concatenation of the m and n bits.
type AddrModeEncoding struct {
	mPos, mWidth uint
	nPos, nWidth uint
	table        map[uint16]AddrMode
}

// defaultAddrModeSpec is the constant variant->constraint table; nSet false
// means "don't care" for n, so the variant matches every n under its m.
// buildTable skips an entry whose mSet is false; the reg/reg encoding uses
// buildRegRegTable instead of this table.
var defaultAddrModeSpec = map[AddrMode]mnConstraint{
	AddrModeDataReg:  {m: 0, mSet: true},
	AddrModeAddrReg:  {m: 1, mSet: true},
	AddrModeAddr:     {m: 2, mSet: true},
	AddrModeAddrInc:  {m: 3, mSet: true},
	AddrModeAddrDec:  {m: 4, mSet: true},
	AddrModeAddrDisp: {m: 5, mSet: true},
	AddrModeAddrIdx:  {m: 6, mSet: true},
	AddrModePCDisp:   {m: 7, mSet: true, n: 2, nSet: true},
	AddrModePCIdx:    {m: 7, mSet: true, n: 3, nSet: true},
	AddrModeAbsShort: {m: 7, mSet: true, n: 0, nSet: true},
	AddrModeAbsLong:  {m: 7, mSet: true, n: 1, nSet: true},
	AddrModeImm:      {m: 7, mSet: true, n: 4, nSet: true},
}

// buildTable materialises the dense (m,n)->variant lookup for a given field
// geometry. Variants constrained only on m (not mode 7) match every n.
func buildTable(mWidth, nWidth uint, spec map[AddrMode]mnConstraint) map[uint16]AddrMode {
	table := make(map[uint16]AddrMode)
	nSpan := uint16(1) << nWidth
	for mode, c := range spec {
		if !c.mSet {
			continue
		}
		if c.nSet {
			key := c.m<<nWidth | c.n
			table[key] = mode
			continue
		}
		for n := uint16(0); n < nSpan; n++ {
			table[c.m<<nWidth|n] = mode
		}
	}
	return table
}

// NewAddrModeEncoding builds the canonical addressing-mode encoding: a
// 3-bit m field and a 3-bit n field at the given positions.
func NewAddrModeEncoding(mPos, nPos uint) AddrModeEncoding {
	return AddrModeEncoding{
		mPos: mPos, mWidth: 3,
		nPos: nPos, nWidth: 3,
		table: buildTable(3, 3, defaultAddrModeSpec),
	}
}

// DefaultAddrModeEncoding is the standard 3-bit m at position 3, 3-bit n at
// position 0 encoding used by the large majority of instructions.
func DefaultAddrModeEncoding() AddrModeEncoding {
	return NewAddrModeEncoding(3, 0)
}

// RegRegAddrModeEncoding is the 1-bit-m encoding used by ABCD/SBCD's
// Rx,Ry operand pair, selecting data_reg vs addr_dec for both operands. The
// mode-select bit is shared by both operands; nPos locates this operand's
// own 3-bit register field, which is independent of the shared mode bit.
func RegRegAddrModeEncoding(mPos, nPos uint) AddrModeEncoding {
	return AddrModeEncoding{
		mPos: mPos, mWidth: 1,
		nPos: nPos, nWidth: 3,
		table: buildRegRegTable(),
	}
}

// buildRegRegTable expands the 1-bit mode selector against all eight
// register-field values, since the shared mode bit alone determines the
// variant regardless of which concrete register n names.
func buildRegRegTable() map[uint16]AddrMode {
	table := make(map[uint16]AddrMode, 16)
	for n := uint16(0); n < 8; n++ {
		table[0<<3|n] = AddrModeDataReg
		table[1<<3|n] = AddrModeAddrDec
	}
	return table
}

// Decode extracts m (and n, if this encoding has a nonzero n width) from
// word and returns the addressing-mode variant they name.
func (e AddrModeEncoding) Decode(word uint16) (AddrMode, bool) {
	m := uint16(extract(uint32(word), e.mPos, e.mWidth))
	var n uint16
	if e.nWidth > 0 {
		n = uint16(extract(uint32(word), e.nPos, e.nWidth))
	}
	mode, ok := e.table[m<<e.nWidth|n]
	return mode, ok
}

// MPos, MWidth, NPos, NWidth expose the field geometry for callers (notably
// the ea microcode step) that need to read the raw register number
// alongside the mode.
func (e AddrModeEncoding) MPos() uint   { return e.mPos }
func (e AddrModeEncoding) MWidth() uint { return e.mWidth }
func (e AddrModeEncoding) NPos() uint   { return e.nPos }
func (e AddrModeEncoding) NWidth() uint { return e.nWidth }
