package m68k

// RegClass selects which register file ldreg/streg read from or write to.
type RegClass int

const (
	RegData RegClass = iota
	RegAddr
)

// TransferOp names the memory-transfer behavior of an ea step.
type TransferOp int

const (
	TransferLoad TransferOp = iota
	TransferStore
	TransferNoop
)

// BCDOp selects ABCD-style addition or SBCD-style subtraction for a bcd step.
type BCDOp int

const (
	BCDAdd BCDOp = iota
	BCDSub
)

// TransferKind names how the disassembler's info sidecar should render one
// operand, without it having to re-derive that from the step list.
type TransferKind int

const (
	TransferNone TransferKind = iota
	TransferAddrModeKind
	TransferDataRegKind
	TransferAddrRegKind
)

// Transfer describes one operand's rendering for the disassembler: which
// kind of source it came from, and, for addr_mode operands, the encoding
// used to decode it; for register operands, the bit position of the
// register field.
type Transfer struct {
	Kind TransferKind
	Enc  AddrModeEncoding
	Pos  uint
}

// Info is the microcode pipeline's sidecar: the source and destination
// operand descriptors the disassembler renders operand text from.
type Info struct {
	Src, Dst Transfer
}

// stepKind tags the variant of a single microcode step. Steps are
// represented as one flat struct switched on kind, rather than as an
// interface with per-step dynamic dispatch, so that Finalize can compile
// the whole sequence into one closure per permutation.
type stepKind int

const (
	stepEA stepKind = iota
	stepLdReg
	stepStReg
	stepFetch
	stepBCD
	stepCycles
	stepLegacy
)

type step struct {
	kind stepKind

	// stepEA
	slot     slotID
	calc     bool
	clk      bool
	transOp  TransferOp
	enc      AddrModeEncoding

	// stepLdReg / stepStReg
	regClass RegClass
	regPos   uint

	// stepBCD
	bcdOp BCDOp

	// stepCycles
	n uint64

	// stepLegacy: an escape hatch for instruction bodies that don't
	// decompose into the six named primitives (e.g. multiply/divide,
	// conditional branches). Participates in the same permutation/decoder
	// pipeline as everything else; its body is an opaque function.
	legacy func(cpu *CPU, x *ExecContext)
}

// Pipeline is an immutable builder: each operation returns a new pipeline
// with one step appended (and, where applicable, Info updated), so that
// pipelines sharing a prefix can share the underlying step slice safely.
type Pipeline struct {
	steps []step
	info  Info
}

// NewPipeline starts an empty pipeline.
func NewPipeline() Pipeline {
	return Pipeline{}
}

func (p Pipeline) appended(s step) Pipeline {
	steps := make([]step, len(p.steps)+1)
	copy(steps, p.steps)
	steps[len(p.steps)] = s
	return Pipeline{steps: steps, info: p.info}
}

// EA appends an effective-address step for the given slot. calc requests
// the addressing-mode side effects (post-increment/pre-decrement, extension
// word fetches); clk requests the mode's extra cycle penalty; op selects
// load, store, or no transfer.
func (p Pipeline) EA(slot slotID, calc, clk bool, op TransferOp, enc AddrModeEncoding) Pipeline {
	q := p.appended(step{kind: stepEA, slot: slot, calc: calc, clk: clk, transOp: op, enc: enc})
	t := Transfer{Kind: TransferAddrModeKind, Enc: enc}
	if slot == slotSrc {
		q.info.Src = t
	} else {
		q.info.Dst = t
	}
	return q
}

// LdReg appends a register-load step: copies d[n] or sign-extended a[n]
// (per class) into the given slot's data at width precision, with n read
// from the opcode at bitPos.
func (p Pipeline) LdReg(slot slotID, class RegClass, bitPos uint) Pipeline {
	q := p.appended(step{kind: stepLdReg, slot: slot, regClass: class, regPos: bitPos})
	t := regTransfer(class, bitPos)
	if slot == slotSrc {
		q.info.Src = t
	} else {
		q.info.Dst = t
	}
	return q
}

// StReg appends a register-store step, the inverse of LdReg, always
// targeting the destination slot.
func (p Pipeline) StReg(class RegClass, bitPos uint) Pipeline {
	q := p.appended(step{kind: stepStReg, slot: slotDst, regClass: class, regPos: bitPos})
	q.info.Dst = regTransfer(class, bitPos)
	return q
}

func regTransfer(class RegClass, bitPos uint) Transfer {
	if class == RegData {
		return Transfer{Kind: TransferDataRegKind, Pos: bitPos}
	}
	return Transfer{Kind: TransferAddrRegKind, Pos: bitPos}
}

// Fetch appends the standard instruction prefetch that ends most pipelines:
// cpu.ir = exec.fetch(16, cpu).
func (p Pipeline) Fetch() Pipeline {
	return p.appended(step{kind: stepFetch})
}

// BCD appends a binary-coded-decimal add or subtract step operating on the
// src/dst slots' data, per §4.3.
func (p Pipeline) BCD(op BCDOp) Pipeline {
	return p.appended(step{kind: stepBCD, bcdOp: op})
}

// Cycles appends a fixed cycle-accounting step.
func (p Pipeline) Cycles(n uint64) Pipeline {
	return p.appended(step{kind: stepCycles, n: n})
}

// Legacy appends an opaque step whose body is supplied directly. See
// stepLegacy.
func (p Pipeline) Legacy(fn func(cpu *CPU, x *ExecContext)) Pipeline {
	return p.appended(step{kind: stepLegacy, legacy: fn})
}

// Info returns the pipeline's current operand-rendering sidecar.
func (p Pipeline) Info() Info { return p.info }

// eaCyclePenalty is the extra cycle cost of computing an effective address
// in the given mode, over and above the bus-access cycles the transfer
// itself charges.
func eaCyclePenalty(mode AddrMode) uint64 {
	switch mode {
	case AddrModeAddrDec, AddrModeAddrIdx, AddrModePCIdx:
		return 2
	default:
		return 0
	}
}

// Finalize compiles the pipeline into a handler bound to a concrete
// operand width. sz is the zero value (absent) for pipelines with no size
// field.
func (p Pipeline) Finalize(sz Size) func(cpu *CPU, x *ExecContext) {
	steps := p.steps
	return func(cpu *CPU, x *ExecContext) {
		for _, s := range steps {
			switch s.kind {
			case stepEA:
				runEAStep(cpu, x, s, sz)
			case stepLdReg:
				runLdRegStep(cpu, x, s, sz)
			case stepStReg:
				runStRegStep(cpu, x, s, sz)
			case stepFetch:
				cpu.ir = uint16(x.fetch(16, cpu))
				cpu.reg.IR = cpu.ir
			case stepBCD:
				runBCDStep(cpu, x, s)
			case stepCycles:
				x.addCycles(s.n)
			case stepLegacy:
				s.legacy(cpu, x)
			}
		}
	}
}

// runEAStep implements the ea(transfer, calc?, clk?, op, enc) primitive of
// §4.3.
func runEAStep(cpu *CPU, x *ExecContext, s step, sz Size) {
	mode, _ := s.enc.Decode(cpu.ir)
	n := uint8(extract(uint32(cpu.ir), s.enc.nPos, s.enc.nWidth))

	width := sz.Bits()

	// Without calc the address an earlier step stored in this slot is
	// reused, so no register side effects or extension-word fetches occur.
	addr := x.ea[s.slot].addr
	calcMode := mode
	if !s.calc {
		calcMode = -1 // matches no case below
	}
	switch calcMode {
	case AddrModeAddr:
		addr = cpu.reg.A[n]
	case AddrModeAddrInc:
		addr = cpu.reg.A[n]
		if s.calc {
			inc := uint32(sz)
			if n == 7 && sz == Byte {
				inc = 2
			}
			cpu.reg.A[n] += inc
		}
	case AddrModeAddrDec:
		if s.calc {
			dec := uint32(sz)
			if n == 7 && sz == Byte {
				dec = 2
			}
			cpu.reg.A[n] -= dec
		}
		addr = cpu.reg.A[n]
	case AddrModeAddrDisp:
		disp := int32(int16(x.fetch(16, cpu)))
		addr = uint32(int32(cpu.reg.A[n]) + disp)
	case AddrModeAddrIdx:
		addr = x.extword(cpu) + cpu.reg.A[n]
	case AddrModePCDisp:
		pc := cpu.reg.PC
		disp := int32(int16(x.fetch(16, cpu)))
		addr = uint32(int32(pc) + disp)
	case AddrModePCIdx:
		pc := cpu.reg.PC
		addr = x.extword(cpu) + pc
	case AddrModeAbsShort:
		addr = uint32(int32(int16(x.fetch(16, cpu))))
	case AddrModeAbsLong:
		addr = x.fetch(32, cpu)
	}

	if s.clk {
		x.addCycles(eaCyclePenalty(mode))
	}

	x.ea[s.slot].addr = addr

	switch s.transOp {
	case TransferLoad:
		switch mode {
		case AddrModeDataReg:
			x.ea[s.slot].data = cpu.reg.D[n] & sz.Mask()
		case AddrModeAddrReg:
			x.ea[s.slot].data = signExtend(cpu.reg.A[n], width)
		case AddrModeImm:
			x.ea[s.slot].data = x.fetch(width, cpu)
		default:
			x.ea[s.slot].data = x.read(sz, addr)
		}
	case TransferStore:
		switch mode {
		case AddrModeDataReg:
			cpu.reg.D[n] = overwrite(cpu.reg.D[n], x.ea[s.slot].data, width)
		case AddrModeAddrReg:
			cpu.reg.A[n] = signExtend(x.ea[s.slot].data, width)
		case AddrModeImm:
			// no-op
		default:
			x.write(sz, addr, x.ea[s.slot].data)
		}
	}
}

// runLdRegStep implements ldreg(slot, class, bitPos).
func runLdRegStep(cpu *CPU, x *ExecContext, s step, sz Size) {
	n := extract(uint32(cpu.ir), s.regPos, 3)
	var v uint32
	if s.regClass == RegData {
		v = cpu.reg.D[n] & sz.Mask()
	} else {
		v = signExtend(cpu.reg.A[n], sz.Bits())
	}
	x.ea[s.slot].data = v
}

// runStRegStep implements streg(class, bitPos): the inverse of LdReg,
// overwriting with ea.store semantics.
func runStRegStep(cpu *CPU, x *ExecContext, s step, sz Size) {
	n := extract(uint32(cpu.ir), s.regPos, 3)
	v := x.ea[slotDst].data
	if s.regClass == RegData {
		cpu.reg.D[n] = overwrite(cpu.reg.D[n], v, sz.Bits())
	} else {
		cpu.reg.A[n] = signExtend(v, sz.Bits())
	}
}

// runBCDStep implements bcd(op): decode src/dst as BCD bytes, add or
// subtract with the extend flag, write back to dst, and set flags per the
// m68k "zero flag only clears" quirk.
func runBCDStep(cpu *CPU, x *ExecContext, s step) {
	src := fromBCD(uint8(x.ea[slotSrc].data))
	dst := fromBCD(uint8(x.ea[slotDst].data))

	xflag := uint8(0)
	if cpu.reg.SR&flagX != 0 {
		xflag = 1
	}

	var raw int
	var result uint8
	var overflow bool
	switch s.bcdOp {
	case BCDAdd:
		raw = int(dst) + int(src) + int(xflag)
		result, overflow = toBCD(uint8(raw % 100))
		if raw >= 100 {
			overflow = true
		}
	case BCDSub:
		raw = int(dst) - int(src) - int(xflag)
		m := raw % 100
		if m < 0 {
			m += 100
			overflow = true
		}
		result, _ = toBCD(uint8(m))
	}

	x.ea[slotDst].data = uint32(result)

	cpu.reg.SR &^= flagC | flagX
	if overflow {
		cpu.reg.SR |= flagC | flagX
	}
	if result != 0 {
		cpu.reg.SR &^= flagZ
	}
	// N is set from bit 7 of the packed result and V is left unchanged;
	// Motorola documents both as undefined after a BCD operation.
	cpu.reg.SR &^= flagN
	if result&0x80 != 0 {
		cpu.reg.SR |= flagN
	}

	x.addCycles(2)
}
