package m68k

// ABCD, SBCD, and NBCD are expressed as declarative Instruction descriptors
// built from the microcode Pipeline, rather than as hand-written opFuncs:
// each is one or more instances of the bcd() primitive bracketed by the
// ea() steps that fetch and store its operands. This is the showcase path
// for the declarative model; the rest of the instruction set is registered
// through registerOpcode instead (see isa_registry.go).

func init() {
	registerInstruction(abcdRegInstr())
	registerInstruction(abcdMemInstr())
	registerInstruction(sbcdRegInstr())
	registerInstruction(sbcdMemInstr())
	for _, instr := range nbcdInstrs() {
		registerInstruction(instr)
	}
}

// regRegPair builds the pair of AddrModeEncoding values ABCD/SBCD use for
// their Rx,Ry operands: a shared 1-bit mode selector at bit 3 (0 = data
// register direct, 1 = address register indirect with predecrement), with
// Ry's register field at bits 0-2 and Rx's at bits 9-11.
func regRegPair() (src, dst AddrModeEncoding) {
	return RegRegAddrModeEncoding(3, 0), RegRegAddrModeEncoding(3, 9)
}

// abcdRegInstr is ABCD Dy,Dx: opcode 1100 xxx1 0000 0yyy. The register
// operands cost no bus cycles of their own, so the PRM's 6-cycle total is
// made up of the bcd() step's 2 plus an explicit 4-cycle pad.
func abcdRegInstr() *Instruction {
	src, dst := regRegPair()
	code := NewPipeline().
		EA(slotSrc, false, false, TransferLoad, src).
		EA(slotDst, false, false, TransferLoad, dst).
		BCD(BCDAdd).
		EA(slotDst, false, false, TransferStore, dst).
		Cycles(4)
	return &Instruction{
		Name:   "ABCD",
		Size:   SizeStatic(Byte),
		Opcode: MustOpcodePattern("1100xxx100000xxx"),
		Code:   code,
	}
}

// abcdMemInstr is ABCD -(Ay),-(Ax): opcode 1100 xxx1 0000 1yyy.
func abcdMemInstr() *Instruction {
	src, dst := regRegPair()
	code := NewPipeline().
		EA(slotSrc, true, true, TransferLoad, src).
		EA(slotDst, true, true, TransferLoad, dst).
		BCD(BCDAdd).
		EA(slotDst, false, false, TransferStore, dst)
	return &Instruction{
		Name:   "ABCD",
		Size:   SizeStatic(Byte),
		Opcode: MustOpcodePattern("1100xxx100001xxx"),
		Code:   code,
	}
}

// sbcdRegInstr is SBCD Dy,Dx: opcode 1000 xxx1 0000 0yyy. See abcdRegInstr
// for the 4-cycle pad.
func sbcdRegInstr() *Instruction {
	src, dst := regRegPair()
	code := NewPipeline().
		EA(slotSrc, false, false, TransferLoad, src).
		EA(slotDst, false, false, TransferLoad, dst).
		BCD(BCDSub).
		EA(slotDst, false, false, TransferStore, dst).
		Cycles(4)
	return &Instruction{
		Name:   "SBCD",
		Size:   SizeStatic(Byte),
		Opcode: MustOpcodePattern("1000xxx100000xxx"),
		Code:   code,
	}
}

// sbcdMemInstr is SBCD -(Ay),-(Ax): opcode 1000 xxx1 0000 1yyy.
func sbcdMemInstr() *Instruction {
	src, dst := regRegPair()
	code := NewPipeline().
		EA(slotSrc, true, true, TransferLoad, src).
		EA(slotDst, true, true, TransferLoad, dst).
		BCD(BCDSub).
		EA(slotDst, false, false, TransferStore, dst)
	return &Instruction{
		Name:   "SBCD",
		Size:   SizeStatic(Byte),
		Opcode: MustOpcodePattern("1000xxx100001xxx"),
		Code:   code,
	}
}

// nbcdZeroSrc moves the loaded operand into the source slot and clears the
// destination slot's data, so the shared bcd() primitive (which always
// computes dst - src - X) reduces to NBCD's 0 - dst - X.
func nbcdZeroSrc(cpu *CPU, x *ExecContext) {
	x.ea[slotSrc].data = x.ea[slotDst].data
	x.ea[slotDst].data = 0
}

// nbcdInstrs builds one Instruction per addressing mode NBCD accepts: data
// register direct and the memory-alterable modes, excluding address
// register direct and the two PC-relative and immediate modes (none of
// which are valid NBCD destinations). Each plain mode's register field is
// left wildcarded; mode 111 is split into its two valid concrete n values
// (absolute short and absolute long).
//
// The register-direct variant charges no bus cycles of its own, needing a
// 4-cycle pad to reach the PRM's 6-cycle total; every memory variant's
// fetch/read/write steps already account for all but 2 cycles of its PRM
// total (verified per mode against timing.go's legacy eaFetchCycles table),
// so each gets the same 2-cycle pad regardless of addressing mode.
func nbcdInstrs() []*Instruction {
	enc := DefaultAddrModeEncoding()
	newCode := func(pad uint64) Pipeline {
		return NewPipeline().
			EA(slotDst, true, true, TransferLoad, enc).
			Legacy(nbcdZeroSrc).
			BCD(BCDSub).
			EA(slotDst, false, false, TransferStore, enc).
			Cycles(pad)
	}

	var out []*Instruction
	for _, m := range []uint16{0, 2, 3, 4, 5, 6} {
		pattern := MustOpcodePattern("0100100000xxxxxx").withField(3, 3, m)
		pad := uint64(2)
		if m == 0 {
			pad = 4
		}
		out = append(out, &Instruction{
			Name:   "NBCD",
			Size:   SizeStatic(Byte),
			Opcode: pattern,
			Code:   newCode(pad),
		})
	}
	for _, n := range []uint16{0, 1} { // abs.w, abs.l
		pattern := MustOpcodePattern("0100100000xxxxxx").withField(3, 3, 7).withField(0, 3, n)
		out = append(out, &Instruction{
			Name:   "NBCD",
			Size:   SizeStatic(Byte),
			Opcode: pattern,
			Code:   newCode(2),
		})
	}
	return out
}
