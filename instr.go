package m68k

// sizeSpecKind tags how an instruction's operand size is determined.
type sizeSpecKind int

const (
	sizeAbsent sizeSpecKind = iota
	sizeDynamic
	sizeStatic
)

// SizeSpec describes an instruction's size field: absent (no size-dependent
// behavior), dynamic (read from a SizeEncoding at decode time), or static
// (fixed, e.g. word-only control instructions).
type SizeSpec struct {
	kind  sizeSpecKind
	enc   SizeEncoding
	fixed Size
}

// SizeAbsent describes an instruction with no size field.
func SizeAbsent() SizeSpec { return SizeSpec{kind: sizeAbsent} }

// SizeDynamic describes an instruction whose size is read from enc.
func SizeDynamic(enc SizeEncoding) SizeSpec { return SizeSpec{kind: sizeDynamic, enc: enc} }

// SizeStatic describes an instruction with a single fixed size.
func SizeStatic(sz Size) SizeSpec { return SizeSpec{kind: sizeStatic, fixed: sz} }

// Instruction is one declarative instruction descriptor: a mnemonic, size
// treatment, opcode pattern, and the microcode pipeline implementing it.
type Instruction struct {
	Name   string
	Size   SizeSpec
	Opcode OpcodePattern
	Code   Pipeline
}

// Permutation is the decoder's atom: one size-specialised variant of an
// instruction, with a refined opcode pattern and its precompiled handler.
type Permutation struct {
	Size    Size // meaningful only when HasSize is true
	HasSize bool
	Opcode  OpcodePattern
	Instr   *Instruction
	Handler func(cpu *CPU, x *ExecContext)
}

// GeneratePermutations expands one instruction into 1-3 concrete
// permutations: one per size admitted by a dynamic size field, or a single
// permutation for a static or size-less instruction.
func GeneratePermutations(instr *Instruction) []Permutation {
	switch instr.Size.kind {
	case sizeDynamic:
		sizes := instr.Size.enc.Sizes()
		out := make([]Permutation, 0, len(sizes))
		for _, sz := range sizes {
			code, ok := instr.Size.enc.Encode(sz)
			if !ok {
				continue
			}
			pattern := instr.Opcode.withField(instr.Size.enc.pos, instr.Size.enc.width, code)
			out = append(out, Permutation{
				Size: sz, HasSize: true,
				Opcode:  pattern,
				Instr:   instr,
				Handler: instr.Code.Finalize(sz),
			})
		}
		return out
	case sizeStatic:
		return []Permutation{{
			Size: instr.Size.fixed, HasSize: true,
			Opcode:  instr.Opcode,
			Instr:   instr,
			Handler: instr.Code.Finalize(instr.Size.fixed),
		}}
	default:
		return []Permutation{{
			Opcode:  instr.Opcode,
			Instr:   instr,
			Handler: instr.Code.Finalize(0),
		}}
	}
}

// GenerateAll expands a whole instruction set into its full permutation
// list, in the order the instructions were supplied (sort order for
// decoder construction is applied separately, by BuildDecoder).
func GenerateAll(instrs []*Instruction) []Permutation {
	out := make([]Permutation, 0, len(instrs))
	for _, instr := range instrs {
		out = append(out, GeneratePermutations(instr)...)
	}
	return out
}
