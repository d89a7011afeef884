package m68k

import "sync"

// declarativeInstructions holds every instruction expressed through the
// microcode Pipeline builder (§4.3): the decoder's showcase path, used for
// the BCD family (ABCD, SBCD, NBCD in ops_bcd.go). legacyPermutations holds
// exact-opcode entries registered directly by the rest of the instruction
// set (ops_arith.go, ops_bit.go, ops_branch.go, ops_ctrl.go, ops_logic.go,
// ops_move.go), whose bodies are hand-written Go rather than pipelines.
// Both feed the same trie decoder, so every opcode — pipeline-built or
// legacy — resolves through one compressed O(1) lookup.
var (
	declarativeInstructions []*Instruction
	legacyPermutations      []Permutation

	decoderOnce sync.Once
	decoder     *Decoder
)

// registerInstruction adds a declarative instruction descriptor. Called
// from package init() functions.
func registerInstruction(instr *Instruction) {
	declarativeInstructions = append(declarativeInstructions, instr)
}

// registerOpcode wires one exact opcode word to a legacy handler. The
// resulting permutation has an opcode pattern with no wildcard bits, so it
// is always maximally specific and never competes with the instructions
// registered via registerInstruction for the same word.
func registerOpcode(opcode uint16, fn opFunc) {
	legacyPermutations = append(legacyPermutations, Permutation{
		Opcode:  OpcodePattern{set: opcode},
		Handler: legacyHandler(fn),
	})
}

// getDecoder builds the process-lifetime decoder from every registered
// instruction on first use and returns it thereafter. Building lazily
// (rather than via a file-ordered init()) avoids relying on Go's
// source-file init ordering across ops_*.go files.
func getDecoder() *Decoder {
	decoderOnce.Do(func() {
		perms := GenerateAll(declarativeInstructions)
		perms = append(perms, legacyPermutations...)
		decoder = BuildDecoder(perms, fallbackHandler)
	})
	return decoder
}

// fallbackHandler is the single designated fallback for opcodes matching no
// permutation: it reproduces the MC68000's Line-A/Line-F emulator traps and
// falls back to illegal-instruction for everything else. Mapping these to a
// full exception frame beyond what exception() already does is a host
// integration concern (§1 Non-goals).
func fallbackHandler(cpu *CPU, _ *ExecContext) {
	switch cpu.ir >> 12 {
	case 0xA:
		cpu.exception(vecLineA)
	case 0xF:
		cpu.exception(vecLineF)
	default:
		cpu.exception(vecIllegalInstruction)
	}
}
