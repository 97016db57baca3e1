package microcode

// Named microaddresses. Four of these (MicroHalt, MicroInfetch,
// beqEntry, rolEntry) are pinned by the specification itself; the rest
// are free choices made while
// authoring this ROM (see DESIGN.md — no original microcode table was
// retrievable, so this table is an original authoring that satisfies
// every documented constraint rather than a transcription).
const (
	MicroHalt    = 0
	MicroInfetch = 1 // INFETCH entry: steps at 1, 2, 3; decode starts at 4

	decodeRoot    = 4  // test opcode bit 4
	decodeBit3    = 5  // test opcode bit 3
	decodeBit2    = 6  // test opcode bit 2
	decode03Bit1  = 7  // opcodes 0-3: test opcode bit 1
	decode01Bit0  = 8  // opcodes 0-1: test opcode bit 0
	hltLeaf       = 9  // opcode 0 (HLT)
	decode23Bit0  = 12 // opcodes 2-3: test opcode bit 0
	cmpEntry      = 13 // opcode 2 (CMP), 4 steps: 13-16
	decode47Bit1  = 30 // opcodes 4-7: test opcode bit 1
	decode45Bit0  = 31 // opcodes 4-5: test opcode bit 0
	pushEntry     = 32 // opcode 5 (PUSH), 5 steps: 32-36
	decode67Bit0  = 40 // opcodes 6-7: test opcode bit 0
	popEntry      = 41 // opcode 6 (POP), 5 steps: 41-45
	addEntry      = 100 // opcode 0x14 (ADD direct), 4 steps: 100-103
	retEntry      = 110 // opcode 8 (RET), 5 steps: 110-114
	claEntry      = 120 // opcode 1 (CLA), 2 steps: 120-121
	beqEntry      = 0x5B // opcode 3 (BEQ), pinned by spec, 3 steps: 0x5B-0x5D
	rolEntry      = 0x8C // opcode 4 (ROL), pinned by spec, 2 steps: 0x8C-0x8D
	callEntry     = 150  // opcode 7 (CALL), 6 steps: 150-155
)

// Opcode values (CR[15:11]) this ROM recognizes. Every other 5-bit
// pattern is routed to the nearest handler reachable by the decision
// tree below rather than given its own meaning — see DESIGN.md.
const (
	OpHLT  = 0x00
	OpCLA  = 0x01
	OpCMP  = 0x02
	OpBEQ  = 0x03
	OpROL  = 0x04
	OpPUSH = 0x05
	OpPOP  = 0x06
	OpCALL = 0x07
	OpRET  = 0x08
	OpADD  = 0x14
)

func jumpTo(target uint8) Microinstruction {
	return Microinstruction{Branch: true, BranchTarget: target}
}

// testOpcodeBit builds a branch microinstruction that routes CR's high
// byte (opcode<<3 | addr[10:8]) into the commutator's low byte and
// tests bit position cbit of it (the opcode bit at position cbit-3).
// taken is the target when the tested bit equals expect.
func testOpcodeBit(cbit uint8, expect bool, taken uint8) Microinstruction {
	return Microinstruction{
		Branch: true, RdCR: true, Htol: true,
		BranchMask: 1 << cbit, BranchExpect: expect, BranchTarget: taken,
	}
}

// arFromCR loads the low-11-bit address field of CR (which the
// register's own 11-bit truncation on write isolates from CR's
// opcode bits) into AR.
func arFromCR() Microinstruction {
	return Microinstruction{RdCR: true, Ltol: true, Htoh: true, WrAR: true}
}

func init() {
	entries := map[uint8]Microinstruction{
		MicroHalt: {Halt: true},

		// INFETCH: AR<-IP; IP<-IP+1 and LOAD; CR<-DR. Decode starts
		// immediately afterward at decodeRoot (microPC==4), matching
		// the trace interface's "microPC becomes 4 -> capture CR" rule.
		MicroInfetch:     {RdIP: true, Ltol: true, Htoh: true, WrAR: true},
		MicroInfetch + 1: {RdIP: true, Pls1: true, Ltol: true, Htoh: true, WrIP: true, Load: true},
		MicroInfetch + 2: {RdDR: true, Ltol: true, Htoh: true, WrCR: true},

		// Opcode decode tree: CR's high byte (opcode<<3|addr[10:8])
		// routed into the commutator low byte and tested one bit at a
		// time, per §4.5 Step E's single-bit-test branch primitive.
		decodeRoot:   testOpcodeBit(7, true, addEntry), // bit4=1 -> ADD
		decodeBit3:   testOpcodeBit(6, true, retEntry), // bit3=1 -> RET
		decodeBit2:   testOpcodeBit(5, true, decode47Bit1),
		decode03Bit1: testOpcodeBit(4, true, decode23Bit0),
		decode01Bit0: testOpcodeBit(3, true, claEntry), // bit0=1 -> CLA
		hltLeaf:      {Halt: true},

		decode23Bit0: testOpcodeBit(3, true, beqEntry), // bit0=1 -> BEQ
		// fallthrough of decode23Bit0 (bit0=0, opcode CMP) starts at cmpEntry

		decode47Bit1: testOpcodeBit(4, true, decode67Bit0),
		decode45Bit0: testOpcodeBit(3, false, rolEntry), // bit0=0 -> ROL
		// fallthrough of decode45Bit0 (bit0=1, opcode PUSH) starts at pushEntry

		decode67Bit0: testOpcodeBit(3, true, callEntry), // bit0=1 -> CALL
		// fallthrough of decode67Bit0 (bit0=0, opcode POP) starts at popEntry

		// CMP: AR<-CR; LOAD; AC-DR (flags only, no write); jump to INFETCH.
		cmpEntry + 0: arFromCR(),
		cmpEntry + 1: {Load: true},
		cmpEntry + 2: {RdAC: true, RdDR: true, ComR: true, Pls1: true, Ltol: true, Htoh: true, Setc: true, Setv: true, Stnz: true},
		cmpEntry + 3: jumpTo(MicroInfetch),

		// PUSH: SP--; AR<-SP; DR<-AC; STOR; jump to INFETCH.
		pushEntry + 0: {RdSP: true, ComL: true, Ltol: true, Htoh: true, WrSP: true},
		pushEntry + 1: {RdSP: true, Ltol: true, Htoh: true, WrAR: true},
		pushEntry + 2: {RdAC: true, Ltol: true, Htoh: true, WrDR: true},
		pushEntry + 3: {Stor: true},
		pushEntry + 4: jumpTo(MicroInfetch),

		// POP: AR<-SP; LOAD; AC<-DR; SP++; jump to INFETCH.
		popEntry + 0: {RdSP: true, Ltol: true, Htoh: true, WrAR: true},
		popEntry + 1: {Load: true},
		popEntry + 2: {RdDR: true, Ltol: true, Htoh: true, WrAC: true},
		popEntry + 3: {RdSP: true, Pls1: true, Ltol: true, Htoh: true, WrSP: true},
		popEntry + 4: jumpTo(MicroInfetch),

		// ADD direct: AR<-CR's address field; LOAD; AC<-AC+DR; jump to INFETCH.
		addEntry + 0: arFromCR(),
		addEntry + 1: {Load: true},
		addEntry + 2: {RdAC: true, RdDR: true, Ltol: true, Htoh: true, Setc: true, Setv: true, Stnz: true, WrAC: true},
		addEntry + 3: jumpTo(MicroInfetch),

		// RET: AR<-SP; LOAD; IP<-DR; SP++; jump to INFETCH.
		retEntry + 0: {RdSP: true, Ltol: true, Htoh: true, WrAR: true},
		retEntry + 1: {Load: true},
		retEntry + 2: {RdDR: true, Ltol: true, Htoh: true, WrIP: true},
		retEntry + 3: {RdSP: true, Pls1: true, Ltol: true, Htoh: true, WrSP: true},
		retEntry + 4: jumpTo(MicroInfetch),

		// CLA: AC<-0, with Z set via STNZ and V cleared via SETV (the
		// zero-left, zero-right ALU sum is 0 with both carry taps false).
		claEntry + 0: {Ltol: true, Htoh: true, Setv: true, Stnz: true, WrAC: true},
		claEntry + 1: jumpTo(MicroInfetch),

		// BEQ: test PS.Z (PS routed through the left mux, low byte
		// contains bit 2). Microcode-level "taken" (tested==expect)
		// means Z==0, i.e. the ISA branch is NOT taken, so it jumps
		// straight back to INFETCH leaving IP as INFETCH already
		// advanced it. The fallthrough (Z==1, ISA branch taken)
		// overwrites IP with CR's address field first.
		beqEntry + 0: {Branch: true, RdPS: true, Ltol: true, BranchMask: 0x04, BranchExpect: false, BranchTarget: MicroInfetch},
		beqEntry + 1: arToIP(),
		beqEntry + 2: jumpTo(MicroInfetch),

		// ROL: rotate AC left through carry. V is left untouched — a
		// rotate has no arithmetic-overflow meaning.
		rolEntry + 0: {RdAC: true, Shlt: true, Shl0: true, Setc: true, Stnz: true, WrAC: true},
		rolEntry + 1: jumpTo(MicroInfetch),

		// CALL: SP--; AR<-SP; DR<-IP (already advanced past the CALL
		// word by INFETCH); STOR; IP<-CR's address field; jump to INFETCH.
		callEntry + 0: {RdSP: true, ComL: true, Ltol: true, Htoh: true, WrSP: true},
		callEntry + 1: {RdSP: true, Ltol: true, Htoh: true, WrAR: true},
		callEntry + 2: {RdIP: true, Ltol: true, Htoh: true, WrDR: true},
		callEntry + 3: {Stor: true},
		callEntry + 4: arToIP(),
		callEntry + 5: jumpTo(MicroInfetch),
	}

	for addr, mi := range entries {
		DefaultROM[addr] = mi.Encode()
	}
}

// arToIP copies CR's address field into IP — used by BEQ (taken) and
// CALL to jump/call to the address the instruction word named.
func arToIP() Microinstruction {
	return Microinstruction{RdCR: true, Ltol: true, Htoh: true, WrIP: true}
}

// DefaultROM is the 256-entry MicroROM preloaded at reset. Entries not
// named above are zero, which decodes as a harmless operational
// microinstruction (no register/memory writes, advance microPC by 1).
var DefaultROM [256]Word
