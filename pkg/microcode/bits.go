// Package microcode implements the bcomp control unit: the named
// control-bit positions of a 40-bit microword (§4.6 of the bcomp
// specification), the Word/Microinstruction decode step, and the
// 256-entry MicroROM table (rom.go) that drives the microsequencer.
//
// The decode step follows the teacher's instruction-catalog idiom
// (pkg/inst/catalog.go): named bit-position constants, a single Decode
// function translating the packed representation into a struct of
// named fields, and a table built once in init().
package microcode

// Word is a 40-bit (stored in 64 bits) microinstruction as it sits in
// the MicroROM.
type Word uint64

// Control bit positions, definitive per the bcomp control-bit
// assignment. Bit 7 is reserved (see Microinstruction.RdIR).
const (
	BitRDDR = 0
	BitRDCR = 1
	BitRDIP = 2
	BitRDSP = 3
	BitRDAC = 4
	BitRDBR = 5
	BitRDPS = 6
	BitRDIR = 7 // reserved left-mux source; core always treats it as zero

	BitCOMR = 8
	BitCOML = 9
	BitPLS1 = 10
	BitSORA = 11

	BitLTOL = 12
	BitLTOH = 13
	BitHTOL = 14
	BitHTOH = 15
	BitSEXT = 16
	BitSHLT = 17
	BitSHL0 = 18
	BitSHRT = 19
	BitSHRF = 20

	BitSETC = 21
	BitSETV = 22
	BitSTNZ = 23

	BitWRDR = 24
	BitWRCR = 25
	BitWRIP = 26
	BitWRSP = 27
	BitWRAC = 28
	BitWRBR = 29
	BitWRPS = 30
	BitWRAR = 31

	BitLOAD = 32
	BitSTOR = 33

	BitIO   = 34
	BitINTS = 35

	BitHALT = 38
	BitTYPE = 39 // 1 = branch microinstruction
)

// Branch-field bit ranges, valid only when BitTYPE is set.
const (
	branchMaskShift   = 16 // M[23:16]
	branchExpectShift = 32 // M[32]
	branchTargetShift = 24 // M[31:24]
)

func bit(w Word, n uint) bool { return (w>>n)&1 == 1 }

// Microinstruction is the decoded, named-field form of a Word. Machine
// code never inspects raw bit positions once a Word has been decoded.
type Microinstruction struct {
	RdDR, RdCR, RdIP, RdSP, RdAC, RdBR, RdPS, RdIR bool

	ComR, ComL, Pls1, Sora bool

	Ltol, Ltoh, Htol, Htoh bool
	Sext, Shlt, Shl0, Shrt, Shrf bool

	Setc, Setv, Stnz bool

	WrDR, WrCR, WrIP, WrSP, WrAC, WrBR, WrPS, WrAR bool

	Load, Stor bool
	IO, INTS   bool
	Halt       bool

	Branch       bool
	BranchMask   uint8 // M[23:16], one-hot (or zero) selector over C[7:0]
	BranchExpect bool  // M[32]
	BranchTarget uint8 // M[31:24]
}

// Decode translates a raw 40-bit Word into its named-field form.
func Decode(w Word) Microinstruction {
	return Microinstruction{
		RdDR: bit(w, BitRDDR), RdCR: bit(w, BitRDCR), RdIP: bit(w, BitRDIP),
		RdSP: bit(w, BitRDSP), RdAC: bit(w, BitRDAC), RdBR: bit(w, BitRDBR),
		RdPS: bit(w, BitRDPS), RdIR: bit(w, BitRDIR),

		ComR: bit(w, BitCOMR), ComL: bit(w, BitCOML),
		Pls1: bit(w, BitPLS1), Sora: bit(w, BitSORA),

		Ltol: bit(w, BitLTOL), Ltoh: bit(w, BitLTOH),
		Htol: bit(w, BitHTOL), Htoh: bit(w, BitHTOH),
		Sext: bit(w, BitSEXT), Shlt: bit(w, BitSHLT),
		Shl0: bit(w, BitSHL0), Shrt: bit(w, BitSHRT), Shrf: bit(w, BitSHRF),

		Setc: bit(w, BitSETC), Setv: bit(w, BitSETV), Stnz: bit(w, BitSTNZ),

		WrDR: bit(w, BitWRDR), WrCR: bit(w, BitWRCR), WrIP: bit(w, BitWRIP),
		WrSP: bit(w, BitWRSP), WrAC: bit(w, BitWRAC), WrBR: bit(w, BitWRBR),
		WrPS: bit(w, BitWRPS), WrAR: bit(w, BitWRAR),

		Load: bit(w, BitLOAD), Stor: bit(w, BitSTOR),
		IO: bit(w, BitIO), INTS: bit(w, BitINTS),
		Halt: bit(w, BitHALT),

		Branch:       bit(w, BitTYPE),
		BranchMask:   uint8(w >> branchMaskShift),
		BranchExpect: bit(w, branchExpectShift),
		BranchTarget: uint8(w >> branchTargetShift),
	}
}

// Encode packs a Microinstruction back into its raw Word form. Used
// by the ROM-authoring helpers in rom.go and by tests that build
// synthetic ROMs; the machine itself only ever calls Decode.
func (m Microinstruction) Encode() Word {
	var w Word
	set := func(n uint, v bool) {
		if v {
			w |= 1 << n
		}
	}
	set(BitRDDR, m.RdDR)
	set(BitRDCR, m.RdCR)
	set(BitRDIP, m.RdIP)
	set(BitRDSP, m.RdSP)
	set(BitRDAC, m.RdAC)
	set(BitRDBR, m.RdBR)
	set(BitRDPS, m.RdPS)
	set(BitRDIR, m.RdIR)

	set(BitCOMR, m.ComR)
	set(BitCOML, m.ComL)
	set(BitPLS1, m.Pls1)
	set(BitSORA, m.Sora)

	set(BitLTOL, m.Ltol)
	set(BitLTOH, m.Ltoh)
	set(BitHTOL, m.Htol)
	set(BitHTOH, m.Htoh)
	set(BitSEXT, m.Sext)
	set(BitSHLT, m.Shlt)
	set(BitSHL0, m.Shl0)
	set(BitSHRT, m.Shrt)
	set(BitSHRF, m.Shrf)

	set(BitSETC, m.Setc)
	set(BitSETV, m.Setv)
	set(BitSTNZ, m.Stnz)

	set(BitWRDR, m.WrDR)
	set(BitWRCR, m.WrCR)
	set(BitWRIP, m.WrIP)
	set(BitWRSP, m.WrSP)
	set(BitWRAC, m.WrAC)
	set(BitWRBR, m.WrBR)
	set(BitWRPS, m.WrPS)
	set(BitWRAR, m.WrAR)

	set(BitLOAD, m.Load)
	set(BitSTOR, m.Stor)
	set(BitIO, m.IO)
	set(BitINTS, m.INTS)
	set(BitHALT, m.Halt)

	if m.Branch {
		w |= 1 << BitTYPE
		w |= Word(m.BranchMask) << branchMaskShift
		w |= Word(m.BranchTarget) << branchTargetShift
		set(branchExpectShift, m.BranchExpect)
	}
	return w
}
