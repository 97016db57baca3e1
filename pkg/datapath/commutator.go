package datapath

// CommControls holds the nine byte-routing control bits that steer the
// 19-bit ALU output through the commutator. Within each output section
// (low byte, high byte, carry/overflow pair) the asserted bits are
// checked in the fixed priority order the hardware wires them in; at
// most one rule should ever fire per section in a well-formed
// microword, but ties are broken by this same order so a malformed one
// still behaves deterministically.
type CommControls struct {
	Ltol bool // low byte  <- aluout[7:0]
	Ltoh bool // high byte <- aluout[7:0]
	Htol bool // low byte  <- aluout[15:8]
	Htoh bool // high byte <- aluout[15:8]
	Sext bool // high byte <- 8 copies of aluout[7] (sign extend)
	Shlt bool // shift/rotate left
	Shl0 bool // left-shift fill bit source: AND with PS.C (rotate-through-carry)
	Shrt bool // shift/rotate right
	Shrf bool // right-shift fill bit source: PS.C instead of aluout[15]
}

// EvalCommutator routes a 19-bit packed ALU output (see Eval in alu.go) through
// the commutator, producing the 16-bit bus value split as low/high
// bytes plus the two carry/overflow taps consumed by the flags unit.
func EvalCommutator(aluOut uint32, ctl CommControls) (low, high uint8, c17, c16 bool) {
	loByte := uint8(aluOut)
	hiByte := uint8(aluOut >> 8)
	psC := (aluOut>>BitPSC)&1 == 1
	bit7 := loByte&0x80 != 0 // aluout[7], the low byte's sign bit

	switch {
	case ctl.Htoh:
		high = hiByte
	case ctl.Ltoh:
		high = loByte
	case ctl.Sext:
		if bit7 {
			high = 0xFF
		}
	case ctl.Shlt:
		high = uint8(aluOut >> 7) // aluout[14:7]
	case ctl.Shrt:
		var msb uint8
		if ctl.Shrf {
			if psC {
				msb = 0x80
			}
		} else if hiByte&0x80 != 0 { // aluout[15]
			msb = 0x80
		}
		high = msb | (hiByte >> 1) // {msb, aluout[15:9]}
	}

	switch {
	case ctl.Ltol:
		low = loByte
	case ctl.Htol:
		low = hiByte
	case ctl.Shlt:
		var b0 uint8
		if ctl.Shl0 && psC {
			b0 = 1
		}
		low = (loByte << 1) | b0 // {aluout[6:0], SHL0 AND ps_c}
	case ctl.Shrt:
		low = uint8(aluOut >> 1) // aluout[8:1]
	}

	switch {
	case ctl.Htoh:
		c17 = (aluOut>>BitC14)&1 == 1
		c16 = (aluOut>>BitC15)&1 == 1
	case ctl.Shlt:
		c17 = (aluOut>>14)&1 == 1 // aluout[14]
		c16 = (aluOut>>15)&1 == 1 // aluout[15]
	default:
		c17 = (high&0x80 != 0) && ctl.Shrf // {C[15] AND SHRF, ...}
		c16 = (aluOut&1 == 1) && ctl.Shrt  // {..., aluout[0] AND SHRT}
	}

	return low, high, c17, c16
}
