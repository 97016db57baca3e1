package datapath

import "testing"

func pack(result uint16, c15, c14, psC bool) uint32 {
	out := uint32(result)
	if c15 {
		out |= 1 << BitC15
	}
	if c14 {
		out |= 1 << BitC14
	}
	if psC {
		out |= 1 << BitPSC
	}
	return out
}

func TestCommutatorPassthrough(t *testing.T) {
	aluOut := pack(0x1234, false, false, false)
	low, high, c17, c16 := EvalCommutator(aluOut, CommControls{Ltol: true, Htoh: true})
	if low != 0x34 || high != 0x12 {
		t.Errorf("passthrough = %#x%02x, want 0x1234", high, low)
	}
	if c17 || c16 {
		t.Errorf("passthrough carry taps should be false here")
	}
}

func TestCommutatorByteSwap(t *testing.T) {
	aluOut := pack(0x1234, false, false, false)
	low, high, _, _ := EvalCommutator(aluOut, CommControls{Htol: true, Ltoh: true})
	if low != 0x12 || high != 0x34 {
		t.Errorf("byte swap = %#x%02x, want 0x3412", high, low)
	}
}

func TestCommutatorSignExtend(t *testing.T) {
	low, high, _, _ := EvalCommutator(pack(0x00FF, false, false, false), CommControls{Ltol: true, Sext: true})
	if low != 0xFF || high != 0xFF {
		t.Errorf("sign extend of negative byte = %#x%02x, want 0xFFFF", high, low)
	}
	low, high, _, _ = EvalCommutator(pack(0x007F, false, false, false), CommControls{Ltol: true, Sext: true})
	if low != 0x7F || high != 0x00 {
		t.Errorf("sign extend of positive byte = %#x%02x, want 0x007F", high, low)
	}
}

func TestCommutatorRotateLeftThroughCarry(t *testing.T) {
	// AC = 0x8000, PS.C = 0 -> result 0x0000, carry out = 1.
	aluOut := pack(0x8000, false, false, false)
	low, high, c17, c16 := EvalCommutator(aluOut, CommControls{Shlt: true, Shl0: true})
	if low != 0 || high != 0 {
		t.Errorf("ROL(0x8000) = %#x%02x, want 0x0000", high, low)
	}
	if !c16 {
		t.Errorf("ROL(0x8000) expected carry-out c16=true")
	}
	_ = c17
}

func TestCommutatorRotateRightThroughCarry(t *testing.T) {
	// AC = 0x0001, PS.C = 1, SHRF selects PS.C into the vacated MSB.
	aluOut := pack(0x0001, false, false, true)
	low, high, _, c16 := EvalCommutator(aluOut, CommControls{Shrt: true, Shrf: true})
	got := uint16(high)<<8 | uint16(low)
	if got != 0x8000 {
		t.Errorf("ROR(0x0001, c=1) = %#04x, want 0x8000", got)
	}
	if !c16 {
		t.Errorf("ROR(0x0001) expected carry-out c16=true (shifted-out bit was 1)")
	}
}

func TestCommutatorHtohPassesAdderTaps(t *testing.T) {
	aluOut := pack(0, true, true, false)
	_, _, c17, c16 := EvalCommutator(aluOut, CommControls{Htoh: true})
	if !c17 || !c16 {
		t.Errorf("HTOH should pass c14/c15 taps unchanged, got c17=%v c16=%v", c17, c16)
	}
}
