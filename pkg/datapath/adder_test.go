package datapath

import "testing"

func TestFullAdder(t *testing.T) {
	tests := []struct {
		a, b, cin  bool
		sum, cout  bool
	}{
		{false, false, false, false, false},
		{true, false, false, true, false},
		{false, true, false, true, false},
		{true, true, false, false, true},
		{true, true, true, true, true},
		{false, false, true, true, false},
	}
	for _, tt := range tests {
		sum, cout := FullAdder(tt.a, tt.b, tt.cin)
		if sum != tt.sum || cout != tt.cout {
			t.Errorf("FullAdder(%v,%v,%v) = (%v,%v), want (%v,%v)",
				tt.a, tt.b, tt.cin, sum, cout, tt.sum, tt.cout)
		}
	}
}

func TestSummatorArithmeticIdentity(t *testing.T) {
	tests := []struct {
		a, b uint16
		cin  bool
	}{
		{0, 0, false},
		{0x2345, 0, false},
		{0xFFFF, 1, false},
		{0x8000, 0x8000, false},
		{0x7FFF, 0x0001, false},
		{0x1234, 0x5678, true},
	}
	for _, tt := range tests {
		sum, c14, c15 := Summator(tt.a, tt.b, tt.cin)
		cinBit := uint32(0)
		if tt.cin {
			cinBit = 1
		}
		full := uint32(tt.a) + uint32(tt.b) + cinBit
		wantSum := uint16(full)
		wantC15 := (full>>16)&1 == 1
		low15 := (uint32(tt.a)&0x7FFF + uint32(tt.b)&0x7FFF + cinBit)
		wantC14 := (low15>>15)&1 == 1

		if sum != wantSum || c14 != wantC14 || c15 != wantC15 {
			t.Errorf("Summator(%#x,%#x,%v) = (%#x,%v,%v), want (%#x,%v,%v)",
				tt.a, tt.b, tt.cin, sum, c14, c15, wantSum, wantC14, wantC15)
		}
	}
}
