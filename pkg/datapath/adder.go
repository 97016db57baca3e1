// Package datapath implements the pure combinational blocks of the
// bcomp datapath: the bit adder and 16-bit summator (C1), the ALU (C2),
// the commutator (C3), and the flags unit (C4). Every exported function
// here is a pure function of its inputs — no state, no side effects —
// so the whole package can be exercised with plain table-driven tests
// and the randomized checks in pkg/fuzz.
package datapath

// FullAdder computes one bit position of a ripple-carry adder:
// sum = a XOR b XOR cin, cout = majority(a, b, cin).
func FullAdder(a, b, cin bool) (sum, cout bool) {
	sum = a != b
	sum = sum != cin
	cout = (a && b) || (cin && (a != b))
	return sum, cout
}

// Summator adds two 16-bit words with an initial carry-in, ripple-carry
// style, and exposes the two intermediate carry taps the ALU needs:
// c14 is the carry out of bit 14 (into bit 15, the sign position), and
// c15 is the carry out of bit 15 (the overall carry/borrow-complement
// indicator).
func Summator(a, b uint16, cin bool) (sum uint16, c14, c15 bool) {
	carry := cin
	var result uint16
	for i := uint(0); i < 16; i++ {
		ab := (a>>i)&1 == 1
		bb := (b>>i)&1 == 1
		s, cout := FullAdder(ab, bb, carry)
		if s {
			result |= 1 << i
		}
		if i == 14 {
			c14 = cout
		}
		if i == 15 {
			c15 = cout
		}
		carry = cout
	}
	return result, c14, c15
}
