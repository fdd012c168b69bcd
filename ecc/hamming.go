package ecc

// Hamming(7,4) over nibbles. Each codeword occupies the low 7 bits of a
// byte; bit i of the byte is codeword position i+1 in the classic layout
// p1 p2 d1 p3 d2 d3 d4.

func bit(b byte, pos int) byte {
	return (b >> (pos - 1)) & 1
}

// hammingEncodeNibble expands the low 4 bits of d into a 7-bit codeword.
func hammingEncodeNibble(d byte) byte {
	d1, d2, d3, d4 := d&1, (d>>1)&1, (d>>2)&1, (d>>3)&1

	p1 := d1 ^ d2 ^ d4
	p2 := d1 ^ d3 ^ d4
	p3 := d2 ^ d3 ^ d4

	return p1 | p2<<1 | d1<<2 | p3<<3 | d2<<4 | d3<<5 | d4<<6
}

// hammingSyndrome returns the 1-based position of a single flipped bit in
// cw, or 0 when the codeword is consistent.
func hammingSyndrome(cw byte) int {
	s1 := bit(cw, 1) ^ bit(cw, 3) ^ bit(cw, 5) ^ bit(cw, 7)
	s2 := bit(cw, 2) ^ bit(cw, 3) ^ bit(cw, 6) ^ bit(cw, 7)
	s3 := bit(cw, 4) ^ bit(cw, 5) ^ bit(cw, 6) ^ bit(cw, 7)

	return int(s1) | int(s2)<<1 | int(s3)<<2
}

// hammingDecodeNibble recovers the data nibble from cw, correcting at most
// one flipped bit. It reports the syndrome that was observed.
func hammingDecodeNibble(cw byte) (nibble byte, syndrome int) {
	syndrome = hammingSyndrome(cw)
	if syndrome != 0 {
		cw ^= 1 << (syndrome - 1)
	}

	nibble = bit(cw, 3) | bit(cw, 5)<<1 | bit(cw, 6)<<2 | bit(cw, 7)<<3
	return nibble, syndrome
}

// hammingEncode produces two codeword bytes per payload byte, low nibble
// first.
func hammingEncode(payload []byte) []byte {
	out := make([]byte, 2*len(payload))
	for i, b := range payload {
		out[2*i] = hammingEncodeNibble(b & 0x0f)
		out[2*i+1] = hammingEncodeNibble(b >> 4)
	}

	return out
}

// parityBits packs one even-parity bit per payload byte into a bitmap.
func parityBits(payload []byte) []byte {
	out := make([]byte, (len(payload)+7)/8)
	for i, b := range payload {
		if parity(b) == 1 {
			out[i/8] |= 1 << (i % 8)
		}
	}

	return out
}

// parity returns the number of set bits in b modulo 2.
func parity(b byte) byte {
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b & 1
}
