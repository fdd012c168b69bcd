// Package ecc adds classical redundancy around state vectors so bit-level
// corruption can be detected and often repaired after storage or transport.
//
// Encoding serializes a state into a fixed payload layout and derives three
// independent redundancy layers from it: verbatim repetition copies, a
// per-byte parity bitmap, and Hamming(7,4) codewords covering every nibble.
// Decoding votes across the copies first and falls back to the Hamming
// layer when the voted payload fails its checksum. The package also provides
// structural integrity scoring for live states and a content checksum with
// optional phase and distribution sub-digests.
package ecc
