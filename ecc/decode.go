package ecc

import (
	"bytes"
	"crypto/sha256"

	"github.com/qfold/qfold/quantum"
)

// Correction methods reported in DecodeResult attempts.
const (
	MethodMajorityVote = "majority vote"
	MethodHamming      = "hamming"
)

// CorrectionAttempt records one payload byte that a redundancy layer
// repaired.
type CorrectionAttempt struct {
	Position  int    `json:"position" msgpack:"position"`
	Method    string `json:"method" msgpack:"method"`
	Corrected bool   `json:"corrected" msgpack:"corrected"`
}

// DecodeResult is the outcome of decoding a redundancy envelope.
type DecodeResult struct {
	State *quantum.StateVector
	// CorrectionSuccess is true when the recovered payload matches the
	// stored checksum. A clean envelope decodes with an empty attempt list.
	CorrectionSuccess bool
	Attempts          []CorrectionAttempt
	ErrorsDetected    int
	// ErrorsCorrected counts repairs that led to a checksum-verified
	// payload; it stays zero when correction ultimately failed.
	ErrorsCorrected int
	// ParityMismatches counts parity bits inconsistent with the recovered
	// payload. The parity layer only detects; it never corrects.
	ParityMismatches int
}

// DecodeWithErrorCorrection reconstructs the state from enc, repairing
// corruption with the copy and Hamming layers. Structural damage that makes
// decoding impossible returns ErrMalformedEncoding; mere corruption is
// reported through the result.
func (e *Encoder) DecodeWithErrorCorrection(enc *Encoded) (*DecodeResult, error) {
	if enc == nil || len(enc.Copies) == 0 {
		return nil, &ErrMalformedEncoding{Reason: "no payload copies"}
	}

	size := len(enc.Copies[0])
	for _, c := range enc.Copies[1:] {
		if len(c) != size {
			return nil, &ErrMalformedEncoding{Reason: "copy length mismatch"}
		}
	}

	if len(enc.Checksum) != sha256.Size {
		return nil, &ErrMalformedEncoding{Reason: "bad checksum length"}
	}

	result := &DecodeResult{}

	voted := make([]byte, size)
	for i := 0; i < size; i++ {
		b, disagreed := voteByte(enc.Copies, i)
		voted[i] = b

		if disagreed {
			result.ErrorsDetected++
			result.Attempts = append(result.Attempts, CorrectionAttempt{
				Position:  i,
				Method:    MethodMajorityVote,
				Corrected: true,
			})
		}
	}

	payload := voted
	if sum := sha256.Sum256(voted); !bytes.Equal(sum[:], enc.Checksum) {
		// The copy layer could not settle on a verified payload; re-derive
		// it from the Hamming codewords.
		if recovered := e.hammingRecover(enc, voted, result); recovered != nil {
			payload = recovered
		}
	}

	if sum := sha256.Sum256(payload); bytes.Equal(sum[:], enc.Checksum) {
		result.CorrectionSuccess = true
		result.ErrorsCorrected = result.ErrorsDetected
	}

	if len(enc.Parity) == (size+7)/8 {
		result.ParityMismatches = countParityMismatches(payload, enc.Parity)
	}

	state, err := payloadState(payload, enc.EntanglementID)
	if err != nil {
		return nil, err
	}

	result.State = state
	return result, nil
}

// hammingRecover rebuilds the payload from the Hamming layer and records
// every byte it changed relative to the voted payload. It returns nil when
// the envelope carries no usable Hamming data.
func (e *Encoder) hammingRecover(enc *Encoded, voted []byte, result *DecodeResult) []byte {
	if len(enc.Hamming) != 2*len(voted) {
		return nil
	}

	recovered := make([]byte, len(voted))
	for i := range recovered {
		lo, _ := hammingDecodeNibble(enc.Hamming[2*i])
		hi, _ := hammingDecodeNibble(enc.Hamming[2*i+1])
		recovered[i] = lo | hi<<4

		if recovered[i] != voted[i] {
			result.ErrorsDetected++
			result.Attempts = append(result.Attempts, CorrectionAttempt{
				Position:  i,
				Method:    MethodHamming,
				Corrected: true,
			})
		}
	}

	return recovered
}

// voteByte returns the most common byte at position i across all copies and
// whether any copy disagreed. Ties go to the earliest copy holding a
// plurality value.
func voteByte(copies [][]byte, i int) (byte, bool) {
	if len(copies) == 1 {
		return copies[0][i], false
	}

	var counts [256]int
	best, disagreed := copies[0][i], false

	for _, c := range copies {
		b := c[i]
		counts[b]++

		if b != copies[0][i] {
			disagreed = true
		}

		if counts[b] > counts[best] {
			best = b
		}
	}

	return best, disagreed
}

func countParityMismatches(payload, stored []byte) int {
	expected := parityBits(payload)

	var mismatches int
	for i := range expected {
		diff := expected[i] ^ stored[i]
		for diff != 0 {
			mismatches++
			diff &= diff - 1
		}
	}

	return mismatches
}
