package ecc

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"
)

// Corruption classifications reported by VerifyQuantumChecksum.
const (
	CorruptionSizeMismatch = "size-mismatch"
	CorruptionContent      = "content-corruption"
)

// Checksum is a content digest with optional structural sub-digests.
type Checksum struct {
	// Digest is the SHA-256 of the raw bytes.
	Digest []byte `json:"digest" msgpack:"digest"`
	Size   int    `json:"size" msgpack:"size"`
	// Phase digests the byte-derived phase angles in order; it changes
	// whenever content is reordered or altered.
	Phase []byte `json:"phase,omitempty" msgpack:"phase,omitempty"`
	// Distribution digests the byte histogram; it survives reordering and
	// only changes when the byte population itself changes.
	Distribution []byte    `json:"distribution,omitempty" msgpack:"distribution,omitempty"`
	CreatedAt    time.Time `json:"created_at" msgpack:"created_at"`
}

// ChecksumOption toggles optional sub-digests.
type ChecksumOption func(*checksumOptions)

type checksumOptions struct {
	phase        bool
	distribution bool
}

// WithPhaseChecksum adds the order-sensitive phase sub-digest.
func WithPhaseChecksum() ChecksumOption {
	return func(o *checksumOptions) {
		o.phase = true
	}
}

// WithDistributionChecksum adds the order-insensitive histogram sub-digest.
func WithDistributionChecksum() ChecksumOption {
	return func(o *checksumOptions) {
		o.distribution = true
	}
}

// GenerateQuantumChecksum digests data. The same input always produces the
// same checksum; any single byte change produces a different digest. Empty
// input is valid.
func GenerateQuantumChecksum(data []byte, opts ...ChecksumOption) Checksum {
	var o checksumOptions
	for _, opt := range opts {
		opt(&o)
	}

	digest := sha256.Sum256(data)

	sum := Checksum{
		Digest:    digest[:],
		Size:      len(data),
		CreatedAt: time.Now().UTC(),
	}

	if o.phase {
		sum.Phase = phaseDigest(data)
	}

	if o.distribution {
		sum.Distribution = distributionDigest(data)
	}

	return sum
}

// Verification is the outcome of checking bytes against a stored checksum.
type Verification struct {
	Valid          bool
	IntegrityScore float64
	Corrupted      bool
	// CorruptionType is empty for valid data, otherwise one of the
	// corruption classification constants.
	CorruptionType string
	Severity       float64
}

// VerifyQuantumChecksum recomputes the digest of data and compares it
// against sum. Sub-digests, when present in sum, refine the severity of a
// content mismatch: a matching distribution digest means the byte population
// survived, a matching phase digest means the ordering survived.
func VerifyQuantumChecksum(data []byte, sum Checksum) Verification {
	if len(data) != sum.Size {
		denom := sum.Size
		if denom < 1 {
			denom = 1
		}

		severity := math.Min(1, math.Abs(float64(len(data)-sum.Size))/float64(denom))

		return Verification{
			Corrupted:      true,
			CorruptionType: CorruptionSizeMismatch,
			Severity:       severity,
			IntegrityScore: 1 - severity,
		}
	}

	digest := sha256.Sum256(data)
	if bytes.Equal(digest[:], sum.Digest) {
		return Verification{Valid: true, IntegrityScore: 1}
	}

	severity := 1.0
	if len(sum.Phase) > 0 && bytes.Equal(phaseDigest(data), sum.Phase) {
		severity -= 0.25
	}

	if len(sum.Distribution) > 0 && bytes.Equal(distributionDigest(data), sum.Distribution) {
		severity -= 0.25
	}

	return Verification{
		Corrupted:      true,
		CorruptionType: CorruptionContent,
		Severity:       severity,
		IntegrityScore: 1 - severity,
	}
}

// phaseDigest hashes the byte-derived phase angles in input order.
func phaseDigest(data []byte) []byte {
	h := sha256.New()

	var buf [8]byte
	for _, b := range data {
		phase := 2 * math.Pi * float64(b) / 256
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(phase))
		h.Write(buf[:])
	}

	return h.Sum(nil)
}

// distributionDigest hashes the 256-bucket byte histogram.
func distributionDigest(data []byte) []byte {
	var counts [256]uint64
	for _, b := range data {
		counts[b]++
	}

	h := sha256.New()

	var buf [8]byte
	for _, c := range counts {
		binary.LittleEndian.PutUint64(buf[:], c)
		h.Write(buf[:])
	}

	return h.Sum(nil)
}
